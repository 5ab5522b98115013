/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/keeper/snapshot"
	"github.com/chainguard-dev/keeper/triage"
	"github.com/spf13/cobra"
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Restore the triage label when it is removed from an unrouted PR",
	RunE:  runGuard,
}

func init() {
	guardCmd.Flags().StringVar(&flagEventPath, "event-path", "", "path to the Actions event payload (defaults to $GITHUB_EVENT_PATH)")
	rootCmd.AddCommand(guardCmd)
}

func runGuard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := clog.FromContext(ctx)

	owner, repo, err := repository()
	if err != nil {
		return err
	}
	path, err := eventPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	snap := snapshot.FromEvent(ctx, data)
	if snap == nil {
		log.Warn("unusable event payload, nothing to guard")
		return nil
	}
	if snap.EventAction != "unlabeled" {
		log.With("action", snap.EventAction).Debug("guard only acts on unlabeled events")
		return nil
	}
	label, ok := snapshot.EventLabel(data)
	if !ok {
		log.Debug("event carries no label, nothing to guard")
		return nil
	}

	gh, err := newGitHub(ctx)
	if err != nil {
		return err
	}
	return triage.New(gh, owner, repo).Guard(ctx, snap.Number, label)
}
