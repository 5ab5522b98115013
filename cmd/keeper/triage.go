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

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Route newly opened issues and PRs into triage",
	RunE:  runTriage,
}

func init() {
	triageCmd.Flags().StringVar(&flagEventPath, "event-path", "", "path to the Actions event payload (defaults to $GITHUB_EVENT_PATH)")
	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, _ []string) error {
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
		log.Warn("unusable event payload, nothing to triage")
		return nil
	}
	if snap.EventAction != "opened" {
		log.With("action", snap.EventAction).Debug("triage only acts on opened events")
		return nil
	}

	gh, err := newGitHub(ctx)
	if err != nil {
		return err
	}
	// A freshly opened item has no sibling automation racing it, so no
	// settling delay here.
	eng := triage.New(gh, owner, repo, triage.WithSettleDelay(0))
	return eng.Reconcile(ctx, snap.Number, triage.Inputs{Draft: snap.Draft})
}
