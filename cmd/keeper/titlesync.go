/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/keeper/snapshot"
	"github.com/chainguard-dev/keeper/titlesync"
	"github.com/spf13/cobra"
)

var titleSyncCmd = &cobra.Command{
	Use:   "title-sync",
	Short: "Keep [WIP]/[POC]/[HOLD] title tags and their labels aligned",
	RunE:  runTitleSync,
}

func init() {
	titleSyncCmd.Flags().StringVar(&flagEventPath, "event-path", "", "path to the Actions event payload (defaults to $GITHUB_EVENT_PATH)")
	rootCmd.AddCommand(titleSyncCmd)
}

func runTitleSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := clog.FromContext(ctx)

	if !cfg.TitleSync {
		log.Debug("title sync disabled")
		return nil
	}

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
		log.Warn("unusable event payload, nothing to sync")
		return nil
	}
	if snap.Kind != snapshot.KindPullRequest {
		log.With("kind", string(snap.Kind)).Debug("title sync only applies to pull requests")
		return nil
	}

	gh, err := newGitHub(ctx)
	if err != nil {
		return err
	}
	eng := titlesync.New(gh, owner, repo)

	switch snap.EventAction {
	case "labeled", "unlabeled":
		label, ok := snapshot.EventLabel(data)
		if !ok {
			log.Debug("event carries no label, nothing to sync")
			return nil
		}
		return eng.SyncFromLabel(ctx, snap.Number, snap.Title, label, snap.EventAction == "labeled")
	default:
		return eng.SyncFromTitle(ctx, snap.Number, snap.Title)
	}
}
