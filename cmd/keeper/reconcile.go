/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"errors"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/keeper/labeler"
	"github.com/chainguard-dev/keeper/snapshot"
	"github.com/chainguard-dev/keeper/triage"
	"github.com/spf13/cobra"
)

var (
	flagArtifact string
	flagDryRun   bool

	reconcileCmd = &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile release, backport, and feature-branch labels from the PR description",
		RunE:  runReconcile,
	}
)

func init() {
	reconcileCmd.Flags().StringVar(&flagEventPath, "event-path", "", "path to the Actions event payload (defaults to $GITHUB_EVENT_PATH)")
	reconcileCmd.Flags().StringVar(&flagArtifact, "artifact", "", "path to a cross-fork metadata artifact (used instead of the event payload)")
	reconcileCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "skip the settling delay and log classification changes instead of applying them")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := clog.FromContext(ctx)

	owner, repo, err := repository()
	if err != nil {
		return err
	}

	var src snapshot.Source
	if flagArtifact != "" {
		src = &snapshot.ArtifactSource{Path: flagArtifact}
	} else {
		path, err := eventPath()
		if err != nil {
			return err
		}
		src = &snapshot.EventSource{Path: path}
	}

	snap, err := src.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		log.With("origin", string(src.Origin())).Warn("unusable trigger payload, nothing to do")
		return nil
	}

	gh, err := newGitHub(ctx)
	if err != nil {
		return err
	}

	rec := labeler.New(gh, owner, repo,
		labeler.WithAcceptedReleases(cfg.AcceptedReleases),
		labeler.WithAcceptedBackports(cfg.AcceptedBackports),
		labeler.WithFeatureBranch(cfg.FeatureBranch),
	)
	res, rerr := rec.Reconcile(ctx, snap)

	// Classification still runs after a validation or configuration
	// failure; the PR should land in triage before the step fails.
	var verr *labeler.ValidationError
	var cerr *labeler.ConfigurationError
	classifiable := rerr == nil || errors.As(rerr, &verr) || errors.As(rerr, &cerr)
	if classifiable && snap.Kind == snapshot.KindPullRequest {
		opts := []triage.Option{triage.WithSettleDelay(cfg.SettleDelay)}
		if flagDryRun {
			opts = append(opts, triage.WithSettleDelay(0), triage.WithDryRun(true))
		}
		eng := triage.New(gh, owner, repo, opts...)
		terr := eng.Reconcile(ctx, snap.Number, triage.Inputs{
			Draft:             res.Draft,
			ValidationFailed:  res.ValidationFailed,
			ReleaseDirective:  res.ReleaseDirective,
			BackportDirective: res.BackportDirective,
		})
		switch {
		case terr == nil:
		case rerr == nil:
			rerr = terr
		default:
			// Keep the validation error as the run's outcome.
			log.Errorf("classification failed: %v", terr)
		}
	}
	return rerr
}
