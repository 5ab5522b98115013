/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/chainguard-dev/keeper/stale"
	"github.com/spf13/cobra"
)

var (
	flagThreshold time.Duration
	flagReport    string

	staleCmd = &cobra.Command{
		Use:   "stale",
		Short: "Label quiet open PRs stale and report them",
		RunE:  runStale,
	}
)

func init() {
	staleCmd.Flags().DurationVar(&flagThreshold, "threshold", 0, "inactivity threshold (defaults to $KEEPER_STALE_THRESHOLD)")
	staleCmd.Flags().StringVar(&flagReport, "report", "", "append the Markdown report to this file (defaults to $GITHUB_STEP_SUMMARY, else stdout)")
	rootCmd.AddCommand(staleCmd)
}

func runStale(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	owner, repo, err := repository()
	if err != nil {
		return err
	}
	gh, err := newGitHub(ctx)
	if err != nil {
		return err
	}

	threshold := cfg.StaleThreshold
	if flagThreshold > 0 {
		threshold = flagThreshold
	}
	s := stale.New(gh, owner, repo, stale.WithThreshold(threshold), stale.WithLabel(cfg.StaleLabel))
	prs, err := s.Reconcile(ctx)
	if err != nil {
		return err
	}

	out := os.Stdout
	target := flagReport
	if target == "" {
		target = cfg.StepSummary
	}
	if target != "" {
		f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening report target: %w", err)
		}
		defer f.Close()
		out = f
	}
	return stale.WriteReport(out, prs, threshold)
}
