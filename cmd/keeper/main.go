/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements keeper, the PR label reconciliation and triage
// automation. Each subcommand handles one workflow trigger: reconcile
// consumes pull_request events or cross-fork artifacts, guard and
// title-sync consume label events, triage consumes opened events, and
// stale runs on a schedule.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}
}
