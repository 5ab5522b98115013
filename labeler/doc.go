/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package labeler drives one label reconciliation run for a pull request.
//
// A run takes a normalized snapshot, parses the directive block out of the
// body, validates each value against the configured acceptance domains, and
// computes a purely additive label delta. Before the delta is applied the
// repository label registry is brought up to date, creating any missing
// release/backport labels with their fixed metadata. The feedback comment
// lifecycle rides along: invalid values upsert an error comment before the
// run fails, and clean runs sweep stale comments away.
//
// Two properties are worth calling out because everything else is built
// around them:
//
//   - The reconciler never removes a label. Removal is reserved for humans
//     (and for the triage guard, which only restores).
//   - A domain with any invalid value contributes nothing, and a blocking
//     error in either the release or backport domain stops labels from both.
//     Partial application is worse than none, because a half-applied delta
//     looks like a finished one to the next run.
//
// Errors returned by Reconcile are already reported to the PR as comments;
// callers only decide the process exit path, using errors.As to tell
// user-fixable validation problems from repository configuration problems.
package labeler
