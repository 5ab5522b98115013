/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package snapshot normalizes the two ways a keeper run learns about a pull
// request into one immutable shape, PullRequestSnapshot.
//
// Direct runs read the GitHub Actions event payload. Cross-fork runs cannot
// trust the triggering context, so an unprivileged workflow serializes the PR
// metadata into an artifact which a privileged workflow downloads and decodes
// here. Both origins implement Source.
//
// Artifacts are written by templating engines that interpolate PR titles and
// bodies verbatim, so the JSON frequently arrives with raw control characters
// (or quotes, or braces) inside those two string values. Decoding therefore
// parses strictly first and, on failure, runs a field-scoped repair pass that
// re-terminates and re-escapes the free-text values before one strict retry.
//
// Unusable content is never an error: decoding returns a nil snapshot and the
// caller treats the run as a no-op. Only I/O failures surface as errors.
package snapshot
