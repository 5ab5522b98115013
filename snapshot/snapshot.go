/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package snapshot

import (
	"context"
	"fmt"
	"os"
)

// Kind identifies what sort of resource a snapshot describes.
type Kind string

const (
	KindPullRequest Kind = "pull_request"
	KindIssue       Kind = "issue"
	KindWorkflowRun Kind = "workflow_run"
)

// Origin identifies which trigger path produced a snapshot.
type Origin string

const (
	OriginEvent    Origin = "event"
	OriginArtifact Origin = "artifact"
)

// PullRequestSnapshot is the normalized view of a triggering event. It is
// produced once per run and never mutated. Label state is deliberately not
// part of the snapshot: labels may change while a run is in flight, so they
// are fetched live immediately before any decision that depends on them.
type PullRequestSnapshot struct {
	Kind        Kind
	EventAction string
	Number      int
	Title       string
	Body        string
	Draft       bool
	Author      string
	Origin      Origin
}

// Source produces a snapshot from one trigger origin.
type Source interface {
	// Snapshot returns the normalized snapshot, or nil when the input was
	// read but is unusable. Only I/O failures surface as errors.
	Snapshot(ctx context.Context) (*PullRequestSnapshot, error)

	// Origin identifies the source for logging.
	Origin() Origin
}

// EventSource reads a GitHub Actions event payload from disk.
type EventSource struct {
	Path string
}

// Origin implements Source.
func (s *EventSource) Origin() Origin { return OriginEvent }

// Snapshot implements Source.
func (s *EventSource) Snapshot(ctx context.Context) (*PullRequestSnapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading event payload: %w", err)
	}
	return FromEvent(ctx, data), nil
}

// ArtifactSource reads a cross-fork metadata artifact from disk.
type ArtifactSource struct {
	Path string
}

// Origin implements Source.
func (s *ArtifactSource) Origin() Origin { return OriginArtifact }

// Snapshot implements Source.
func (s *ArtifactSource) Snapshot(ctx context.Context) (*PullRequestSnapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return FromArtifact(ctx, data), nil
}
