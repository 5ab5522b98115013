/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package triage decides whether a pull request belongs in triage or is
// ready for review, and defends the triage label against accidental
// removal. The decision function is pure; the engine around it deals with
// the settling delay and live label state.
package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/keeper/policy"
	"github.com/google/go-github/v75/github"
)

// DefaultSettleDelay is how long the engine waits before reading label
// state. Sibling automation triggered by the same event may still be
// writing labels; the delay narrows (but cannot close) that window.
const DefaultSettleDelay = 10 * time.Second

// Signals are the classification inputs.
type Signals struct {
	Draft            bool
	Release          bool // release label present, or a valid release directive this run
	Backport         bool // analogous
	ValidationFailed bool // a validation error comment was posted this run
}

// Action is the classification outcome.
type Action int

const (
	// ActionNone leaves the label state alone.
	ActionNone Action = iota
	// ActionEnsureTriage ensures the triage label is present.
	ActionEnsureTriage
	// ActionEnsureReady ensures the ready-for-review label is present.
	ActionEnsureReady
)

// Classify evaluates the precedence rules, first match wins: a validation
// failure forces triage even when a release signal is present; a release
// target on a non-draft PR means ready for review; no backport target means
// triage; a backport-only PR is left alone.
func Classify(s Signals) Action {
	switch {
	case s.ValidationFailed:
		return ActionEnsureTriage
	case s.Release && !s.Draft:
		return ActionEnsureReady
	case !s.Backport:
		return ActionEnsureTriage
	default:
		return ActionNone
	}
}

// Engine applies classification decisions to live label state.
type Engine struct {
	gh     *github.Client
	owner  string
	repo   string
	settle time.Duration
	dryRun bool
}

// Option configures the engine.
type Option func(*Engine)

// WithSettleDelay overrides the wait before label state is re-read. Zero
// skips the wait entirely.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.settle = d
	}
}

// WithDryRun logs intended label mutations instead of performing them.
func WithDryRun(dry bool) Option {
	return func(e *Engine) {
		e.dryRun = dry
	}
}

// New returns an engine for owner/repo.
func New(gh *github.Client, owner, repo string, opts ...Option) *Engine {
	e := &Engine{gh: gh, owner: owner, repo: repo, settle: DefaultSettleDelay}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inputs carry the per-run directive signals into classification. Label
// state is deliberately not an input: the engine reads it live after the
// settling delay.
type Inputs struct {
	Draft             bool
	ValidationFailed  bool
	ReleaseDirective  bool
	BackportDirective bool
}

// Reconcile waits out the settling delay, reads live labels, and applies
// the classification decision. Ensuring a label that is already present
// costs zero API calls.
func (e *Engine) Reconcile(ctx context.Context, number int, in Inputs) error {
	log := clog.FromContext(ctx)
	if e.settle > 0 {
		log.Debugf("settling %s before reading label state", e.settle)
		select {
		case <-time.After(e.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	labels, err := e.currentLabels(ctx, number)
	if err != nil {
		return err
	}

	s := Signals{
		Draft:            in.Draft,
		ValidationFailed: in.ValidationFailed,
		Release:          in.ReleaseDirective || policy.Release(nil).HasLabel(labels),
		Backport:         in.BackportDirective || policy.Backport(nil).HasLabel(labels),
	}
	switch action := Classify(s); action {
	case ActionEnsureTriage:
		return e.ensure(ctx, number, labels, policy.TriageLabel)
	case ActionEnsureReady:
		return e.ensure(ctx, number, labels, policy.ReadyForReviewLabel)
	default:
		log.Debug("classification left the label state alone")
		return nil
	}
}

// Guard enforces the triage invariant on label-removal events: when the
// triage label is removed from a PR that still has no release or backport
// target, it goes right back. The guard restores, it never removes.
func (e *Engine) Guard(ctx context.Context, number int, removed string) error {
	log := clog.FromContext(ctx)
	if removed != policy.TriageLabel {
		log.With("label", removed).Debug("removal is not guarded")
		return nil
	}

	labels, err := e.currentLabels(ctx, number)
	if err != nil {
		return err
	}
	if policy.Release(nil).HasLabel(labels) || policy.Backport(nil).HasLabel(labels) {
		log.Debug("release or backport target present, triage removal stands")
		return nil
	}
	return e.ensure(ctx, number, labels, policy.TriageLabel)
}

func (e *Engine) ensure(ctx context.Context, number int, current []string, label string) error {
	log := clog.FromContext(ctx).With("label", label)
	for _, l := range current {
		if l == label {
			log.Debug("label already present")
			return nil
		}
	}
	if e.dryRun {
		log.Info("dry run, would add label")
		return nil
	}
	if _, _, err := e.gh.Issues.AddLabelsToIssue(ctx, e.owner, e.repo, number, []string{label}); err != nil {
		return fmt.Errorf("adding %q label: %w", label, err)
	}
	log.Info("added label")
	return nil
}

func (e *Engine) currentLabels(ctx context.Context, number int) ([]string, error) {
	var out []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := e.gh.Issues.ListLabelsByIssue(ctx, e.owner, e.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing labels: %w", err)
		}
		for _, l := range labels {
			out = append(out, l.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}
