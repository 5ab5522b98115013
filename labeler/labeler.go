/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package labeler

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/keeper/directive"
	"github.com/chainguard-dev/keeper/feedback"
	"github.com/chainguard-dev/keeper/policy"
	"github.com/chainguard-dev/keeper/snapshot"
	"github.com/google/go-github/v75/github"
)

// Reconciler runs label reconciliation for a single repository.
type Reconciler struct {
	gh       *github.Client
	owner    string
	repo     string
	release  *policy.Domain
	backport *policy.Domain
	fbFlow   bool
	caps     policy.Capabilities
	comments *feedback.Manager
}

// Option configures the reconciler.
type Option func(*Reconciler)

// WithAcceptedReleases sets the accepted release versions. An empty set
// disables the release domain.
func WithAcceptedReleases(versions []string) Option {
	return func(r *Reconciler) {
		r.release = policy.Release(versions)
	}
}

// WithAcceptedBackports sets the accepted backport versions. An empty set
// disables the backport domain.
func WithAcceptedBackports(versions []string) Option {
	return func(r *Reconciler) {
		r.backport = policy.Backport(versions)
	}
}

// WithFeatureBranch toggles the needs_feature_branch flow, on by default.
func WithFeatureBranch(enabled bool) Option {
	return func(r *Reconciler) {
		r.fbFlow = enabled
	}
}

// New returns a reconciler for owner/repo. The capability table is resolved
// once here; nothing downstream probes for feature availability again.
func New(gh *github.Client, owner, repo string, opts ...Option) *Reconciler {
	r := &Reconciler{
		gh:       gh,
		owner:    owner,
		repo:     repo,
		release:  policy.Release(nil),
		backport: policy.Backport(nil),
		fbFlow:   true,
		comments: feedback.NewManager(gh, owner, repo),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.caps = policy.Resolve(r.release, r.backport, r.fbFlow, false)
	return r
}

// Capabilities exposes the resolved capability table.
func (r *Reconciler) Capabilities() policy.Capabilities {
	return r.caps
}

// Result summarizes one run for the classification stage.
type Result struct {
	// ValidationFailed reports that a validation comment was posted this
	// run, the non-blocking feature-branch comment included.
	ValidationFailed bool
	// ReleaseDirective and BackportDirective report at least one fully
	// valid directive value for the domain this run. An empty list carries
	// no values and leaves the signal unset.
	ReleaseDirective  bool
	BackportDirective bool
	// Draft mirrors the snapshot.
	Draft bool
	// Applied lists the labels added this run, in order.
	Applied []string
}

// Reconcile runs one pass over the snapshot: parse directives, validate,
// sweep or upsert feedback comments, ensure repository labels, apply the
// delta. A nil or non-PR snapshot is a clean no-op. A returned
// ValidationError or ConfigurationError means the matching comment has been
// posted and the run must ultimately fail; the caller still feeds the
// Result to classification first.
func (r *Reconciler) Reconcile(ctx context.Context, snap *snapshot.PullRequestSnapshot) (*Result, error) {
	log := clog.FromContext(ctx)
	res := &Result{}
	if snap == nil {
		log.Warn("no usable snapshot, nothing to reconcile")
		return res, nil
	}
	if snap.Kind != snapshot.KindPullRequest {
		log.With("kind", string(snap.Kind)).Debug("snapshot is not a pull request, nothing to reconcile")
		return res, nil
	}
	res.Draft = snap.Draft
	log = log.With("pr", snap.Number)

	block := directive.Parse(snap.Body)
	if block == nil {
		log.Debug("no directive block, sweeping stale feedback")
		if _, err := r.comments.Sweep(ctx, snap.Number, feedback.TopicReleaseBackport); err != nil {
			return res, err
		}
		_, err := r.comments.Sweep(ctx, snap.Number, feedback.TopicFeatureBranch)
		return res, err
	}

	current, err := r.currentLabels(ctx, snap.Number)
	if err != nil {
		return res, err
	}

	if r.caps.FeatureBranch {
		if err := r.featureBranch(ctx, snap.Number, block, current, res); err != nil {
			return res, err
		}
	}
	if !r.caps.Release && !r.caps.Backport {
		return res, nil
	}

	var valueErrs, delta []string
	for _, dom := range []struct {
		d       *policy.Domain
		enabled bool
		signal  *bool
	}{
		{r.release, r.caps.Release, &res.ReleaseDirective},
		{r.backport, r.caps.Backport, &res.BackportDirective},
	} {
		if !dom.enabled {
			continue
		}
		if dom.d.HasLabel(current) {
			log.With("domain", dom.d.Name).Debug("existing domain label present, leaving the domain alone")
			continue
		}
		v, ok := block[dom.d.Name]
		if !ok {
			continue
		}
		outcome := dom.d.Validate(v)
		for _, bad := range outcome.InvalidValues() {
			valueErrs = append(valueErrs, fmt.Sprintf("Invalid %s value: %q", dom.d.Name, bad))
		}
		if !outcome.OK() {
			// All-or-nothing: valid siblings from this domain stay out too.
			continue
		}
		vals := outcome.ValidValues()
		if len(vals) == 0 {
			log.With("domain", dom.d.Name).Debug("empty directive list, treating as absent")
			continue
		}
		*dom.signal = true
		for _, val := range vals {
			delta = append(delta, dom.d.Label(val))
		}
	}

	if len(valueErrs) > 0 {
		res.ValidationFailed = true
		body := feedback.ComposeReleaseBackport(valueErrs, nil)
		if err := r.comments.Upsert(ctx, snap.Number, feedback.TopicReleaseBackport, body); err != nil {
			return res, err
		}
		return res, &ValidationError{Messages: valueErrs}
	}

	if _, err := r.comments.Sweep(ctx, snap.Number, feedback.TopicReleaseBackport); err != nil {
		return res, err
	}
	if len(delta) == 0 {
		log.Debug("no label delta")
		return res, nil
	}

	if failures := r.ensureRepoLabels(ctx, delta); len(failures) > 0 {
		res.ValidationFailed = true
		body := feedback.ComposeReleaseBackport(nil, failures)
		if err := r.comments.Upsert(ctx, snap.Number, feedback.TopicReleaseBackport, body); err != nil {
			return res, err
		}
		return res, &ConfigurationError{Messages: failures}
	}

	if err := r.addLabels(ctx, snap.Number, delta); err != nil {
		return res, err
	}
	res.Applied = append(res.Applied, delta...)
	log.With("labels", strings.Join(delta, ",")).Info("applied label delta")
	return res, nil
}

// featureBranch handles the needs_feature_branch directive. Its failures
// post a comment but never block the rest of the run.
func (r *Reconciler) featureBranch(ctx context.Context, number int, block directive.Block, current []string, res *Result) error {
	log := clog.FromContext(ctx)
	for _, l := range current {
		if l == policy.FeatureBranchLabel {
			log.Debug("feature-branch label already present, skipping directive")
			_, err := r.comments.Sweep(ctx, number, feedback.TopicFeatureBranch)
			return err
		}
	}

	v, ok := block[policy.FeatureBranchKey]
	if !ok {
		_, err := r.comments.Sweep(ctx, number, feedback.TopicFeatureBranch)
		return err
	}
	raw := v.Scalar
	flag := policy.ParseFlag(raw)
	if v.IsList {
		raw = strings.Join(v.List, ", ")
		flag = policy.FlagInvalid
	}

	switch flag {
	case policy.FlagInvalid:
		res.ValidationFailed = true
		log.With("value", raw).Warn("invalid needs_feature_branch value")
		return r.comments.Upsert(ctx, number, feedback.TopicFeatureBranch, feedback.ComposeFeatureBranch(raw))
	case policy.FlagTrue:
		if _, err := r.comments.Sweep(ctx, number, feedback.TopicFeatureBranch); err != nil {
			return err
		}
		if err := r.addLabels(ctx, number, []string{policy.FeatureBranchLabel}); err != nil {
			return err
		}
		res.Applied = append(res.Applied, policy.FeatureBranchLabel)
		log.Info("added feature-branch label")
		return nil
	default:
		_, err := r.comments.Sweep(ctx, number, feedback.TopicFeatureBranch)
		return err
	}
}

func (r *Reconciler) addLabels(ctx context.Context, number int, names []string) error {
	if _, _, err := r.gh.Issues.AddLabelsToIssue(ctx, r.owner, r.repo, number, names); err != nil {
		return fmt.Errorf("adding labels %v: %w", names, err)
	}
	return nil
}

func (r *Reconciler) currentLabels(ctx context.Context, number int) ([]string, error) {
	var out []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := r.gh.Issues.ListLabelsByIssue(ctx, r.owner, r.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing PR labels: %w", err)
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
