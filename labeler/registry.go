/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package labeler

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/keeper/policy"
	"github.com/google/go-github/v75/github"
)

// ensureRepoLabels brings the repository label registry up to date with the
// delta, creating missing labels with the owning domain's fixed metadata.
// The returned messages describe creation failures in the wording the admin
// comment uses; an empty return means every label in the delta exists.
func (r *Reconciler) ensureRepoLabels(ctx context.Context, delta []string) []string {
	log := clog.FromContext(ctx)
	existing, err := r.repoLabels(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Could not list repository labels: %v", err)}
	}

	var failures []string
	for _, name := range delta {
		if existing[name] {
			continue
		}
		d, value, ok := r.domainFor(name)
		// Deltas are built from validated values, so a miss here is a bug,
		// not user input. Refuse to create rather than mint a stray label.
		if !ok || !d.Accepts(value) {
			log.With("label", name).Warn("refusing to create label outside the accepted domains")
			continue
		}
		if _, _, err := r.gh.Issues.CreateLabel(ctx, r.owner, r.repo, &github.Label{
			Name:        github.Ptr(name),
			Color:       github.Ptr(d.Color),
			Description: github.Ptr(d.LabelDescription(value)),
		}); err != nil {
			failures = append(failures, fmt.Sprintf("Could not create label %q: %v", name, err))
			continue
		}
		log.With("label", name).Info("created repository label")
	}
	return failures
}

// domainFor resolves which domain owns a label name by its prefix.
func (r *Reconciler) domainFor(name string) (*policy.Domain, string, bool) {
	for _, d := range []*policy.Domain{r.release, r.backport} {
		if v, ok := d.Value(name); ok {
			return d, v, true
		}
	}
	return nil, "", false
}

func (r *Reconciler) repoLabels(ctx context.Context) (map[string]bool, error) {
	out := map[string]bool{}
	opts := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := r.gh.Issues.ListLabels(ctx, r.owner, r.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repository labels: %w", err)
		}
		for _, l := range labels {
			out[l.GetName()] = true
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}
