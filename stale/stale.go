/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package stale scans open pull requests for inactivity. A PR's last
// activity is the newest of its updatedAt timestamp, last issue comment,
// last review, and last commit; PRs quiet past the threshold gain the
// stale label and PRs active again lose it.
package stale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/keeper/policy"
	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"
)

// DefaultThreshold is how long a PR may sit quiet before it is stale.
const DefaultThreshold = 720 * time.Hour

// PR is one open pull request with its computed activity state.
type PR struct {
	Number     int
	Title      string
	Author     string
	LastActive time.Time
	Labeled    bool
	Labels     []string
}

// Scanner pages open PRs over GraphQL and reconciles the stale label.
type Scanner struct {
	gh        *github.Client
	gql       *githubv4.Client
	owner     string
	repo      string
	threshold time.Duration
	label     string
	now       func() time.Time
}

// Option configures the scanner.
type Option func(*Scanner)

// WithThreshold overrides the inactivity threshold.
func WithThreshold(d time.Duration) Option {
	return func(s *Scanner) {
		s.threshold = d
	}
}

// WithLabel overrides the stale label name.
func WithLabel(name string) Option {
	return func(s *Scanner) {
		s.label = name
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		s.now = now
	}
}

// New returns a scanner for owner/repo. The GraphQL endpoint is derived
// from the REST client's base URL so both talk to the same host.
func New(gh *github.Client, owner, repo string, opts ...Option) *Scanner {
	s := &Scanner{
		gh:        gh,
		gql:       githubv4.NewEnterpriseClient(strings.TrimSuffix(gh.BaseURL.String(), "/")+"/graphql", gh.Client()),
		owner:     owner,
		repo:      repo,
		threshold: DefaultThreshold,
		label:     policy.StaleLabel,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconcile scans every open PR, labels the quiet ones, unlabels the ones
// active again, and returns the stale set for reporting.
func (s *Scanner) Reconcile(ctx context.Context) ([]PR, error) {
	log := clog.FromContext(ctx)
	prs, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-s.threshold)
	var stale []PR
	for _, pr := range prs {
		inactive := pr.LastActive.Before(cutoff)
		switch {
		case inactive && !pr.Labeled:
			if _, _, err := s.gh.Issues.AddLabelsToIssue(ctx, s.owner, s.repo, pr.Number, []string{s.label}); err != nil {
				return nil, fmt.Errorf("labeling PR #%d stale: %w", pr.Number, err)
			}
			log.With("pr", pr.Number, "last_active", pr.LastActive).Info("marked PR stale")
			stale = append(stale, pr)
		case inactive:
			stale = append(stale, pr)
		case pr.Labeled:
			if _, err := s.gh.Issues.RemoveLabelForIssue(ctx, s.owner, s.repo, pr.Number, s.label); err != nil {
				return nil, fmt.Errorf("unlabeling active PR #%d: %w", pr.Number, err)
			}
			log.With("pr", pr.Number).Info("PR active again, removed stale label")
		}
	}
	log.With("open", len(prs), "stale", len(stale)).Info("stale scan complete")
	return stale, nil
}

// Threshold exposes the configured threshold for report rendering.
func (s *Scanner) Threshold() time.Duration {
	return s.threshold
}

func (s *Scanner) scan(ctx context.Context) ([]PR, error) {
	var out []PR
	var cursor *githubv4.String
	for {
		var q struct {
			Repository struct {
				PullRequests struct {
					Nodes []struct {
						Number    int
						Title     string
						UpdatedAt githubv4.DateTime
						Author    struct {
							Login string
						}
						Labels struct {
							Nodes []struct {
								Name string
							}
						} `graphql:"labels(first: 100)"`
						Comments struct {
							Nodes []struct {
								CreatedAt githubv4.DateTime
							}
						} `graphql:"comments(last: 1)"`
						Reviews struct {
							Nodes []struct {
								SubmittedAt githubv4.DateTime
							}
						} `graphql:"reviews(last: 1)"`
						Commits struct {
							Nodes []struct {
								Commit struct {
									CommittedDate githubv4.DateTime
								}
							}
						} `graphql:"commits(last: 1)"`
					}
					PageInfo struct {
						HasNextPage bool
						EndCursor   githubv4.String
					}
				} `graphql:"pullRequests(states: [OPEN], first: 100, after: $cursor)"`
			} `graphql:"repository(owner: $owner, name: $repo)"`
		}
		variables := map[string]any{
			"owner":  githubv4.String(s.owner),
			"repo":   githubv4.String(s.repo),
			"cursor": cursor,
		}
		if err := s.gql.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("querying open pull requests: %w", err)
		}

		for _, n := range q.Repository.PullRequests.Nodes {
			pr := PR{
				Number:     n.Number,
				Title:      n.Title,
				Author:     n.Author.Login,
				LastActive: n.UpdatedAt.Time,
			}
			// updatedAt lags some activity kinds, so take the newest of
			// every source we can see.
			for _, c := range n.Comments.Nodes {
				if c.CreatedAt.After(pr.LastActive) {
					pr.LastActive = c.CreatedAt.Time
				}
			}
			for _, r := range n.Reviews.Nodes {
				if r.SubmittedAt.After(pr.LastActive) {
					pr.LastActive = r.SubmittedAt.Time
				}
			}
			for _, c := range n.Commits.Nodes {
				if c.Commit.CommittedDate.After(pr.LastActive) {
					pr.LastActive = c.Commit.CommittedDate.Time
				}
			}
			for _, l := range n.Labels.Nodes {
				pr.Labels = append(pr.Labels, l.Name)
				if l.Name == s.label {
					pr.Labeled = true
				}
			}
			out = append(out, pr)
		}

		if !q.Repository.PullRequests.PageInfo.HasNextPage {
			break
		}
		c := q.Repository.PullRequests.PageInfo.EndCursor
		cursor = &c
	}
	return out, nil
}
