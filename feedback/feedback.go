/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package feedback owns the validation-error comments keeper posts on pull
// requests. Every comment carries a hidden, structured marker naming its
// failure topic; cleanup matches the decoded marker, never the rendered
// prose, so wording can evolve without stranding old comments.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
)

// Topic identifies a feedback failure domain.
type Topic string

const (
	// TopicReleaseBackport covers release and backport directive failures,
	// including labels an administrator must create.
	TopicReleaseBackport Topic = "release-backport"
	// TopicFeatureBranch covers the boolean feature-branch directive.
	TopicFeatureBranch Topic = "feature-branch"
)

const (
	markerPrefix = "<!-- keeper/feedback: "
	markerSuffix = " -->"
)

// marker is the machine-readable payload embedded in each comment.
type marker struct {
	Topic Topic `json:"topic"`
}

// renderMarker produces the hidden footer for a topic.
func renderMarker(t Topic) string {
	b, _ := json.Marshal(marker{Topic: t})
	return markerPrefix + string(b) + markerSuffix
}

// commentTopic decodes the marker from a comment body, if one is present.
func commentTopic(body string) (Topic, bool) {
	i := strings.Index(body, markerPrefix)
	if i < 0 {
		return "", false
	}
	rest := body[i+len(markerPrefix):]
	j := strings.Index(rest, markerSuffix)
	if j < 0 {
		return "", false
	}
	var m marker
	if err := json.Unmarshal([]byte(rest[:j]), &m); err != nil || m.Topic == "" {
		return "", false
	}
	return m.Topic, true
}

// Manager maintains the feedback comments for one repository.
type Manager struct {
	gh    *github.Client
	owner string
	repo  string
}

// NewManager returns a manager for owner/repo.
func NewManager(gh *github.Client, owner, repo string) *Manager {
	return &Manager{gh: gh, owner: owner, repo: repo}
}

// Upsert converges the PR onto exactly one comment for the topic with the
// given body. An identical comment already in place costs zero mutations;
// stale ones for the same topic are deleted.
func (m *Manager) Upsert(ctx context.Context, number int, topic Topic, body string) error {
	log := clog.FromContext(ctx)
	full := body + "\n\n" + renderMarker(topic)

	existing, err := m.listTopic(ctx, number, topic)
	if err != nil {
		return err
	}

	keep := int64(-1)
	for _, c := range existing {
		if keep < 0 && c.GetBody() == full {
			keep = c.GetID()
			continue
		}
		if _, err := m.gh.Issues.DeleteComment(ctx, m.owner, m.repo, c.GetID()); err != nil {
			return fmt.Errorf("deleting stale %s comment %d: %w", topic, c.GetID(), err)
		}
	}
	if keep >= 0 {
		log.With("topic", topic).Debug("feedback comment already current")
		return nil
	}

	if _, _, err := m.gh.Issues.CreateComment(ctx, m.owner, m.repo, number, &github.IssueComment{
		Body: github.Ptr(full),
	}); err != nil {
		return fmt.Errorf("posting %s comment: %w", topic, err)
	}
	log.With("topic", topic).Info("posted feedback comment")
	return nil
}

// Sweep deletes every comment carrying the topic's marker and reports how
// many went away.
func (m *Manager) Sweep(ctx context.Context, number int, topic Topic) (int, error) {
	existing, err := m.listTopic(ctx, number, topic)
	if err != nil {
		return 0, err
	}
	for _, c := range existing {
		if _, err := m.gh.Issues.DeleteComment(ctx, m.owner, m.repo, c.GetID()); err != nil {
			return 0, fmt.Errorf("deleting %s comment %d: %w", topic, c.GetID(), err)
		}
	}
	if n := len(existing); n > 0 {
		clog.FromContext(ctx).With("topic", topic, "count", n).Info("swept feedback comments")
	}
	return len(existing), nil
}

// listTopic returns the comments on the PR whose marker decodes to topic.
func (m *Manager) listTopic(ctx context.Context, number int, topic Topic) ([]*github.IssueComment, error) {
	var out []*github.IssueComment
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := m.gh.Issues.ListComments(ctx, m.owner, m.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments: %w", err)
		}
		for _, c := range comments {
			if t, ok := commentTopic(c.GetBody()); ok && t == topic {
				out = append(out, c)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}
