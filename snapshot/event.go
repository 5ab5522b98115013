/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package snapshot

import (
	"context"
	"encoding/json"

	"github.com/chainguard-dev/clog"
)

// actionsEvent is the subset of the GitHub Actions event payload keeper
// consumes. Which pointer is populated tells us what kind of event fired.
type actionsEvent struct {
	Action      string `json:"action"`
	PullRequest *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		Draft  bool   `json:"draft"`
		User   struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"pull_request"`
	Issue *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		User   struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"issue"`
	Label *struct {
		Name string `json:"name"`
	} `json:"label"`
}

// FromEvent normalizes a GitHub Actions event payload. It returns nil when
// the payload is not JSON, describes neither a pull request nor an issue, or
// is missing required fields.
func FromEvent(ctx context.Context, data []byte) *PullRequestSnapshot {
	log := clog.FromContext(ctx)

	var ev actionsEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Warnf("discarding event payload: %v", err)
		return nil
	}

	switch {
	case ev.PullRequest != nil:
		if ev.Action == "" || ev.PullRequest.User.Login == "" {
			log.Warn("discarding pull_request event: missing action or author")
			return nil
		}
		return &PullRequestSnapshot{
			Kind:        KindPullRequest,
			EventAction: ev.Action,
			Number:      ev.PullRequest.Number,
			Title:       ev.PullRequest.Title,
			Body:        ev.PullRequest.Body,
			Draft:       ev.PullRequest.Draft,
			Author:      ev.PullRequest.User.Login,
			Origin:      OriginEvent,
		}
	case ev.Issue != nil:
		if ev.Action == "" || ev.Issue.User.Login == "" {
			log.Warn("discarding issue event: missing action or author")
			return nil
		}
		return &PullRequestSnapshot{
			Kind:        KindIssue,
			EventAction: ev.Action,
			Number:      ev.Issue.Number,
			Title:       ev.Issue.Title,
			Body:        ev.Issue.Body,
			Author:      ev.Issue.User.Login,
			Origin:      OriginEvent,
		}
	default:
		log.Warn("discarding event payload: neither pull_request nor issue")
		return nil
	}
}

// EventLabel extracts the label name from a labeled or unlabeled event
// payload. ok is false when the payload carries no label.
func EventLabel(data []byte) (name string, ok bool) {
	var ev actionsEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.Label == nil {
		return "", false
	}
	return ev.Label.Name, ev.Label.Name != ""
}
