/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package snapshot

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/chainguard-dev/clog"
)

// artifact is the cross-fork metadata schema written by unprivileged runs.
// Free-text fields may arrive as a plain value, or as a _base64 sibling with
// the encoding map declaring which applies.
type artifact struct {
	Type        string            `json:"type"`
	EventAction string            `json:"event_action"`
	Number      int               `json:"number"`
	Title       string            `json:"title"`
	TitleBase64 string            `json:"title_base64"`
	Body        string            `json:"body"`
	BodyBase64  string            `json:"body_base64"`
	Encoding    map[string]string `json:"encoding"`
	Draft       bool              `json:"draft"`
	Author      struct {
		Login string `json:"login"`
		ID    int64  `json:"id"`
	} `json:"author"`
}

// FromArtifact decodes a metadata artifact into a snapshot. Malformed JSON
// beyond repair, undecodable declared fields, and schema violations all
// return nil rather than an error: absent metadata means "nothing to do".
func FromArtifact(ctx context.Context, data []byte) *PullRequestSnapshot {
	log := clog.FromContext(ctx)

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		repaired, ok := repairFreeText(data)
		if !ok {
			log.Warnf("discarding artifact: %v", err)
			return nil
		}
		if err := json.Unmarshal(repaired, &a); err != nil {
			log.Warnf("discarding artifact, still malformed after repair: %v", err)
			return nil
		}
		log.Info("repaired free-text fields in artifact")
	}

	if a.Encoding["title"] == "base64" {
		a.Title = decodeDeclaredField(ctx, "title", a.TitleBase64)
	}
	if a.Encoding["body"] == "base64" {
		a.Body = decodeDeclaredField(ctx, "body", a.BodyBase64)
	}

	switch Kind(a.Type) {
	case KindPullRequest, KindIssue:
		if a.Author.Login == "" {
			log.Warnf("discarding %s artifact: missing author login", a.Type)
			return nil
		}
	case KindWorkflowRun:
	default:
		log.Warnf("discarding artifact: unknown type %q", a.Type)
		return nil
	}
	if a.EventAction == "" {
		log.Warn("discarding artifact: missing event_action")
		return nil
	}

	return &PullRequestSnapshot{
		Kind:        Kind(a.Type),
		EventAction: a.EventAction,
		Number:      a.Number,
		Title:       a.Title,
		Body:        a.Body,
		Draft:       a.Draft,
		Author:      a.Author.Login,
		Origin:      OriginArtifact,
	}
}

// decodeDeclaredField strictly decodes a field the encoding map declared as
// base64. An empty input decodes to an empty string; undecodable input leaves
// the field unset, mirroring an absent field rather than failing the run.
func decodeDeclaredField(ctx context.Context, name, raw string) string {
	if raw == "" {
		return ""
	}
	out, err := base64.StdEncoding.Strict().DecodeString(raw)
	if err != nil {
		clog.WarnContextf(ctx, "ignoring undecodable base64 %s field: %v", name, err)
		return ""
	}
	return string(out)
}
