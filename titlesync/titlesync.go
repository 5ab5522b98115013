/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package titlesync keeps bracket tags in PR titles and their matching
// labels aligned in both directions: edit the title and the labels follow,
// toggle a label and the title follows. It owns the wip/poc/hold label set
// and is the one engine allowed to remove those labels.
package titlesync

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
)

// tagLabel pairs a canonical bracket tag with its tracking label. Its
// pattern matches occurrences like "[WIP]" or "[wip] " in a title.
type tagLabel struct {
	Tag     string
	Label   string
	pattern *regexp.Regexp
}

func newTagLabel(tag, label string) tagLabel {
	return tagLabel{
		Tag:     tag,
		Label:   label,
		pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta("["+tag+"]") + ` ?`),
	}
}

// tagLabels maps canonical bracket tags to their labels, in the order
// prefixes are reported.
var tagLabels = []tagLabel{
	newTagLabel("WIP", "wip"),
	newTagLabel("POC", "poc"),
	newTagLabel("HOLD", "hold"),
}

// hasTag reports whether title carries the bracket tag anywhere,
// case-insensitively.
func (tl tagLabel) hasTag(title string) bool {
	return tl.pattern.MatchString(title)
}

// stripTag removes every bracket tag occurrence (and one trailing space
// each) from title, case-insensitively.
func (tl tagLabel) stripTag(title string) string {
	return strings.TrimSpace(tl.pattern.ReplaceAllString(title, ""))
}

// tagForLabel resolves a label name back to its tag entry.
func tagForLabel(label string) (tagLabel, bool) {
	for _, tl := range tagLabels {
		if tl.Label == label {
			return tl, true
		}
	}
	return tagLabel{}, false
}

// Engine synchronizes one repository's PR titles and tag labels.
type Engine struct {
	gh    *github.Client
	owner string
	repo  string
}

// New returns an engine for owner/repo.
func New(gh *github.Client, owner, repo string) *Engine {
	return &Engine{gh: gh, owner: owner, repo: repo}
}

// SyncFromTitle aligns the tag labels with the bracket tags present in the
// PR title: missing tag labels are added, tag labels whose tag is gone are
// removed. Labels outside the tag set are never touched.
func (e *Engine) SyncFromTitle(ctx context.Context, number int, title string) error {
	log := clog.FromContext(ctx).With("pr", number)
	current, err := e.currentLabels(ctx, number)
	if err != nil {
		return err
	}
	present := map[string]bool{}
	for _, l := range current {
		present[l] = true
	}

	var add, remove []string
	for _, tl := range tagLabels {
		switch has := tl.hasTag(title); {
		case has && !present[tl.Label]:
			add = append(add, tl.Label)
		case !has && present[tl.Label]:
			remove = append(remove, tl.Label)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		log.Debug("title and tag labels already aligned")
		return nil
	}

	if len(add) > 0 {
		if _, _, err := e.gh.Issues.AddLabelsToIssue(ctx, e.owner, e.repo, number, add); err != nil {
			return fmt.Errorf("adding tag labels %v: %w", add, err)
		}
	}
	for _, l := range remove {
		if _, err := e.gh.Issues.RemoveLabelForIssue(ctx, e.owner, e.repo, number, l); err != nil {
			return fmt.Errorf("removing tag label %q: %w", l, err)
		}
	}
	log.With("added", strings.Join(add, ","), "removed", strings.Join(remove, ",")).Info("synced tag labels from title")
	return nil
}

// SyncFromLabel aligns the title with a tag label change: an added tag
// label prepends its [TAG] prefix, a removed one strips it. Labels outside
// the tag set are ignored.
func (e *Engine) SyncFromLabel(ctx context.Context, number int, title, label string, added bool) error {
	log := clog.FromContext(ctx).With("pr", number)
	tl, ok := tagForLabel(label)
	if !ok {
		log.With("label", label).Debug("not a tag label, ignoring")
		return nil
	}

	want := title
	if added {
		if !tl.hasTag(title) {
			want = "[" + tl.Tag + "] " + title
		}
	} else {
		want = tl.stripTag(title)
	}
	if want == title {
		log.Debug("title already aligned")
		return nil
	}

	if _, _, err := e.gh.PullRequests.Edit(ctx, e.owner, e.repo, number, &github.PullRequest{
		Title: github.Ptr(want),
	}); err != nil {
		return fmt.Errorf("editing PR title: %w", err)
	}
	log.With("title", want).Info("synced title from tag label")
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
