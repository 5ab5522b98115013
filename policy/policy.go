/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package policy defines the acceptance domains directive values are
// validated against, and the capability table that decides which parts of
// the engine run at all.
package policy

import (
	"fmt"
	"strings"

	"github.com/chainguard-dev/keeper/directive"
)

// Directive keys with fixed meanings.
const (
	// FeatureBranchKey is the boolean directive asking for FeatureBranchLabel.
	FeatureBranchKey = "needs_feature_branch"
)

// Label names with fixed meanings across the engine.
const (
	// TriageLabel marks PRs and issues awaiting human routing.
	TriageLabel = "triage"
	// ReadyForReviewLabel marks non-draft PRs with a valid release target.
	ReadyForReviewLabel = "ready for review"
	// FeatureBranchLabel marks PRs whose work needs a feature branch.
	FeatureBranchLabel = "feature-branch"
	// StaleLabel marks PRs without recent activity.
	StaleLabel = "stale"
)

// Domain is a named acceptance policy: the set of tokens a directive may
// carry, plus the prefix and creation metadata for labels minted from those
// tokens. Membership is case-sensitive and exact.
type Domain struct {
	// Name is both the directive key and the label prefix.
	Name string
	// Accepted is the ordered set of accepted tokens.
	Accepted []string
	// Color is the hex color (no leading #) for auto-created labels.
	Color string
	// Description is the fmt template for auto-created label descriptions.
	Description string
}

// Release builds the release domain over the accepted versions.
func Release(accepted []string) *Domain {
	return &Domain{Name: "release", Accepted: accepted, Color: "00FF00", Description: "Release %s"}
}

// Backport builds the backport domain over the accepted versions.
func Backport(accepted []string) *Domain {
	return &Domain{Name: "backport", Accepted: accepted, Color: "0000FF", Description: "Backport to %s"}
}

// Accepts reports exact membership of v in the accepted set.
func (d *Domain) Accepts(v string) bool {
	for _, a := range d.Accepted {
		if a == v {
			return true
		}
	}
	return false
}

// Label maps an accepted value to its label name, e.g. release-1.5.
func (d *Domain) Label(v string) string {
	return d.Name + "-" + v
}

// Value is the inverse of Label. ok is false when name does not carry this
// domain's prefix.
func (d *Domain) Value(name string) (string, bool) {
	return strings.CutPrefix(name, d.Name+"-")
}

// LabelDescription renders the creation-time description for value v.
func (d *Domain) LabelDescription(v string) string {
	return fmt.Sprintf(d.Description, v)
}

// HasLabel reports whether any existing label carries this domain's prefix.
func (d *Domain) HasLabel(labels []string) bool {
	for _, l := range labels {
		if _, ok := d.Value(l); ok {
			return true
		}
	}
	return false
}

// ItemOutcome is one validated value.
type ItemOutcome struct {
	Value string
	Valid bool
}

// Outcome is one domain's validation result for one run. Scalar and list
// inputs produce the same shape, so the extractors work uniformly.
type Outcome struct {
	Items []ItemOutcome
}

// Validate checks every value of v against the domain.
func (d *Domain) Validate(v directive.Value) Outcome {
	var out Outcome
	for _, s := range v.Strings() {
		out.Items = append(out.Items, ItemOutcome{Value: s, Valid: d.Accepts(s)})
	}
	return out
}

// OK reports whether every value validated. A domain with any invalid value
// contributes no labels at all for the run, valid siblings included.
func (o Outcome) OK() bool {
	for _, it := range o.Items {
		if !it.Valid {
			return false
		}
	}
	return true
}

// ValidValues returns the values that validated, in input order.
func (o Outcome) ValidValues() []string {
	var out []string
	for _, it := range o.Items {
		if it.Valid {
			out = append(out, it.Value)
		}
	}
	return out
}

// InvalidValues returns the values that failed, in input order.
func (o Outcome) InvalidValues() []string {
	var out []string
	for _, it := range o.Items {
		if !it.Valid {
			out = append(out, it.Value)
		}
	}
	return out
}

// Flag is a parsed boolean directive.
type Flag int

const (
	// FlagFalse asks for nothing. An absent or empty directive parses as
	// FlagFalse; nothing is ever removed on its account.
	FlagFalse Flag = iota
	// FlagTrue asks for the label.
	FlagTrue
	// FlagInvalid is anything else and earns a validation comment.
	FlagInvalid
)

// ParseFlag interprets a boolean directive value: surrounding whitespace
// trimmed, one layer of quotes stripped, case ignored.
func ParseFlag(raw string) Flag {
	v := strings.TrimSpace(raw)
	if len(v) >= 2 {
		if c := v[0]; (c == '\'' || c == '"') && v[len(v)-1] == c {
			v = v[1 : len(v)-1]
		}
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return FlagTrue
	case "false", "":
		return FlagFalse
	}
	return FlagInvalid
}

// Capabilities is the feature table resolved once at startup. Components
// consult it instead of re-deriving feature availability at decision time.
type Capabilities struct {
	Release       bool
	Backport      bool
	FeatureBranch bool
	TitleSync     bool
}

// Resolve derives the capability table: a value domain is enabled when it
// has accepted tokens, the toggles pass through as configured.
func Resolve(release, backport *Domain, featureBranch, titleSync bool) Capabilities {
	return Capabilities{
		Release:       release != nil && len(release.Accepted) > 0,
		Backport:      backport != nil && len(backport.Accepted) > 0,
		FeatureBranch: featureBranch,
		TitleSync:     titleSync,
	}
}
