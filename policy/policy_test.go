/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package policy

import (
	"testing"

	"github.com/chainguard-dev/keeper/directive"
	"github.com/google/go-cmp/cmp"
)

func TestDomainAccepts(t *testing.T) {
	d := Release([]string{"1.4", "1.5", "2.0"})

	for _, v := range []string{"1.4", "1.5", "2.0"} {
		if !d.Accepts(v) {
			t.Errorf("Accepts(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"1.5 ", "9.9", "", "1", "v1.5"} {
		if d.Accepts(v) {
			t.Errorf("Accepts(%q) = true, want false", v)
		}
	}
}

func TestDomainLabels(t *testing.T) {
	d := Backport([]string{"1.0", "2.0"})

	if got, want := d.Label("2.0"), "backport-2.0"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
	if got, want := d.LabelDescription("2.0"), "Backport to 2.0"; got != want {
		t.Errorf("LabelDescription() = %q, want %q", got, want)
	}
	if got, want := d.Color, "0000FF"; got != want {
		t.Errorf("Color = %q, want %q", got, want)
	}
	if got, want := Release(nil).Color, "00FF00"; got != want {
		t.Errorf("release Color = %q, want %q", got, want)
	}

	v, ok := d.Value("backport-2.0")
	if !ok || v != "2.0" {
		t.Errorf("Value(backport-2.0) = %q, %v; want %q, true", v, ok, "2.0")
	}
	if _, ok := d.Value("backported"); ok {
		t.Error("Value(backported) matched the backport prefix")
	}
	if _, ok := d.Value("release-1.5"); ok {
		t.Error("Value(release-1.5) matched the backport prefix")
	}
}

func TestDomainHasLabel(t *testing.T) {
	d := Release([]string{"1.5"})

	if !d.HasLabel([]string{"triage", "release-1.4"}) {
		t.Error("HasLabel missed an existing release label")
	}
	if d.HasLabel([]string{"triage", "released", "backport-1.0"}) {
		t.Error("HasLabel matched labels outside the domain")
	}
}

func TestValidate(t *testing.T) {
	d := Release([]string{"1.4", "1.5"})

	tests := []struct {
		name        string
		value       directive.Value
		wantOK      bool
		wantValid   []string
		wantInvalid []string
	}{{
		name:      "valid scalar",
		value:     directive.Value{Scalar: "1.5"},
		wantOK:    true,
		wantValid: []string{"1.5"},
	}, {
		name:        "invalid scalar",
		value:       directive.Value{Scalar: "9.9"},
		wantInvalid: []string{"9.9"},
	}, {
		name:      "valid list",
		value:     directive.Value{List: []string{"1.4", "1.5"}, IsList: true},
		wantOK:    true,
		wantValid: []string{"1.4", "1.5"},
	}, {
		name:        "one bad element fails the domain but keeps the valid context",
		value:       directive.Value{List: []string{"1.4", "9.9", "1.5"}, IsList: true},
		wantValid:   []string{"1.4", "1.5"},
		wantInvalid: []string{"9.9"},
	}, {
		name:   "empty list is vacuously ok",
		value:  directive.Value{List: []string{}, IsList: true},
		wantOK: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Validate(tt.value)
			if got.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", got.OK(), tt.wantOK)
			}
			if diff := cmp.Diff(tt.wantValid, got.ValidValues()); diff != "" {
				t.Errorf("ValidValues() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantInvalid, got.InvalidValues()); diff != "" {
				t.Errorf("InvalidValues() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		raw  string
		want Flag
	}{
		{"true", FlagTrue},
		{"TRUE", FlagTrue},
		{"True", FlagTrue},
		{" true ", FlagTrue},
		{`"true"`, FlagTrue},
		{"'TRUE'", FlagTrue},
		{"false", FlagFalse},
		{"False", FlagFalse},
		{`"false"`, FlagFalse},
		{"", FlagFalse},
		{"  ", FlagFalse},
		{`""`, FlagFalse},
		{"yes", FlagInvalid},
		{"1", FlagInvalid},
		{"maybe_invalid_value", FlagInvalid},
		{`"yes"`, FlagInvalid},
	}

	for _, tt := range tests {
		if got := ParseFlag(tt.raw); got != tt.want {
			t.Errorf("ParseFlag(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	caps := Resolve(Release([]string{"1.5"}), Backport(nil), true, false)
	want := Capabilities{Release: true, Backport: false, FeatureBranch: true, TitleSync: false}
	if diff := cmp.Diff(want, caps); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}
