/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v75/github"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		want    Action
	}{{
		name:    "no signals lands in triage",
		signals: Signals{},
		want:    ActionEnsureTriage,
	}, {
		name:    "release target on non-draft is ready for review",
		signals: Signals{Release: true},
		want:    ActionEnsureReady,
	}, {
		name:    "validation failure beats a release target",
		signals: Signals{Release: true, ValidationFailed: true},
		want:    ActionEnsureTriage,
	}, {
		name:    "validation failure alone lands in triage",
		signals: Signals{ValidationFailed: true},
		want:    ActionEnsureTriage,
	}, {
		name:    "draft release with no backport lands in triage",
		signals: Signals{Release: true, Draft: true},
		want:    ActionEnsureTriage,
	}, {
		name:    "draft release with a backport is left alone",
		signals: Signals{Release: true, Backport: true, Draft: true},
		want:    ActionNone,
	}, {
		name:    "backport only is left alone",
		signals: Signals{Backport: true},
		want:    ActionNone,
	}, {
		name:    "backport with draft is left alone",
		signals: Signals{Backport: true, Draft: true},
		want:    ActionNone,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.signals); got != tt.want {
				t.Errorf("Classify(%+v) = %v, want %v", tt.signals, got, tt.want)
			}
		})
	}
}

// fakeLabels serves the two label endpoints the engine touches for a
// single pull request and records every attempted add.
type fakeLabels struct {
	labels []string
	added  []string
	lists  int
}

func (f *fakeLabels) handler(t *testing.T, number int) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/repos/octo/widgets/issues/%d/labels", number), func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.lists++
			var out []*github.Label
			for _, name := range f.labels {
				out = append(out, &github.Label{Name: github.Ptr(name)})
			}
			if err := json.NewEncoder(w).Encode(out); err != nil {
				t.Errorf("encoding labels: %v", err)
			}
		case http.MethodPost:
			var names []string
			if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
				t.Errorf("decoding add request: %v", err)
			}
			f.added = append(f.added, names...)
			f.labels = append(f.labels, names...)
			fmt.Fprint(w, "[]")
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	return mux
}

func newFakeClient(t *testing.T, h http.Handler) *github.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	client := github.NewClient(nil)
	client.BaseURL = u
	return client
}

func TestReconcileAddsTriage(t *testing.T) {
	f := &fakeLabels{}
	e := New(newFakeClient(t, f.handler(t, 7)), "octo", "widgets", WithSettleDelay(0))

	if err := e.Reconcile(context.Background(), 7, Inputs{}); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(f.added) != 1 || f.added[0] != "triage" {
		t.Errorf("added %v, want [triage]", f.added)
	}
}

func TestReconcileAddsReadyForReview(t *testing.T) {
	f := &fakeLabels{labels: []string{"release-1.0"}}
	e := New(newFakeClient(t, f.handler(t, 7)), "octo", "widgets", WithSettleDelay(0))

	if err := e.Reconcile(context.Background(), 7, Inputs{ReleaseDirective: true}); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(f.added) != 1 || f.added[0] != "ready for review" {
		t.Errorf("added %v, want [ready for review]", f.added)
	}
}

func TestReconcileReadsLiveLabelState(t *testing.T) {
	// No directive signals this run, but a release label already on the PR
	// still counts as a release target.
	f := &fakeLabels{labels: []string{"release-2.0"}}
	e := New(newFakeClient(t, f.handler(t, 7)), "octo", "widgets", WithSettleDelay(0))

	if err := e.Reconcile(context.Background(), 7, Inputs{}); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(f.added) != 1 || f.added[0] != "ready for review" {
		t.Errorf("added %v, want [ready for review]", f.added)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := &fakeLabels{labels: []string{"triage"}}
	e := New(newFakeClient(t, f.handler(t, 7)), "octo", "widgets", WithSettleDelay(0))

	if err := e.Reconcile(context.Background(), 7, Inputs{}); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(f.added) != 0 {
		t.Errorf("added %v, want no adds when the label is already present", f.added)
	}
}

func TestReconcileLeavesBackportOnlyAlone(t *testing.T) {
	f := &fakeLabels{labels: []string{"backport-1.5"}}
	e := New(newFakeClient(t, f.handler(t, 7)), "octo", "widgets", WithSettleDelay(0))

	if err := e.Reconcile(context.Background(), 7, Inputs{}); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(f.added) != 0 {
		t.Errorf("added %v, want no adds for a backport-only PR", f.added)
	}
}

func TestReconcileDryRun(t *testing.T) {
	f := &fakeLabels{}
	e := New(newFakeClient(t, f.handler(t, 7)), "octo", "widgets", WithSettleDelay(0), WithDryRun(true))

	if err := e.Reconcile(context.Background(), 7, Inputs{}); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(f.added) != 0 {
		t.Errorf("added %v, want no adds in dry run", f.added)
	}
}

func TestGuardRestoresTriage(t *testing.T) {
	f := &fakeLabels{labels: []string{"documentation"}}
	e := New(newFakeClient(t, f.handler(t, 9)), "octo", "widgets")

	if err := e.Guard(context.Background(), 9, "triage"); err != nil {
		t.Fatalf("Guard() = %v", err)
	}
	if len(f.added) != 1 || f.added[0] != "triage" {
		t.Errorf("added %v, want [triage]", f.added)
	}
}

func TestGuardAllowsRemovalWithTarget(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
	}{{
		name:   "release target",
		labels: []string{"release-1.0"},
	}, {
		name:   "backport target",
		labels: []string{"backport-2.0"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeLabels{labels: tt.labels}
			e := New(newFakeClient(t, f.handler(t, 9)), "octo", "widgets")

			if err := e.Guard(context.Background(), 9, "triage"); err != nil {
				t.Fatalf("Guard() = %v", err)
			}
			if len(f.added) != 0 {
				t.Errorf("added %v, want removal to stand", f.added)
			}
		})
	}
}

func TestGuardIgnoresOtherLabels(t *testing.T) {
	f := &fakeLabels{}
	e := New(newFakeClient(t, f.handler(t, 9)), "octo", "widgets")

	if err := e.Guard(context.Background(), 9, "documentation"); err != nil {
		t.Fatalf("Guard() = %v", err)
	}
	if f.lists != 0 {
		t.Errorf("listed labels %d times, want none for an unguarded label", f.lists)
	}
	if len(f.added) != 0 {
		t.Errorf("added %v, want nothing", f.added)
	}
}
