/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package snapshot

import (
	"encoding/json"
	"testing"
)

func TestRepairFreeText(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantOK   bool
		wantBody string
	}{{
		name:     "newlines and tabs",
		data:     "{\"title\":\"t\",\"body\":\"a\n\tb\",\"number\":1}",
		wantOK:   true,
		wantBody: "a\n\tb",
	}, {
		name:     "windows line endings",
		data:     "{\"body\":\"a\r\nb\",\"number\":1}",
		wantOK:   true,
		wantBody: "a\r\nb",
	}, {
		name:     "fake object end inside body loses to a clean continuation",
		data:     `{"body":"weird "}, more","author":{"login":"a","id":1}}`,
		wantOK:   true,
		wantBody: `weird "}, more`,
	}, {
		name:     "trailing body closes at the object end",
		data:     `{"number":1,"body":"block { x } end"}`,
		wantOK:   true,
		wantBody: "block { x } end",
	}, {
		name:     "unbalanced early candidate loses to the balanced one",
		data:     `{"body":"has { brace "}, tail"}`,
		wantOK:   true,
		wantBody: `has { brace "}, tail`,
	}, {
		name:     "backslashes are preserved literally",
		data:     "{\"body\":\"c:\\path\nnext\",\"number\":1}",
		wantOK:   true,
		wantBody: "c:\\path\nnext",
	}, {
		name:   "truncated document",
		data:   `{"body":"never closes`,
		wantOK: false,
	}, {
		name:   "not an object",
		data:   `["body"]`,
		wantOK: false,
	}, {
		name:   "no free-text member to repair",
		data:   `{"number":`,
		wantOK: false,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := repairFreeText([]byte(tt.data))
			if ok != tt.wantOK {
				t.Fatalf("repairFreeText() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			var decoded struct {
				Body string `json:"body"`
			}
			if err := json.Unmarshal(out, &decoded); err != nil {
				t.Fatalf("repaired output does not parse: %v\n%s", err, out)
			}
			if decoded.Body != tt.wantBody {
				t.Errorf("body: got %q, want %q", decoded.Body, tt.wantBody)
			}
		})
	}
}

func TestClassifyClose(t *testing.T) {
	tests := []struct {
		name string
		data string
		at   int
		want int
	}{{
		name: "clean next member",
		data: `"x","author":1}`,
		at:   2,
		want: closeClean,
	}, {
		name: "clean next member with whitespace",
		data: "\"x\" ,\n  \"author\" : 1}",
		at:   2,
		want: closeClean,
	}, {
		name: "object end at eof",
		data: `"x"}`,
		at:   2,
		want: closeObjectEnd,
	}, {
		name: "object end inside larger document",
		data: `"x"},"next":2`,
		at:   2,
		want: closeObjectEnd,
	}, {
		name: "quote followed by prose",
		data: `"x" and more words`,
		at:   2,
		want: closeNone,
	}, {
		name: "comma followed by prose",
		data: `"x", not a field`,
		at:   2,
		want: closeNone,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyClose([]byte(tt.data), tt.at); got != tt.want {
				t.Errorf("classifyClose() = %d, want %d", got, tt.want)
			}
		})
	}
}
