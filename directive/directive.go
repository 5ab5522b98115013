/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package directive extracts the fenced configuration block contributors
// embed in a PR description and parses it into a key/value map. Parsing is
// deliberately forgiving: anything that does not look like a directive is
// skipped rather than reported, because PR bodies are free text first.
package directive

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is one parsed directive value: a scalar or a list of strings.
type Value struct {
	Scalar string
	List   []string
	IsList bool
}

// Strings returns the value as a slice regardless of shape.
func (v Value) Strings() []string {
	if v.IsList {
		return v.List
	}
	return []string{v.Scalar}
}

// Block maps directive keys to parsed values. A nil Block means the body
// carried no fenced block at all, which callers treat differently from a
// block that parsed to nothing.
type Block map[string]Value

// Parse extracts the first triple-backtick fenced block from body (language
// tag optional) and parses its key/value lines. An absent or unterminated
// fence yields a nil Block.
func Parse(body string) Block {
	fenced, ok := fencedBlock(body)
	if !ok {
		return nil
	}
	out := Block{}
	for _, line := range strings.Split(fenced, "\n") {
		key, val, ok := parseLine(line)
		if !ok {
			continue
		}
		out[key] = val
	}
	return out
}

// fencedBlock returns the content of the first fence pair in body.
func fencedBlock(body string) (string, bool) {
	lines := strings.Split(body, "\n")
	start := -1
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		if start == -1 {
			start = i
			continue
		}
		return strings.Join(lines[start+1:i], "\n"), true
	}
	return "", false
}

// parseLine parses one `key: value` line. Blank lines, lines without a
// colon, empty values, and unparseable lists all report ok=false so the key
// is treated as absent.
func parseLine(line string) (string, Value, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", Value{}, false
	}
	key, rest, found := strings.Cut(line, ":")
	if !found {
		return "", Value{}, false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", Value{}, false
	}

	raw := strings.TrimSpace(stripComment(rest))
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		items, ok := parseList(raw)
		if !ok {
			return "", Value{}, false
		}
		return key, Value{List: items, IsList: true}, true
	}

	scalar := unquote(raw)
	if scalar == "" {
		return "", Value{}, false
	}
	return key, Value{Scalar: scalar}, true
}

// stripComment removes a trailing # comment. Quoted spans are honored, so a
// # inside quotes survives; no whitespace is required before the #.
func stripComment(s string) string {
	var quote byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			return s[:i]
		}
	}
	return s
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if c := s[0]; (c == '\'' || c == '"') && s[len(s)-1] == c {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// parseList parses a [...] value as a YAML flow sequence. Decoding into
// yaml.Node keeps each element's text exactly as written, so an unquoted
// 1.0 stays "1.0" instead of collapsing into a float, and mixed quote
// styles come for free. Only quoted strings and bare literals (numbers,
// booleans) are accepted; unquoted prose and nested values fail the parse
// and the key is treated as absent. Empty-string elements are dropped.
func parseList(raw string) ([]string, bool) {
	var seq []yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &seq); err != nil {
		return nil, false
	}
	items := make([]string, 0, len(seq))
	for _, n := range seq {
		if n.Kind != yaml.ScalarNode || !strictScalar(n) {
			return nil, false
		}
		if n.Value == "" {
			continue
		}
		items = append(items, n.Value)
	}
	return items, true
}

// strictScalar reports whether a sequence element would survive a strict
// list parse: explicitly quoted, or a literal the resolver typed as
// something other than a plain string.
func strictScalar(n yaml.Node) bool {
	if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0 {
		return true
	}
	switch n.Tag {
	case "!!int", "!!float", "!!bool", "!!null":
		return true
	}
	return false
}
