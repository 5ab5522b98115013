/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package snapshot

import "bytes"

// freeTextFields are the artifact members whose string values may contain
// raw, unescaped PR content.
var freeTextFields = map[string]bool{
	"title": true,
	"body":  true,
}

// repairFreeText rewrites the free-text string values of a malformed
// artifact with strict JSON escaping. The document is tokenized: object and
// array nesting, string and escape state are tracked exactly, and only the
// free-text values are scanned leniently. Returns false when the document
// cannot be brought to a parseable shape, in which case the caller discards
// the artifact.
func repairFreeText(data []byte) ([]byte, bool) {
	s := &scanner{data: data}

	type span struct{ start, end int }
	var spans []span

	s.skipSpace()
	if s.peek() != '{' {
		return nil, false
	}
	s.pos++
	for {
		s.skipSpace()
		if s.peek() == '}' {
			break
		}
		if s.peek() != '"' {
			return nil, false
		}
		keyStart := s.pos + 1
		if !s.skipString() {
			return nil, false
		}
		key := string(s.data[keyStart : s.pos-1])
		s.skipSpace()
		if s.peek() != ':' {
			return nil, false
		}
		s.pos++
		s.skipSpace()
		if freeTextFields[key] && s.peek() == '"' {
			start, end, ok := s.scanFreeText()
			if !ok {
				return nil, false
			}
			spans = append(spans, span{start, end})
		} else if !s.skipValue() {
			return nil, false
		}
		s.skipSpace()
		if s.peek() == ',' {
			s.pos++
		}
	}

	if len(spans) == 0 {
		return nil, false
	}
	var out bytes.Buffer
	last := 0
	for _, sp := range spans {
		out.Write(data[last:sp.start])
		out.Write(escapeFreeText(data[sp.start:sp.end]))
		last = sp.end
	}
	out.Write(data[last:])
	return out.Bytes(), true
}

// escapeFreeText re-escapes raw free-text content for strict JSON. Exactly
// backslash, quote, newline, carriage return, and tab are rewritten; any
// other control character is left in place so the strict re-parse still
// rejects it.
func escapeFreeText(raw []byte) []byte {
	var out bytes.Buffer
	for _, c := range raw {
		switch c {
		case '\\':
			out.WriteString(`\\`)
		case '"':
			out.WriteString(`\"`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}

type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) peek() byte {
	if s.pos < len(s.data) {
		return s.data[s.pos]
	}
	return 0
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) && isSpace(s.data[s.pos]) {
		s.pos++
	}
}

// skipString consumes a well-formed string token, opening quote included.
func (s *scanner) skipString() bool {
	s.pos++ // opening quote
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return true
		default:
			s.pos++
		}
	}
	return false
}

// skipValue consumes one well-formed value of any type. Free-text repair
// never applies here: every non-free-text member of an artifact is machine
// generated, so a malformed one fails the whole repair.
func (s *scanner) skipValue() bool {
	s.skipSpace()
	switch c := s.peek(); c {
	case '"':
		return s.skipString()
	case '{', '[':
		return s.skipComposite()
	default:
		start := s.pos
		for s.pos < len(s.data) {
			c := s.data[s.pos]
			if isSpace(c) || c == ',' || c == '}' || c == ']' {
				break
			}
			s.pos++
		}
		return s.pos > start
	}
}

// skipComposite consumes a balanced object or array, honoring string and
// escape state so brackets inside string values do not count toward depth.
func (s *scanner) skipComposite() bool {
	depth := 0
	inString, escaped := false, false
	for ; s.pos < len(s.data); s.pos++ {
		c := s.data[s.pos]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case inString && c == '"':
			inString = false
		case inString:
		case c == '"':
			inString = true
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				s.pos++
				return true
			}
		}
	}
	return false
}

const (
	closeNone = iota
	// closeClean follows the quote with a `,"<identifier>":` continuation,
	// the unambiguous start of the next member.
	closeClean
	// closeObjectEnd follows the quote with a `}` that plausibly terminates
	// the enclosing object.
	closeObjectEnd
)

// scanFreeText consumes a free-text string value starting at its opening
// quote and reports the content span between the quotes. The closing quote
// is chosen among unescaped quote candidates: the first with a clean
// next-member continuation wins outright; failing that, the first candidate
// whose enclosed text has balanced braces; failing that, the first
// candidate at all.
func (s *scanner) scanFreeText() (start, end int, ok bool) {
	s.pos++ // opening quote
	start = s.pos

	var ends []int
	escaped := false
	for i := start; i < len(s.data); i++ {
		c := s.data[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			switch classifyClose(s.data, i) {
			case closeClean:
				s.pos = i + 1
				return start, i, true
			case closeObjectEnd:
				ends = append(ends, i)
			}
		}
	}
	for _, i := range ends {
		if balancedBraces(s.data[start:i]) {
			s.pos = i + 1
			return start, i, true
		}
	}
	if len(ends) > 0 {
		s.pos = ends[0] + 1
		return start, ends[0], true
	}
	return 0, 0, false
}

// classifyClose decides whether the quote at i could terminate a free-text
// value, by looking at what follows it.
func classifyClose(data []byte, i int) int {
	j := skipWS(data, i+1)
	if j >= len(data) {
		return closeNone
	}
	switch data[j] {
	case ',':
		j = skipWS(data, j+1)
		if j < len(data) && data[j] == '"' {
			k := j + 1
			for k < len(data) && isIdent(data[k]) {
				k++
			}
			if k > j+1 && k < len(data) && data[k] == '"' {
				if k = skipWS(data, k+1); k < len(data) && data[k] == ':' {
					return closeClean
				}
			}
		}
		return closeNone
	case '}':
		j = skipWS(data, j+1)
		if j >= len(data) || data[j] == ',' || data[j] == '}' || data[j] == ']' {
			return closeObjectEnd
		}
		return closeNone
	}
	return closeNone
}

func balancedBraces(b []byte) bool {
	n := 0
	for _, c := range b {
		switch c {
		case '{':
			n++
		case '}':
			n--
		}
	}
	return n == 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdent(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func skipWS(data []byte, i int) int {
	for i < len(data) && isSpace(data[i]) {
		i++
	}
	return i
}
