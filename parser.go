// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathtrie

import "strings"

// partKind discriminates the elements a template expands into.
type partKind uint8

const (
	partStatic partKind = iota
	partDynamic
	partWildcard
)

// part is one element of an expanded template.
type part struct {
	kind       partKind
	prefix     []byte // partStatic
	name       string // partDynamic, partWildcard
	constraint string // optional, partDynamic and partWildcard
}

// expansion is one concrete choice of optional groups: a flat part
// sequence plus the string form it renders to without parentheses.
type expansion struct {
	parts    []part
	expanded string
}

// Template is the parsed form of one raw route pattern: every way its
// optional groups can expand, all sharing the caller-visible raw text.
type Template struct {
	Raw        string
	expansions []expansion
}

// parseNode is the pre-expansion tree: a flat sequence mixing leaf
// parts with nested optional groups.
type parseNode struct {
	leaf  *part // non-nil for static/dynamic/wildcard
	group []parseNode
}

// parseTemplate parses raw into a Template, expanding optional groups
// into concrete expansions: k sibling groups give 2^k expansions, and
// a nested group is only expanded inside the expansions that keep its
// enclosing group (so "(a(b))" gives 3, not 4).
func parseTemplate(raw string, delimiter byte) (*Template, error) {
	if raw == "" {
		return nil, &ParseError{Kind: ParseErrEmptyTemplate, Raw: raw, Pos: 0}
	}

	nodes, pos, err := parseSequence(raw, 0, delimiter, false)
	if err != nil {
		return nil, err
	}
	if pos != len(raw) {
		// Only reachable if a ')' was left unconsumed at the top level.
		return nil, &ParseError{Kind: ParseErrUnbalanced, Raw: raw, Pos: pos}
	}

	rawExpansions := expandAll(nodes)

	tmpl := &Template{Raw: raw}
	for _, parts := range rawExpansions {
		merged := mergeStatics(parts)
		// A trailing Wildcard part becomes an EndWildcard at insert time;
		// insert.go re-derives "is this the last part" from slice position
		// rather than retagging here, so parseTemplate stays kind-neutral.
		tmpl.expansions = append(tmpl.expansions, expansion{
			parts:    merged,
			expanded: renderParts(merged),
		})
	}

	return tmpl, nil
}

// parseSequence scans raw starting at pos until it hits the matching
// ')' of an enclosing group (inGroup) or the end of the string.
// It returns the parsed node sequence and the position just past the
// consumed text (the ')' is not consumed so the caller can detect
// unbalanced groups).
func parseSequence(raw string, pos int, delimiter byte, inGroup bool) ([]parseNode, int, error) {
	var nodes []parseNode
	var staticBuf []byte

	flushStatic := func() {
		if len(staticBuf) > 0 {
			b := make([]byte, len(staticBuf))
			copy(b, staticBuf)
			nodes = append(nodes, parseNode{leaf: &part{kind: partStatic, prefix: b}})
			staticBuf = nil
		}
	}

	for pos < len(raw) {
		c := raw[pos]
		switch c {
		case '\\':
			if pos+1 >= len(raw) {
				return nil, pos, &ParseError{Kind: ParseErrInvalidEscape, Raw: raw, Pos: pos}
			}
			next := raw[pos+1]
			if next != '{' && next != '}' && next != '(' && next != ')' && next != '\\' {
				return nil, pos, &ParseError{Kind: ParseErrInvalidEscape, Raw: raw, Pos: pos}
			}
			staticBuf = append(staticBuf, next)
			pos += 2

		case ')':
			if !inGroup {
				return nil, pos, &ParseError{Kind: ParseErrUnbalanced, Raw: raw, Pos: pos}
			}
			flushStatic()
			return nodes, pos, nil

		case '(':
			flushStatic()
			children, next, err := parseSequence(raw, pos+1, delimiter, true)
			if err != nil {
				return nil, next, err
			}
			if next >= len(raw) || raw[next] != ')' {
				return nil, next, &ParseError{Kind: ParseErrUnbalanced, Raw: raw, Pos: pos}
			}
			nodes = append(nodes, parseNode{group: children})
			pos = next + 1

		case '{':
			flushStatic()
			end := strings.IndexByte(raw[pos:], '}')
			if end == -1 {
				return nil, pos, &ParseError{Kind: ParseErrUnbalanced, Raw: raw, Pos: pos}
			}
			body := raw[pos+1 : pos+end]
			p, err := parseParam(body, raw, pos, delimiter)
			if err != nil {
				return nil, pos, err
			}
			nodes = append(nodes, parseNode{leaf: p})
			pos += end + 1

		default:
			staticBuf = append(staticBuf, c)
			pos++
		}
	}

	if inGroup {
		return nil, pos, &ParseError{Kind: ParseErrUnbalanced, Raw: raw, Pos: pos}
	}

	flushStatic()
	return nodes, pos, nil
}

// parseParam parses the body of a "{...}" parameter: an optional
// leading '*' for wildcards, a name, and an optional ":constraint".
func parseParam(body, raw string, pos int, delimiter byte) (*part, error) {
	kind := partDynamic
	if strings.HasPrefix(body, "*") {
		kind = partWildcard
		body = body[1:]
	}

	name := body
	constraint := ""
	if idx := unescapedColon(body); idx != -1 {
		name = body[:idx]
		constraint = body[idx+1:]
	}

	if name == "" {
		return nil, &ParseError{Kind: ParseErrEmptyName, Raw: raw, Pos: pos}
	}
	if strings.IndexByte(name, delimiter) != -1 {
		return nil, &ParseError{Kind: ParseErrDelimiterInName, Raw: raw, Pos: pos}
	}

	return &part{kind: kind, name: name, constraint: constraint}, nil
}

// unescapedColon returns the index of the first ':' in s, or -1. The
// constraint grammar has no need for escaped colons today, but the
// helper is kept distinct from strings.IndexByte so that changes to
// escaping rules only need to happen here.
func unescapedColon(s string) int {
	return strings.IndexByte(s, ':')
}

// expandAll produces every flat part sequence reachable by including
// or omitting each optional group, in original order.
func expandAll(nodes []parseNode) [][]part {
	results := [][]part{{}}

	for _, n := range nodes {
		if n.leaf != nil {
			for i := range results {
				results[i] = append(results[i], *n.leaf)
			}
			continue
		}

		inner := expandAll(n.group)
		next := make([][]part, 0, len(results)*(len(inner)+1))
		for _, base := range results {
			// Option 1: the group is omitted entirely.
			omitted := make([]part, len(base))
			copy(omitted, base)
			next = append(next, omitted)

			// Option 2: the group is kept, for each of its own expansions.
			for _, ce := range inner {
				kept := make([]part, len(base), len(base)+len(ce))
				copy(kept, base)
				kept = append(kept, ce...)
				next = append(next, kept)
			}
		}
		results = next
	}

	return results
}

// mergeStatics concatenates adjacent static parts produced by
// expansion (a group boundary can leave two static runs adjacent).
func mergeStatics(parts []part) []part {
	if len(parts) == 0 {
		return parts
	}

	merged := make([]part, 0, len(parts))
	for _, p := range parts {
		if p.kind == partStatic && len(merged) > 0 && merged[len(merged)-1].kind == partStatic {
			last := &merged[len(merged)-1]
			last.prefix = append(last.prefix, p.prefix...)
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// renderParts reconstructs the "expanded" string form of a part
// sequence: the template as it appears with parentheses removed.
func renderParts(parts []part) string {
	var sb strings.Builder
	for _, p := range parts {
		switch p.kind {
		case partStatic:
			for _, b := range p.prefix {
				if b == '{' || b == '}' || b == '(' || b == ')' || b == '\\' {
					sb.WriteByte('\\')
				}
				sb.WriteByte(b)
			}
		case partDynamic:
			sb.WriteByte('{')
			sb.WriteString(p.name)
			if p.constraint != "" {
				sb.WriteByte(':')
				sb.WriteString(p.constraint)
			}
			sb.WriteByte('}')
		case partWildcard:
			sb.WriteString("{*")
			sb.WriteString(p.name)
			if p.constraint != "" {
				sb.WriteByte(':')
				sb.WriteString(p.constraint)
			}
			sb.WriteByte('}')
		}
	}
	return sb.String()
}
