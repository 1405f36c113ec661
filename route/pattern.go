// Copyright 2026 The Transit Authors
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

package route

import (
	"fmt"
	"net/url"
	"strings"
)

// Params holds parameter values extracted from a matched pathname,
// keyed by parameter name.
type Params map[string]string

// segment is one compiled element of a path pattern.
// Exactly one of literal or param is set; rest implies param.
type segment struct {
	literal  string // Static text (empty for parameter segments)
	param    string // Parameter name without the ':' prefix
	optional bool   // Parameter may be absent from the pathname
	rest     bool   // Catch-all: captures the remainder of the path
}

// Pattern is a compiled route path pattern.
//
// Syntax:
//   - Literal segments: "/users"
//   - Named parameters: "/users/:id"
//   - Optional parameters: "/users/:id?"
//   - Catch-all: "/files/*" (captures the remainder as "splat"),
//     or "/files/*name" for a custom parameter name
//
// Matching is anchored (full path), case-sensitive, and trailing-slash
// normalized. When multiple patterns overlap, the caller is responsible for
// checking them in registration order; Pattern itself carries no precedence.
type Pattern struct {
	source   string
	segments []segment
}

// defaultRestParam is the parameter name used by a bare "*" catch-all.
const defaultRestParam = "splat"

// Compile parses a path pattern into a Pattern.
// It returns ErrPatternSyntax for malformed patterns. A catch-all segment
// must be the last segment of the pattern.
func Compile(pattern string) (*Pattern, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, fmt.Errorf("%w: %q must begin with '/'", ErrPatternSyntax, pattern)
	}

	p := &Pattern{source: pattern}

	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		// Root pattern "/" has zero segments.
		return p, nil
	}

	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("%w: %q contains an empty segment", ErrPatternSyntax, pattern)

		case part[0] == '*':
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: %q has a catch-all before the final segment", ErrPatternSyntax, pattern)
			}
			name := part[1:]
			if name == "" {
				name = defaultRestParam
			}
			p.segments = append(p.segments, segment{param: name, rest: true, optional: true})

		case part[0] == ':':
			name, optional := strings.CutSuffix(part[1:], "?")
			if name == "" {
				return nil, fmt.Errorf("%w: %q has an unnamed parameter", ErrPatternSyntax, pattern)
			}
			p.segments = append(p.segments, segment{param: name, optional: optional})

		default:
			p.segments = append(p.segments, segment{literal: part})
		}
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
// Intended for patterns known at compile time.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("route.MustCompile: %v", err))
	}
	return p
}

// String returns the original pattern source.
func (p *Pattern) String() string {
	return p.source
}

// Match tests pathname against the pattern. On success it returns the
// extracted parameters (never nil) and true. The pathname is trailing-slash
// normalized before comparison; matching is anchored and case-sensitive.
func (p *Pattern) Match(pathname string) (Params, bool) {
	parts := splitPath(pathname)
	params := make(Params, len(p.segments))
	if !p.match(0, 0, parts, params) {
		return nil, false
	}
	return params, true
}

// match recursively consumes pattern segments against path parts.
// Optional parameters introduce a single backtracking choice: consume one
// part, or skip the segment entirely.
func (p *Pattern) match(si, pi int, parts []string, params Params) bool {
	if si == len(p.segments) {
		return pi == len(parts)
	}

	seg := p.segments[si]
	if seg.rest {
		// Everything remaining, slashes included.
		params[seg.param] = strings.Join(parts[pi:], "/")
		return true
	}

	if pi == len(parts) {
		// Out of path: the remaining segments must all be skippable.
		if !seg.optional {
			return false
		}
		return p.match(si+1, pi, parts, params)
	}

	if seg.literal != "" {
		if parts[pi] != seg.literal {
			return false
		}
		return p.match(si+1, pi+1, parts, params)
	}

	// Parameter segment: bind, then backtrack through the skip choice for
	// optional parameters.
	params[seg.param] = unescapeSegment(parts[pi])
	if p.match(si+1, pi+1, parts, params) {
		return true
	}
	delete(params, seg.param)
	if seg.optional {
		return p.match(si+1, pi, parts, params)
	}
	return false
}

// Build generates a pathname from the pattern and params. It fails with
// ErrParamMismatch when a required parameter is missing or its value contains
// a '/' (which would change segment boundaries). Optional parameters without
// a value are omitted. Values are percent-encoded per segment.
func (p *Pattern) Build(params Params) (string, error) {
	var buf strings.Builder

	for _, seg := range p.segments {
		if seg.literal != "" {
			buf.WriteByte('/')
			buf.WriteString(seg.literal)
			continue
		}

		val := params[seg.param]
		if val == "" {
			if seg.optional {
				continue
			}
			return "", fmt.Errorf("%w: missing required parameter %q for %q", ErrParamMismatch, seg.param, p.source)
		}

		if seg.rest {
			for _, part := range strings.Split(val, "/") {
				if part == "" {
					continue
				}
				buf.WriteByte('/')
				buf.WriteString(url.PathEscape(part))
			}
			continue
		}

		if strings.Contains(val, "/") {
			return "", fmt.Errorf("%w: parameter %q value %q contains '/'", ErrParamMismatch, seg.param, val)
		}
		buf.WriteByte('/')
		buf.WriteString(url.PathEscape(val))
	}

	if buf.Len() == 0 {
		return "/", nil
	}
	return buf.String(), nil
}

// splitPath normalizes a pathname and splits it into non-empty segments.
// Trailing slashes are dropped; repeated slashes collapse.
func splitPath(pathname string) []string {
	trimmed := strings.Trim(pathname, "/")
	if trimmed == "" {
		return nil
	}
	raw := strings.Split(trimmed, "/")
	parts := raw[:0]
	for _, s := range raw {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// unescapeSegment percent-decodes a captured segment, falling back to the
// raw text when the escape sequence is malformed.
func unescapeSegment(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
