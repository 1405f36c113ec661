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

package transit

import (
	"fmt"
	"net/url"
	"strings"

	"transit.dev/transit/route"
)

// URLToAction resolves a relative URL to the action it denotes. The longest
// known basename is stripped first; an unmatched or unparsable URL resolves
// to the NOT_FOUND action carrying the original pathname, never an error.
func (s *Store) URLToAction(rawURL string) *Action {
	u, err := url.Parse(rawURL)
	if err != nil {
		return NotFound(NotFoundState{Pathname: rawURL}, "")
	}

	pathname := u.EscapedPath()
	if pathname == "" {
		pathname = "/"
	}
	pathname, bn := s.stripBasename(pathname)

	rec, params, ok := s.registry.Match(pathname)
	if !ok {
		a := NotFound(NotFoundState{Pathname: pathname}, "")
		a.Basename = bn
		return a
	}

	return &Action{
		Type:     rec.Type,
		Params:   map[string]string(params),
		Query:    flattenQuery(u.Query()),
		Hash:     u.Fragment,
		Basename: bn,
	}
}

// ActionToURL generates the URL the action denotes. It fails for unknown
// types (ErrInvalidAction), pathless routes (ErrNoPathForType), and missing
// required params (route.ErrParamMismatch).
func (s *Store) ActionToURL(a *Action) (string, error) {
	if a == nil || a.Type == "" {
		return "", ErrInvalidAction
	}
	rec, ok := s.registry.Lookup(a.Type)
	if !ok {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}
	if rec.Pattern == nil {
		return "", fmt.Errorf("%w: %q", ErrNoPathForType, a.Type)
	}
	pathname, err := rec.Pattern.Build(route.Params(a.Params))
	if err != nil {
		return "", fmt.Errorf("route %q: %w", a.Type, err)
	}

	bn := a.Basename
	if bn == "" {
		bn = s.activeBasename()
	}

	var b strings.Builder
	if bn != "" {
		b.WriteString(normalizeBasename(bn))
	}
	b.WriteString(pathname)
	if q := encodeQuery(a.Query); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	if a.Hash != "" {
		b.WriteByte('#')
		b.WriteString(a.Hash)
	}
	return b.String(), nil
}

// LinkURL resolves a link intent (a URL string or an *Action) to an href.
// Resolution failures degrade to "#" with a warning rather than breaking the
// caller's render path.
func (s *Store) LinkURL(intent any) string {
	switch v := intent.(type) {
	case string:
		return v
	case *Action:
		u, err := s.ActionToURL(v)
		if err != nil {
			s.logger.Warn("link resolution failed", "type", v.Type, "err", err)
			return "#"
		}
		return u
	case Action:
		return s.LinkURL(&v)
	}
	s.logger.Warn("link resolution failed", "err", fmt.Sprintf("unsupported intent %T", intent))
	return "#"
}

// stripBasename removes the longest matching configured (or active) basename
// prefix at a segment boundary, returning the remainder and the basename.
func (s *Store) stripBasename(pathname string) (string, string) {
	candidates := make([]string, 0, len(s.basenames)+1)
	candidates = append(candidates, s.basenames...)
	if bn := s.activeBasename(); bn != "" {
		candidates = append(candidates, bn)
	}

	best := ""
	for _, c := range candidates {
		c = normalizeBasename(c)
		if c == "" || len(c) <= len(best) {
			continue
		}
		if pathname == c {
			best = c
			continue
		}
		if strings.HasPrefix(pathname, c+"/") {
			best = c
		}
	}
	if best == "" {
		return pathname, ""
	}
	rest := strings.TrimPrefix(pathname, best)
	if rest == "" {
		rest = "/"
	}
	return rest, best
}

// flattenQuery keeps the first value per key, matching the single-valued
// query model of actions.
func flattenQuery(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k := range values {
		out[k] = values.Get(k)
	}
	return out
}

// encodeQuery renders a query map with deterministic (sorted) key order.
func encodeQuery(q map[string]string) string {
	if len(q) == 0 {
		return ""
	}
	values := make(url.Values, len(q))
	for k, v := range q {
		values.Set(k, v)
	}
	return values.Encode()
}
