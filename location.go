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
	"maps"
	"strings"
)

// Location is one resolved entry of the history stack.
type Location struct {
	// Type is the matched route type ("" before the first commit).
	Type string

	// Pathname is the path component, basename stripped.
	Pathname string

	// Search is the raw query string, without '?'.
	Search string

	// Hash is the fragment, without '#'.
	Hash string

	// Basename is the URL prefix active when the entry was committed.
	Basename string

	// Params are the path parameters extracted on match.
	Params map[string]string

	// Query holds the query values (single-valued).
	Query map[string]string

	// State is arbitrary per-entry state (for example the unresolved
	// pathname carried by NOT_FOUND).
	State any
}

// URL reassembles the location into a relative URL, basename included.
func (l Location) URL() string {
	var b strings.Builder
	if l.Basename != "" {
		b.WriteString(strings.TrimSuffix(l.Basename, "/"))
	}
	if l.Pathname == "" {
		b.WriteByte('/')
	} else {
		b.WriteString(l.Pathname)
	}
	if l.Search != "" {
		b.WriteByte('?')
		b.WriteString(l.Search)
	}
	if l.Hash != "" {
		b.WriteByte('#')
		b.WriteString(l.Hash)
	}
	return b.String()
}

// sameEntry reports whether two locations address the same URL.
func (l Location) sameEntry(o Location) bool {
	return l.Pathname == o.Pathname && l.Search == o.Search && l.Hash == o.Hash && l.Basename == o.Basename
}

func (l Location) cloneMaps() Location {
	c := l
	if l.Params != nil {
		c.Params = maps.Clone(l.Params)
	}
	if l.Query != nil {
		c.Query = maps.Clone(l.Query)
	}
	return c
}

// HistorySummary is the history bookkeeping embedded in LocationState.
// Entries[Index] is always the currently committed location.
type HistorySummary struct {
	Entries []Location
	Index   int
	Length  int
}

// LocationState is the per-store snapshot of committed routing state.
// It is mutated only by the commit step of an unsuperseded transition; reads
// during a transition always see the last committed value, never another
// transition's uncommitted intermediate state.
type LocationState struct {
	Location

	// Kind reports how the last commit moved history.
	Kind Kind

	// Prev is the previously committed location.
	Prev Location

	// Ready is false while the committed route's thunk is outstanding and no
	// cached result exists.
	Ready bool

	// History summarizes the adapter's entries and index.
	History HistorySummary
}
