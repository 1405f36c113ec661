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

	"transit.dev/transit/route"
)

// Kind classifies how a committed action moved the history stack.
type Kind string

const (
	// KindInit marks the state before any dispatch has committed.
	KindInit Kind = "init"

	// KindLoad marks the initial-load dispatch of the adapter's current entry.
	KindLoad Kind = "load"

	// KindPush appended a new entry and advanced the index.
	KindPush Kind = "push"

	// KindReplace rewrote the current entry in place (also the idempotent
	// re-dispatch of the committed action).
	KindReplace Kind = "replace"

	// KindBack moved the index to the previous existing entry.
	KindBack Kind = "back"

	// KindNext moved the index to the next existing entry.
	KindNext Kind = "next"

	// KindJump moved the index by an arbitrary delta.
	KindJump Kind = "jump"

	// KindSetState updated location state without touching history entries
	// (thunk completion, basename changes).
	KindSetState Kind = "setState"
)

// CompleteSuffix is appended to a route type for the follow-up action that
// carries its resolved thunk payload.
const CompleteSuffix = "_COMPLETE"

// Action is a dispatchable navigation intent and, once settled, the
// committed result of a transition. Actions are immutable once dispatched;
// the pipeline works on derived copies per phase.
type Action struct {
	// Type is the route type this action targets.
	Type string

	// Params are path parameter values.
	Params map[string]string

	// Query holds query string values (single-valued).
	Query map[string]string

	// Hash is the URL fragment, without '#'.
	Hash string

	// Basename explicitly scopes the action to a URL prefix. Empty means the
	// store's active basename applies.
	Basename string

	// Payload carries route-specific data: thunk results on _COMPLETE
	// actions, the unmatched pathname on NOT_FOUND, maintenance arguments on
	// built-in dispatches.
	Payload any

	// Err records the failure that produced this action, if any.
	Err error

	// Kind reports how the commit moved history. Zero on intents unless the
	// dispatcher forces one (load, back, next, jump).
	Kind Kind

	// delta is the pending index move for engine-generated history actions.
	delta int
}

// Block is the sentinel a blocking-capable callback (beforeLeave,
// beforeEnter) returns to halt a transition. The dispatch then resolves to
// the previously committed action as a no-op; it is not an error.
var Block = &Action{Type: "@@transit/BLOCK"}

// NotFoundState is the payload of a NOT_FOUND action produced from an
// unmatched URL.
type NotFoundState struct {
	// Pathname is the original, unresolved pathname.
	Pathname string
}

// NotFound builds the canonical not-found action. forcedType lets a nested
// namespace substitute its own not-found route type (for example
// "ADMIN.NOT_FOUND") while preserving the unresolved-path payload; pass ""
// for the global NOT_FOUND type.
func NotFound(state any, forcedType string) *Action {
	t := route.TypeNotFound
	if forcedType != "" {
		t = forcedType
	}
	return &Action{Type: t, Payload: state}
}

// clone returns a copy safe for per-phase mutation. Maps are copied; Payload
// is shared (treated as immutable by convention).
func (a *Action) clone() *Action {
	if a == nil {
		return nil
	}
	c := *a
	if a.Params != nil {
		c.Params = maps.Clone(a.Params)
	}
	if a.Query != nil {
		c.Query = maps.Clone(a.Query)
	}
	return &c
}

// isBlock reports whether v is the Block sentinel.
func isBlock(v any) bool {
	a, ok := v.(*Action)
	return ok && a == Block
}
