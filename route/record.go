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

import "reflect"

// Built-in route types. These records always exist in a built registry.
// User-supplied definitions for these keys override the default path and
// callbacks but never the type itself.
const (
	// TypeNotFound is the fallback route for unmatched URLs. Unlike the other
	// built-ins it carries a path (default "/not-found") and commits normally.
	TypeNotFound = "NOT_FOUND"

	// TypeAddRoutes merges additional route definitions into a live registry.
	TypeAddRoutes = "ADD_ROUTES"

	// TypeChangeBasename switches the active basename of the store.
	TypeChangeBasename = "CHANGE_BASENAME"

	// TypeClearCache flushes all cached callback results for the store.
	TypeClearCache = "CLEAR_CACHE"

	// TypeConfirm re-dispatches a navigation parked by a blocking beforeLeave.
	TypeConfirm = "CONFIRM"

	// TypeCallHistory drives the history adapter (push/replace/go/back/next)
	// through the pipeline so leave guards still apply.
	TypeCallHistory = "CALL_HISTORY"
)

// NotFoundPath is the default pattern for the built-in NOT_FOUND route.
const NotFoundPath = "/not-found"

// Callback is a type alias for route lifecycle callbacks.
// In practice this holds a transit.Callback
// (func(ctx context.Context, req *transit.Request) (any, error));
// the alias keeps this package free of a dependency on the engine package.
// The engine validates and normalizes callback values when it binds a registry.
type Callback = any

// Def is the long-form route definition accepted by a route map.
// All fields are optional; a Def with only Routes set is a pure namespace.
type Def struct {
	// Path is the URL pattern for this route. Empty means pathless: the route
	// is reachable only by direct action dispatch (or, when nested under a
	// pathed parent, shares the parent's pattern for URL generation).
	Path string

	// Lifecycle callbacks, invoked in pipeline order. Each may be nil.
	BeforeLeave Callback
	BeforeEnter Callback
	OnLeave     Callback
	OnEnter     Callback
	Thunk       Callback
	OnComplete  Callback

	// Dispatch controls whether a matched action commits to history and
	// location state. Nil means true. When false, callbacks still run but
	// nothing is committed.
	Dispatch *bool

	// CanReceiveState marks the route's thunk result as derivable from
	// committed state, which feeds cache key derivation.
	CanReceiveState bool

	// Routes nests child definitions. Child types are namespaced with a dot
	// ("PARENT.CHILD") and child paths are appended to this Def's path.
	Routes Map
}

// Entry is one ordered route map entry. Value may be:
//   - a path string (shorthand for Def{Path: ...})
//   - a callback func (shorthand for Def{Thunk: ...})
//   - a Def or *Def
type Entry struct {
	Type  string
	Value any
}

// Map is an ordered route definition map. Order is significant: URL matching
// scans compiled patterns in registration order, first match wins. Callers
// must therefore place catch-all patterns after more specific ones.
type Map []Entry

// Record is one flattened, compiled route. Exactly one Record exists per
// type within a Registry.
type Record struct {
	// Type is the globally unique route key, dotted when nested.
	Type string

	// Path is the full pattern source ("" for pathless routes).
	Path string

	// ParentType names the enclosing namespace record, if any.
	// It is a lookup key only; the parent owns no children.
	ParentType string

	// Pattern is the compiled matcher/generator, nil for pathless routes.
	Pattern *Pattern

	// sharedPattern is true when Pattern was inherited from a pathed parent
	// by a pathless nested child. Such records generate URLs but never win
	// matching (the parent precedes them in registration order).
	sharedPattern bool

	// Lifecycle callbacks. Nil fields are skipped by the pipeline.
	BeforeLeave Callback
	BeforeEnter Callback
	OnLeave     Callback
	OnEnter     Callback
	Thunk       Callback
	OnComplete  Callback

	// Dispatch false means callbacks run without committing.
	Dispatch bool

	// CanReceiveState feeds cache key derivation.
	CanReceiveState bool
}

// Pathless reports whether the record has no URL pattern of its own.
func (r *Record) Pathless() bool {
	return r.Pattern == nil
}

// SharesParentPattern reports whether the record's pattern was inherited
// from its parent namespace.
func (r *Record) SharesParentPattern() bool {
	return r.sharedPattern
}

// normalizeDef converts a route map entry value into its long form.
func normalizeDef(v any) (Def, error) {
	switch d := v.(type) {
	case string:
		return Def{Path: d}, nil
	case Def:
		return d, nil
	case *Def:
		if d == nil {
			return Def{}, ErrInvalidRouteDef
		}
		return *d, nil
	}
	// A bare function of any signature is thunk shorthand. The engine
	// validates the exact signature when it binds the registry.
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
		return Def{Thunk: v}, nil
	}
	return Def{}, ErrInvalidRouteDef
}

// dispatchValue resolves the tri-state Dispatch field (nil means true).
func dispatchValue(d *bool) bool {
	return d == nil || *d
}
