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
	"strings"
	"sync"
)

// Registry is the flattened, compiled set of route records.
//
// Records keep their registration order, and URL matching scans them in that
// order: first match wins, regardless of specificity. This is a deliberate,
// documented quirk of the route map contract: a catch-all registered before
// a specific pattern shadows it.
//
// A Registry is safe for concurrent use. Reads take a shared lock; Add (the
// runtime ADD_ROUTES path) takes an exclusive lock.
type Registry struct {
	mu      sync.RWMutex
	records []*Record
	byType  map[string]*Record
}

// builtinOrder fixes the injection order of maintenance routes. NOT_FOUND
// comes first so its default "/not-found" pattern is checked before any
// user-registered catch-all.
var builtinOrder = []string{
	TypeNotFound,
	TypeAddRoutes,
	TypeChangeBasename,
	TypeClearCache,
	TypeConfirm,
	TypeCallHistory,
}

// IsBuiltin reports whether t is one of the built-in maintenance route types.
func IsBuiltin(t string) bool {
	for _, b := range builtinOrder {
		if t == b {
			return true
		}
	}
	return false
}

// Build compiles a route map into a Registry. Built-in maintenance routes
// are injected exactly once, before user routes; a user definition for a
// built-in key overrides its path and callbacks in place without changing
// its registration position.
//
// Build fails with ErrDuplicateRouteType when two definitions flatten to the
// same type, and with ErrPatternSyntax when a path does not compile. Both
// are construction-time failures, fatal to startup.
func Build(m Map) (*Registry, error) {
	reg := &Registry{byType: make(map[string]*Record, len(m)+len(builtinOrder))}
	reg.injectBuiltins()
	if err := reg.add(m, "", "", false); err != nil {
		return nil, err
	}
	return reg, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(m Map) *Registry {
	reg, err := Build(m)
	if err != nil {
		panic(fmt.Sprintf("route.MustBuild: %v", err))
	}
	return reg
}

// injectBuiltins registers the maintenance routes. Only NOT_FOUND carries a
// path and commits; the rest are pathless and run without committing.
func (reg *Registry) injectBuiltins() {
	for _, t := range builtinOrder {
		rec := &Record{Type: t, Dispatch: t == TypeNotFound}
		if t == TypeNotFound {
			rec.Path = NotFoundPath
			rec.Pattern = MustCompile(NotFoundPath)
		}
		reg.records = append(reg.records, rec)
		reg.byType[t] = rec
	}
}

// Add merges additional route definitions into a live registry. Unlike
// Build, maintenance routes are not re-injected, and any collision with an
// existing type (built-in or not) fails with ErrDuplicateRouteType.
func (reg *Registry) Add(m Map) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.add(m, "", "", true)
}

// add flattens one (possibly nested) route map level into the registry.
func (reg *Registry) add(m Map, parentType, parentPath string, isAddRoutes bool) error {
	for _, entry := range m {
		if entry.Type == "" {
			return fmt.Errorf("%w: empty route type", ErrInvalidRouteDef)
		}

		def, err := normalizeDef(entry.Value)
		if err != nil {
			return fmt.Errorf("%w: route %q", err, entry.Type)
		}

		fullType := entry.Type
		if parentType != "" {
			fullType = parentType + "." + entry.Type
		}

		rec, exists := reg.byType[fullType]
		switch {
		case exists && !isAddRoutes && parentType == "" && IsBuiltin(fullType):
			// Built-in override: path and callbacks change, position and type
			// do not.
			if err := reg.applyDef(rec, def, parentPath); err != nil {
				return err
			}
		case exists:
			return fmt.Errorf("%w: %q", ErrDuplicateRouteType, fullType)
		default:
			rec = &Record{Type: fullType, ParentType: parentType, Dispatch: dispatchValue(def.Dispatch)}
			if err := reg.applyDef(rec, def, parentPath); err != nil {
				return err
			}
			reg.records = append(reg.records, rec)
			reg.byType[fullType] = rec
		}

		if len(def.Routes) > 0 {
			// Children of a pathless namespace concatenate onto the path
			// accumulated so far.
			base := rec.Path
			if rec.sharedPattern {
				base = parentPath
			}
			if err := reg.add(def.Routes, fullType, base, isAddRoutes); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyDef copies a normalized definition onto a record, compiling the
// pattern. A pathless child nested under a pathed parent inherits the
// parent's compiled pattern for URL generation only.
func (reg *Registry) applyDef(rec *Record, def Def, parentPath string) error {
	switch {
	case def.Path != "":
		full := joinPaths(parentPath, def.Path)
		pat, err := Compile(full)
		if err != nil {
			return fmt.Errorf("route %q: %w", rec.Type, err)
		}
		rec.Path = full
		rec.Pattern = pat
		rec.sharedPattern = false
	case parentPath != "" && rec.Pattern == nil:
		if parent, ok := reg.byType[rec.ParentType]; ok && parent.Pattern != nil {
			rec.Path = parent.Path
			rec.Pattern = parent.Pattern
			rec.sharedPattern = true
		}
	}

	if def.BeforeLeave != nil {
		rec.BeforeLeave = def.BeforeLeave
	}
	if def.BeforeEnter != nil {
		rec.BeforeEnter = def.BeforeEnter
	}
	if def.OnLeave != nil {
		rec.OnLeave = def.OnLeave
	}
	if def.OnEnter != nil {
		rec.OnEnter = def.OnEnter
	}
	if def.Thunk != nil {
		rec.Thunk = def.Thunk
	}
	if def.OnComplete != nil {
		rec.OnComplete = def.OnComplete
	}
	if def.Dispatch != nil {
		rec.Dispatch = *def.Dispatch
	}
	if def.CanReceiveState {
		rec.CanReceiveState = true
	}
	return nil
}

// Lookup returns the record for a route type.
func (reg *Registry) Lookup(routeType string) (*Record, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rec, ok := reg.byType[routeType]
	return rec, ok
}

// Records returns a snapshot of all records in registration order.
func (reg *Registry) Records() []*Record {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Record, len(reg.records))
	copy(out, reg.records)
	return out
}

// Len returns the number of registered records.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.records)
}

// Match scans compiled patterns in registration order and returns the first
// record matching pathname, with its extracted parameters. Records that
// inherited their parent's pattern never win matching; their pathed parent
// precedes them.
func (reg *Registry) Match(pathname string) (*Record, Params, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, rec := range reg.records {
		if rec.Pattern == nil || rec.sharedPattern {
			continue
		}
		if params, ok := rec.Pattern.Match(pathname); ok {
			return rec, params, true
		}
	}
	return nil, nil, false
}

// joinPaths concatenates a parent prefix and a child pattern, collapsing the
// boundary slash.
func joinPaths(parent, child string) string {
	if parent == "" || parent == "/" {
		return child
	}
	if child == "" {
		return parent
	}
	parent = strings.TrimSuffix(parent, "/")
	if !strings.HasPrefix(child, "/") {
		child = "/" + child
	}
	return parent + child
}
