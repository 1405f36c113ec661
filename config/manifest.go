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

package config

import (
	"fmt"

	"transit.dev/transit/route"
)

// Manifest is a declarative route map plus store settings, decoded from a
// YAML or TOML file. Route order in the file is preserved; it decides match
// precedence.
type Manifest struct {
	// Basename is the initially active URL prefix.
	Basename string `config:"basename"`

	// Basenames are the prefixes stripped during URL resolution.
	Basenames []string `config:"basenames"`

	// MaxRedirects bounds redirect chains per dispatch (0 keeps the default).
	MaxRedirects int `config:"maxRedirects"`

	// Routes are the route definitions in declaration order.
	Routes []RouteDef `config:"routes"`
}

// RouteDef is one declared route. Callback slots name functions the caller
// supplies at bind time; code stays in Go, the manifest only wires it.
type RouteDef struct {
	Type            string     `config:"type"`
	Path            string     `config:"path"`
	BeforeLeave     string     `config:"beforeLeave"`
	BeforeEnter     string     `config:"beforeEnter"`
	OnLeave         string     `config:"onLeave"`
	OnEnter         string     `config:"onEnter"`
	Thunk           string     `config:"thunk"`
	OnComplete      string     `config:"onComplete"`
	Dispatch        *bool      `config:"dispatch"`
	CanReceiveState bool       `config:"canReceiveState"`
	Routes          []RouteDef `config:"routes"`
}

// RouteMap resolves the manifest's callback names against bindings and
// returns the route map ready for the store. Every named callback must be
// bound; a missing name fails with ErrUnknownCallback.
func (m *Manifest) RouteMap(bindings map[string]route.Callback) (route.Map, error) {
	return buildMap(m.Routes, bindings)
}

func buildMap(defs []RouteDef, bindings map[string]route.Callback) (route.Map, error) {
	out := make(route.Map, 0, len(defs))
	for _, rd := range defs {
		if rd.Type == "" {
			return nil, fmt.Errorf("config: route with path %q has no type", rd.Path)
		}
		def, err := rd.toDef(bindings)
		if err != nil {
			return nil, err
		}
		out = append(out, route.Entry{Type: rd.Type, Value: def})
	}
	return out, nil
}

func (rd RouteDef) toDef(bindings map[string]route.Callback) (route.Def, error) {
	def := route.Def{
		Path:            rd.Path,
		Dispatch:        rd.Dispatch,
		CanReceiveState: rd.CanReceiveState,
	}

	slots := []struct {
		name string
		dst  *route.Callback
	}{
		{rd.BeforeLeave, &def.BeforeLeave},
		{rd.BeforeEnter, &def.BeforeEnter},
		{rd.OnLeave, &def.OnLeave},
		{rd.OnEnter, &def.OnEnter},
		{rd.Thunk, &def.Thunk},
		{rd.OnComplete, &def.OnComplete},
	}
	for _, slot := range slots {
		if slot.name == "" {
			continue
		}
		cb, ok := bindings[slot.name]
		if !ok || cb == nil {
			return route.Def{}, fmt.Errorf("%w: %q on route %q", ErrUnknownCallback, slot.name, rd.Type)
		}
		*slot.dst = cb
	}

	if len(rd.Routes) > 0 {
		nested, err := buildMap(rd.Routes, bindings)
		if err != nil {
			return route.Def{}, err
		}
		def.Routes = nested
	}
	return def, nil
}
