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

// Package route compiles declarative route maps into flat, typed route
// records with pattern matchers and URL generators.
//
// A route map is an ordered list of entries. Each entry value is either a
// path string, a callback function (thunk shorthand), or a full Def:
//
//	routes := route.Map{
//	    {Type: "HOME", Value: "/"},
//	    {Type: "USER", Value: route.Def{
//	        Path:  "/users/:id",
//	        Thunk: fetchUser,
//	    }},
//	    {Type: "ADMIN", Value: route.Def{
//	        Path: "/admin",
//	        Routes: route.Map{
//	            {Type: "SETTINGS", Value: "/settings"}, // ADMIN.SETTINGS → /admin/settings
//	        },
//	    }},
//	}
//	reg, err := route.Build(routes)
//
// Nesting namespaces types with a dot and concatenates paths. A nested child
// without a path of its own shares the parent's pattern for URL generation
// while the parent remains the match winner.
//
// Build injects the built-in maintenance routes (NOT_FOUND, ADD_ROUTES,
// CHANGE_BASENAME, CLEAR_CACHE, CONFIRM, CALL_HISTORY) exactly once.
//
// Matching deliberately uses registration order, not specificity: place
// catch-all patterns after specific ones.
package route
