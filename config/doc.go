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

// Package config loads declarative route manifests for transit stores.
//
// A manifest declares the route map and store settings in YAML or TOML;
// callbacks stay in Go and are wired by name at bind time:
//
//	basename: /app
//	routes:
//	  - type: HOME
//	    path: /
//	  - type: USER
//	    path: /user/:id
//	    thunk: loadUser
//
//	loader := config.MustNew(config.WithFile("routes.yaml"))
//	manifest, err := loader.Manifest()
//	routes, err := manifest.RouteMap(map[string]route.Callback{
//		"loadUser": loadUser,
//	})
//
// Multiple sources merge in order, later ones overriding earlier ones, so a
// deployment can layer environment-specific overrides on a base manifest.
package config
