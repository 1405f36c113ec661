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

import "errors"

var (
	// ErrPatternSyntax indicates that a route path pattern could not be compiled.
	ErrPatternSyntax = errors.New("invalid route pattern")

	// ErrParamMismatch indicates that URL generation failed because a required
	// parameter is missing or its value would change segment boundaries.
	ErrParamMismatch = errors.New("route parameter mismatch")

	// ErrDuplicateRouteType indicates that two route definitions flatten to the same type.
	ErrDuplicateRouteType = errors.New("duplicate route type")

	// ErrInvalidRouteDef indicates that a route map entry is not a path string,
	// a callback, or a Def.
	ErrInvalidRouteDef = errors.New("invalid route definition")
)
