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

import "errors"

var (
	// ErrInvalidAction indicates a malformed navigation intent: an action with
	// an empty type, or a value that is neither a URL string nor an action.
	ErrInvalidAction = errors.New("invalid action")

	// ErrNoPathForType indicates that URL generation was attempted on a
	// pathless route.
	ErrNoPathForType = errors.New("no path for route type")

	// ErrInvalidCallback indicates that a route definition carries a callback
	// whose signature is not func(context.Context, *Request) (any, error).
	ErrInvalidCallback = errors.New("invalid callback signature")

	// ErrRedirectLoop indicates that a single transition redirected more times
	// than the configured limit.
	ErrRedirectLoop = errors.New("redirect limit exceeded")

	// ErrHistoryOutOfRange indicates a history move past either end of the
	// entry list.
	ErrHistoryOutOfRange = errors.New("history index out of range")
)
