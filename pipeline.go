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

import "context"

// Next invokes the remainder of the middleware chain and returns its
// eventual result.
type Next func() (*Action, error)

// Middleware is one step of the transition pipeline. A middleware may read
// and mutate the request before calling next (the forward pass) and observe
// or transform the chain's resolved value after next returns (the rewind
// pass). Returning without calling next short-circuits the forward pass;
// prior middlewares still receive control during rewind with the returned
// value. An error propagates up unchanged and rejects the whole dispatch.
type Middleware func(ctx context.Context, req *Request, next Next) (*Action, error)

// Pipeline is a composed middleware chain callable as a single unit.
type Pipeline func(ctx context.Context, req *Request) (*Action, error)

// Compose builds a Pipeline from middlewares in registration order. The
// chain is assembled back to front so that each middleware's next runs the
// rest of the chain; the terminal step resolves to the request's in-flight
// action. Middlewares run strictly sequentially; the engine never
// parallelizes the forward pass.
func Compose(middlewares []Middleware) Pipeline {
	return func(ctx context.Context, req *Request) (*Action, error) {
		chain := Next(func() (*Action, error) {
			return req.action, nil
		})
		for i := len(middlewares) - 1; i >= 0; i-- {
			mw := middlewares[i]
			next := chain
			chain = func() (*Action, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				return mw(ctx, req, next)
			}
		}
		return chain()
	}
}
