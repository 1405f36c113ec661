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

// Package transit is a routing engine that treats navigation as dispatched
// actions rather than handler invocations. A Store owns a route map, a
// history backend, and the committed location state; every dispatched action
// runs through an asynchronous middleware pipeline whose built-in phases
// implement a full route transition: leave guards, enter commit, cacheable
// data thunks, and completion follow-ups.
//
// A minimal store:
//
//	store := transit.MustNew(route.Map{
//		{Type: "HOME", Value: "/"},
//		{Type: "USER", Value: route.Def{
//			Path: "/user/:id",
//			Thunk: func(ctx context.Context, req *transit.Request) (any, error) {
//				return loadUser(ctx, req.Params()["id"])
//			},
//		}},
//	})
//	store.Start(ctx)
//
//	action, err := store.DispatchURL(ctx, "/user/42")
//
// Dispatching is symmetric with URL resolution: actions generate URLs
// (ActionToURL) and URLs resolve to actions (URLToAction), with unmatched
// URLs degrading to the built-in NOT_FOUND route instead of erroring.
//
// Transitions are sequenced. When a second dispatch starts while an earlier
// one is suspended in a callback, the earlier one is superseded: it stops
// committing and settles silently to the last committed action. Guards can
// halt a transition by returning Block, park it, and have it resumed by a
// later CONFIRM dispatch. Any callback can redirect by returning another
// action.
package transit
