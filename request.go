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
	"context"
	"log/slog"

	"transit.dev/transit/route"
)

// Callback is a route lifecycle callback. It may return:
//   - nil: no-op, the transition proceeds
//   - Block (from a blocking-capable phase): halt the transition as a no-op
//   - another *Action: redirect; the transition restarts with that action
//   - any other value (from a thunk): the payload for the _COMPLETE action
//
// A returned error fails the whole dispatch.
type Callback func(ctx context.Context, req *Request) (any, error)

// Request is the transient state of one transition attempt. It is owned
// exclusively by one pipeline execution and discarded on commit or rollback;
// callbacks and middlewares may mutate it freely between suspension points.
type Request struct {
	store *Store

	// action is the in-flight action, mutated across phases and redirects.
	action *Action

	// rec is the matched route record.
	rec *route.Record

	// prev is the committed location when the transition started.
	prev Location

	// prevAction is the committed action when the transition started; it is
	// what a blocked or superseded dispatch resolves to.
	prevAction *Action

	// seq is the transition's sequence number. Strictly increasing per
	// store; redirects preserve it.
	seq int64

	// canLeave skips the beforeLeave guard once (CONFIRM re-dispatch).
	canLeave bool

	// redirect is set when a callback returned a replacement action; the
	// dispatch loop restarts resolution with it.
	redirect *Action

	// confirmed marks the redirect as a CONFIRM re-dispatch.
	confirmed bool

	// blocked marks a halt by a blocking-capable phase.
	blocked bool

	// superseded marks a commit skipped because a newer transition started.
	superseded bool

	// committed marks that the enter-phase history commit happened.
	committed bool

	// cacheHit records the thunk cache probe made during enter.
	cacheHit bool

	// payload is the resolved thunk result for the _COMPLETE dispatch.
	payload any

	// done lists the phases completed on the forward pass, in order; rewind
	// logic and logging consume it.
	done []string

	logger *slog.Logger
}

// Action returns the in-flight action.
func (r *Request) Action() *Action {
	return r.action
}

// Route returns the matched route record (nil before resolution).
func (r *Request) Route() *route.Record {
	return r.rec
}

// PrevLocation returns the location committed when the transition started.
func (r *Request) PrevLocation() Location {
	return r.prev
}

// Sequence returns the transition's sequence number.
func (r *Request) Sequence() int64 {
	return r.seq
}

// Params returns the in-flight action's path parameters.
func (r *Request) Params() map[string]string {
	return r.action.Params
}

// Query returns the in-flight action's query values.
func (r *Request) Query() map[string]string {
	return r.action.Query
}

// Logger returns a logger scoped to this transition.
func (r *Request) Logger() *slog.Logger {
	return r.logger
}

// Store returns the owning store, letting callbacks issue follow-up
// dispatches (which start new, independently supersedable transitions).
func (r *Request) Store() *Store {
	return r.store
}

// markDone records a completed forward phase.
func (r *Request) markDone(phase string) {
	r.done = append(r.done, phase)
}

// redirected derives the follow-up request for a redirect: same sequence
// number (a redirect is not an independently supersedable transition), fresh
// phase bookkeeping.
func (r *Request) redirected() *Request {
	next := &Request{
		store:      r.store,
		action:     r.redirect.clone(),
		prev:       r.prev,
		prevAction: r.prevAction,
		seq:        r.seq,
		canLeave:   r.canLeave || r.confirmed,
		logger:     r.logger,
	}
	return next
}
