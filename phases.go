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
	"fmt"
	"sync"

	"transit.dev/transit/route"
)

// Pipeline phase names, in forward order.
const (
	phaseBeforeLeave = "beforeLeave"
	phaseBeforeEnter = "beforeEnter"
	phaseEnter       = "enter"
	phaseOnLeave     = "onLeave"
	phaseOnEnter     = "onEnter"
	phaseThunk       = "thunk"
	phaseOnComplete  = "onComplete"
)

// transform is the first middleware: it resolves the in-flight action to a
// route record and executes maintenance dispatches inline. Its rewind pass
// observes redirects after the rest of the chain settles.
func (s *Store) transform(ctx context.Context, req *Request, next Next) (*Action, error) {
	a := req.action
	if a == nil || a.Type == "" {
		return nil, ErrInvalidAction
	}

	switch a.Type {
	case route.TypeClearCache:
		if err := s.cache.Clear(ctx); err != nil {
			return nil, err
		}
		req.logger.DebugContext(ctx, "cache cleared")
		return a, nil

	case route.TypeAddRoutes:
		m, ok := a.Payload.(route.Map)
		if !ok {
			return nil, fmt.Errorf("%w: ADD_ROUTES payload must be a route.Map", ErrInvalidAction)
		}
		bound, err := bindMap(m)
		if err != nil {
			return nil, err
		}
		if err := s.registry.Add(bound); err != nil {
			return nil, err
		}
		return a, nil

	case route.TypeChangeBasename:
		bn, ok := a.Payload.(string)
		if !ok {
			return nil, fmt.Errorf("%w: CHANGE_BASENAME payload must be a string", ErrInvalidAction)
		}
		s.changeBasename(bn)
		return a, nil

	case route.TypeConfirm:
		parked := s.takeParked()
		if parked == nil {
			return req.prevAction, nil
		}
		req.redirect = parked
		req.confirmed = true
		return parked, nil

	case route.TypeCallHistory:
		target, err := s.historyCall(a)
		if err != nil {
			return nil, err
		}
		req.redirect = target
		return target, nil
	}

	rec, ok := s.registry.Lookup(a.Type)
	if !ok {
		// Unmatched action types resolve to the not-found record, which is a
		// normal route from here on.
		a = &Action{Type: route.TypeNotFound, Payload: a.Payload, Kind: a.Kind}
		req.action = a
		rec, _ = s.registry.Lookup(route.TypeNotFound)
	}
	req.rec = rec

	res, err := next()
	if err != nil {
		return nil, err
	}
	if req.redirect != nil {
		req.logger.DebugContext(ctx, "transition redirected", "to", req.redirect.Type)
	}
	return res, nil
}

// callPhase builds the middleware for one named callback slot. Leave-phase
// callbacks come from the previously committed route's record; the rest from
// the matched record.
func (s *Store) callPhase(phase string) Middleware {
	return func(ctx context.Context, req *Request, next Next) (*Action, error) {
		if phase == phaseBeforeLeave && req.canLeave {
			// CONFIRM re-dispatch bypasses the leave guard once.
			return next()
		}

		cb, owner := s.phaseCallback(phase, req)
		if cb == nil {
			return next()
		}
		req.markDone(phase)

		res, err := cb(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", owner, phase, err)
		}

		if isBlock(res) {
			if phase == phaseBeforeLeave || phase == phaseBeforeEnter {
				req.blocked = true
				if phase == phaseBeforeLeave {
					// Park the intent so a later CONFIRM can resume it.
					s.park(req.action)
				}
				return req.prevAction, nil
			}
			// Block from a non-blocking phase is a no-op.
			return next()
		}

		if act, ok := res.(*Action); ok && act != nil {
			req.redirect = act
			return act, nil
		}

		return next()
	}
}

// phaseCallback selects the callback for a phase along with the owning route
// type (for error messages).
func (s *Store) phaseCallback(phase string, req *Request) (Callback, string) {
	rec := req.rec
	if phase == phaseBeforeLeave || phase == phaseOnLeave {
		prev, ok := s.registry.Lookup(req.prev.Type)
		if !ok {
			return nil, ""
		}
		rec = prev
	}
	if rec == nil {
		return nil, ""
	}

	var raw route.Callback
	switch phase {
	case phaseBeforeLeave:
		raw = rec.BeforeLeave
	case phaseBeforeEnter:
		raw = rec.BeforeEnter
	case phaseOnLeave:
		raw = rec.OnLeave
	case phaseOnEnter:
		raw = rec.OnEnter
	case phaseOnComplete:
		raw = rec.OnComplete
	}
	cb, _ := raw.(Callback)
	return cb, rec.Type
}

// enter commits the transition's location to history and location state.
// This is the first of the at most two dispatches a transition produces; the
// optional second (_COMPLETE) follows the thunk.
func (s *Store) enter(ctx context.Context, req *Request, next Next) (*Action, error) {
	var err error
	req.cacheHit, err = s.probeCache(ctx, req)
	if err != nil {
		return nil, err
	}

	if !req.rec.Dispatch {
		// Callbacks only: no history or state commit for this route.
		return next()
	}

	loc, err := s.locationFor(req.action, req.rec)
	if err != nil {
		return nil, err
	}

	willFetch := req.rec.Thunk != nil && !req.cacheHit
	committed, err := s.commitEnter(req, loc, !willFetch)
	if err != nil {
		return nil, err
	}
	if !committed {
		// A newer transition started; settle silently to whatever it (or any
		// later one) committed.
		req.superseded = true
		return s.committedAction(), nil
	}
	req.committed = true
	req.markDone(phaseEnter)

	return next()
}

// thunk runs the route's cacheable side-effect callback. A cache hit (probed
// during enter) skips invocation entirely; a miss fans out the matched
// record's thunk together with its ancestor namespaces' thunks, awaits all,
// then writes the result through the cache. This fan-out is the pipeline's
// only parallel sub-step.
func (s *Store) thunk(ctx context.Context, req *Request, next Next) (*Action, error) {
	cb, _ := req.rec.Thunk.(Callback)
	if cb == nil {
		return next()
	}
	if req.cacheHit {
		// Payload was loaded by the probe.
		return next()
	}
	req.markDone(phaseThunk)

	thunks := []Callback{cb}
	for parent := req.rec.ParentType; parent != ""; {
		rec, ok := s.registry.Lookup(parent)
		if !ok {
			break
		}
		if anc, _ := rec.Thunk.(Callback); anc != nil {
			thunks = append(thunks, anc)
		}
		parent = rec.ParentType
	}

	results := make([]any, len(thunks))
	errs := make([]error, len(thunks))
	var wg sync.WaitGroup
	for i, t := range thunks {
		wg.Add(1)
		go func(i int, t Callback) {
			defer wg.Done()
			results[i], errs[i] = t(ctx, req)
		}(i, t)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s thunk: %w", req.rec.Type, err)
		}
	}

	res := results[0]
	if isBlock(res) {
		// Block from a non-blocking phase is a no-op, never a payload.
		return next()
	}
	if act, ok := res.(*Action); ok && act != nil {
		req.redirect = act
		return act, nil
	}
	if res != nil {
		req.payload = res
		key := cacheKey(phaseThunk, req.rec, req.action)
		if err := s.cache.Set(ctx, key, res); err != nil {
			// The cache is an optimization; a write failure must not fail a
			// transition that already committed.
			req.logger.WarnContext(ctx, "cache write failed", "key", key, "err", err)
		}
	}

	return next()
}

// complete commits the optional _COMPLETE follow-up carrying the thunk
// payload, then runs the onComplete callback. The value it returns is what
// the original dispatch settles to.
func (s *Store) complete(ctx context.Context, req *Request, next Next) (*Action, error) {
	settled := req.action

	if req.committed && req.rec.Thunk != nil {
		ca := &Action{
			Type:     req.rec.Type + CompleteSuffix,
			Params:   req.action.Params,
			Query:    req.action.Query,
			Basename: req.action.Basename,
			Payload:  req.payload,
			Kind:     KindSetState,
		}
		committed := s.commitComplete(req, ca)
		if !committed {
			req.superseded = true
			return s.committedAction(), nil
		}
		settled = ca
	}

	if cb, _ := req.rec.OnComplete.(Callback); cb != nil {
		req.markDone(phaseOnComplete)
		res, err := cb(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", req.rec.Type, phaseOnComplete, err)
		}
		if act, ok := res.(*Action); ok && act != nil && !isBlock(res) {
			req.redirect = act
			return act, nil
		}
	}

	if _, err := next(); err != nil {
		return nil, err
	}
	return settled, nil
}

// probeCache checks the thunk cache for the in-flight request, loading the
// payload on a hit. Called during enter so that a hit commits ready=true
// immediately.
func (s *Store) probeCache(ctx context.Context, req *Request) (bool, error) {
	if req.rec == nil || req.rec.Thunk == nil {
		return false, nil
	}
	key := cacheKey(phaseThunk, req.rec, req.action)
	v, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, err
	}
	for _, r := range s.recorders {
		r.CacheAccess(ctx, req.rec.Type, ok)
	}
	if ok {
		req.payload = v
	}
	return ok, nil
}
