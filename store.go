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
	"log/slog"
	"maps"
	"reflect"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"

	"transit.dev/transit/route"
)

// defaultMaxRedirects bounds callback-driven redirect chains per dispatch.
const defaultMaxRedirects = 20

// Store owns the route registry, the history backend, the thunk cache, and
// the committed location state, and drives every dispatched action through
// the transition pipeline. All methods are safe for concurrent use;
// concurrent dispatches race on sequence numbers and the later one wins.
type Store struct {
	registry     *route.Registry
	history      History
	cache        CacheStore
	logger       *slog.Logger
	recorders    []Recorder
	userMW       []Middleware
	onChange     func(*Action, LocationState)
	basenames    []string
	maxRedirects int

	pipeline Pipeline

	// seq numbers transitions; only the request holding the latest value may
	// commit.
	seq   *atomic.Int64
	ready *atomic.Bool

	mu         sync.RWMutex
	state      LocationState
	lastAction *Action
	basename   string
	parked     *Action
}

// New builds a store for the given route map. The map is flattened and
// validated eagerly; duplicate or malformed definitions fail construction
// rather than the first dispatch.
func New(routes route.Map, opts ...Option) (*Store, error) {
	reg, err := route.Build(routes)
	if err != nil {
		return nil, err
	}

	s := &Store{
		registry:     reg,
		logger:       slog.Default(),
		maxRedirects: defaultMaxRedirects,
		seq:          atomic.NewInt64(0),
		ready:        atomic.NewBool(true),
		state:        LocationState{Kind: KindInit, Ready: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = NewMemoryHistory("/")
	}
	if s.cache == nil {
		s.cache = NewMemoryCache()
	}
	if err := s.bindRegistry(); err != nil {
		return nil, err
	}

	mws := make([]Middleware, 0, len(s.userMW)+8)
	mws = append(mws, s.userMW...)
	mws = append(mws,
		s.transform,
		s.callPhase(phaseBeforeLeave),
		s.callPhase(phaseBeforeEnter),
		s.enter,
		s.callPhase(phaseOnLeave),
		s.callPhase(phaseOnEnter),
		s.thunk,
		s.complete,
	)
	s.pipeline = Compose(mws)

	s.state.History = s.summaryLocked()
	return s, nil
}

// MustNew is New, panicking on error. For wiring in main and tests.
func MustNew(routes route.Map, opts ...Option) *Store {
	s, err := New(routes, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Start installs the external-move handler on the history backend (when it
// supports one) and dispatches the backend's current entry as the
// initial-load transition.
func (s *Store) Start(ctx context.Context) (*Action, error) {
	if n, ok := s.history.(Notifier); ok {
		n.OnJump(func(loc Location, _ int) {
			a := s.URLToAction(loc.URL())
			a.Kind = KindJump
			if _, err := s.Dispatch(context.Background(), a); err != nil {
				s.logger.Error("external history move failed", "url", loc.URL(), "err", err)
			}
		})
	}
	a := s.URLToAction(s.history.Current().URL())
	a.Kind = KindLoad
	return s.Dispatch(ctx, a)
}

// Dispatch runs a through the transition pipeline and returns the action the
// dispatch settled to: the committed action (or its _COMPLETE follow-up when
// a thunk ran), or the previously committed action when the transition was
// blocked or superseded. Redirects are followed internally.
func (s *Store) Dispatch(ctx context.Context, a *Action) (*Action, error) {
	if a == nil || a.Type == "" {
		return nil, ErrInvalidAction
	}
	return s.run(ctx, s.newRequest(a.clone()))
}

// DispatchURL resolves a URL to its action and dispatches it.
func (s *Store) DispatchURL(ctx context.Context, rawURL string) (*Action, error) {
	return s.Dispatch(ctx, s.URLToAction(rawURL))
}

// Push dispatches an imperative history push of the given URL.
func (s *Store) Push(ctx context.Context, rawURL string) (*Action, error) {
	return s.Dispatch(ctx, &Action{Type: route.TypeCallHistory, Payload: HistoryCall{Method: "push", URL: rawURL}})
}

// Replace dispatches an imperative in-place rewrite to the given URL.
func (s *Store) Replace(ctx context.Context, rawURL string) (*Action, error) {
	return s.Dispatch(ctx, &Action{Type: route.TypeCallHistory, Payload: HistoryCall{Method: "replace", URL: rawURL}})
}

// Back re-dispatches the previous history entry.
func (s *Store) Back(ctx context.Context) (*Action, error) {
	return s.Dispatch(ctx, &Action{Type: route.TypeCallHistory, Payload: HistoryCall{Method: "back"}})
}

// Next re-dispatches the next history entry.
func (s *Store) Next(ctx context.Context) (*Action, error) {
	return s.Dispatch(ctx, &Action{Type: route.TypeCallHistory, Payload: HistoryCall{Method: "next"}})
}

// Go re-dispatches the entry delta steps away.
func (s *Store) Go(ctx context.Context, delta int) (*Action, error) {
	return s.Dispatch(ctx, &Action{Type: route.TypeCallHistory, Payload: HistoryCall{Method: "go", Delta: delta}})
}

// Confirm resumes the transition most recently halted by a beforeLeave
// Block, bypassing that guard once. With nothing parked it is a no-op
// resolving to the committed action.
func (s *Store) Confirm(ctx context.Context) (*Action, error) {
	return s.Dispatch(ctx, &Action{Type: route.TypeConfirm})
}

// State returns a snapshot of the committed location state.
func (s *Store) State() LocationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Location = st.Location.cloneMaps()
	st.Prev = st.Prev.cloneMaps()
	return st
}

// Ready reports whether the committed route's thunk has resolved (always
// true for routes without one).
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Registry exposes the flattened route records, for inspection and link
// generation outside the store.
func (s *Store) Registry() *route.Registry {
	return s.registry
}

// History exposes the underlying history backend.
func (s *Store) History() History {
	return s.history
}

func (s *Store) newRequest(a *Action) *Request {
	seq := s.seq.Inc()
	st := s.State()
	return &Request{
		store:      s,
		action:     a,
		prev:       st.Location,
		prevAction: s.committedAction(),
		seq:        seq,
		logger:     s.logger.With(slog.String("type", a.Type), slog.Int64("seq", seq)),
	}
}

// run drives one dispatch to settlement, following redirects under the same
// sequence number.
func (s *Store) run(ctx context.Context, req *Request) (*Action, error) {
	start := time.Now()
	for _, r := range s.recorders {
		ctx = r.TransitionStart(ctx, req.action, req.seq)
	}

	var (
		res       *Action
		err       error
		hops      int
		committed bool
	)
	outcome := OutcomeCommitted
	for {
		res, err = s.pipeline(ctx, req)
		committed = committed || req.committed
		if err != nil {
			outcome = OutcomeFailed
			break
		}
		if req.redirect != nil {
			hops++
			if hops > s.maxRedirects {
				err = fmt.Errorf("%w: %d redirects ending at %q", ErrRedirectLoop, hops, req.redirect.Type)
				outcome = OutcomeFailed
				res = nil
				break
			}
			req = req.redirected()
			continue
		}
		switch {
		case req.blocked:
			outcome = OutcomeBlocked
		case req.superseded:
			outcome = OutcomeSuperseded
		case req.rec == nil || !req.rec.Dispatch:
			outcome = OutcomeNoop
		}
		break
	}

	if committed {
		// An enter commit on any hop may have left ready=false while its
		// thunk was pending. If the dispatch then redirected away, blocked,
		// or failed before a complete commit, ready must not stay stuck
		// false. restoreReady is sequence-guarded, so a superseding
		// transition's state is never touched (and after a normal complete
		// commit this is a no-op).
		s.restoreReady(req.seq)
	}

	for _, r := range s.recorders {
		r.TransitionEnd(ctx, res, outcome, time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("dispatch failed", "type", req.action.Type, "seq", req.seq, "err", err)
		return nil, err
	}
	return res, nil
}

// commitEnter applies the transition's location to history and state. It
// refuses when a newer transition has started (returning false), which the
// caller surfaces as silent supersession.
func (s *Store) commitEnter(req *Request, loc Location, ready bool) (bool, error) {
	s.mu.Lock()

	if s.seq.Load() != req.seq {
		s.mu.Unlock()
		return false, nil
	}

	cur := s.history.Current()
	entries := s.history.Entries()
	idx := s.history.Index()

	detected := KindPush
	switch {
	case req.action.delta != 0:
		if _, err := s.history.Go(req.action.delta); err != nil {
			s.mu.Unlock()
			return false, err
		}
		s.history.Replace(loc)
		switch req.action.delta {
		case -1:
			detected = KindBack
		case 1:
			detected = KindNext
		default:
			detected = KindJump
		}
	case req.action.Kind == KindReplace || loc.sameEntry(cur):
		s.history.Replace(loc)
		detected = KindReplace
	case idx > 0 && loc.sameEntry(entries[idx-1]):
		_, _ = s.history.Go(-1)
		s.history.Replace(loc)
		detected = KindBack
	case idx+1 < len(entries) && loc.sameEntry(entries[idx+1]):
		_, _ = s.history.Go(1)
		s.history.Replace(loc)
		detected = KindNext
	default:
		s.history.Push(loc)
	}

	display := detected
	switch req.action.Kind {
	case KindLoad, KindBack, KindNext, KindJump:
		// Dispatcher-forced kinds (initial load, history traversal) win over
		// the mechanical detection.
		display = req.action.Kind
	}

	req.action.Kind = display
	act := req.action.clone()
	prev := s.state.Location
	s.state = LocationState{
		Location: loc,
		Kind:     display,
		Prev:     prev,
		Ready:    ready,
		History:  s.summaryLocked(),
	}
	s.ready.Store(ready)
	s.lastAction = act

	onChange := s.onChange
	snap := s.state
	s.mu.Unlock()

	if onChange != nil {
		onChange(act.clone(), snap)
	}
	return true, nil
}

// commitComplete applies the _COMPLETE follow-up: ready flips true and the
// follow-up becomes the committed action. Refuses under supersession.
func (s *Store) commitComplete(req *Request, ca *Action) bool {
	s.mu.Lock()
	if s.seq.Load() != req.seq {
		s.mu.Unlock()
		return false
	}
	s.state.Ready = true
	s.ready.Store(true)
	s.lastAction = ca.clone()
	onChange := s.onChange
	snap := s.state
	s.mu.Unlock()

	if onChange != nil {
		onChange(ca.clone(), snap)
	}
	return true
}

// restoreReady flips ready back on after a post-commit failure, unless a
// newer transition owns the state by now.
func (s *Store) restoreReady(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq.Load() != seq {
		return
	}
	s.state.Ready = true
	s.ready.Store(true)
}

// committedAction returns the last committed action, or a synthetic init
// action before the first commit.
func (s *Store) committedAction() *Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastAction == nil {
		return &Action{Kind: KindInit}
	}
	return s.lastAction.clone()
}

// changeBasename swaps the active basename without moving through history
// entries; the commit kind is setState.
func (s *Store) changeBasename(bn string) {
	bn = normalizeBasename(bn)
	s.mu.Lock()
	s.basename = bn
	s.state.Location.Basename = bn
	s.state.Kind = KindSetState
	var act *Action
	if s.lastAction != nil {
		s.lastAction.Basename = bn
		act = s.lastAction.clone()
	}
	if s.state.Type != "" {
		s.history.Replace(s.state.Location)
		s.state.History = s.summaryLocked()
	}
	onChange := s.onChange
	snap := s.state
	s.mu.Unlock()

	if onChange != nil && act != nil {
		onChange(act, snap)
	}
}

func (s *Store) activeBasename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.basename
}

// historyCall translates a CALL_HISTORY payload into the concrete action to
// redirect to. Index moves are bounds-checked here against a snapshot and
// again at commit time.
func (s *Store) historyCall(a *Action) (*Action, error) {
	var hc HistoryCall
	switch p := a.Payload.(type) {
	case HistoryCall:
		hc = p
	case *HistoryCall:
		hc = *p
	default:
		return nil, fmt.Errorf("%w: CALL_HISTORY payload must be a HistoryCall", ErrInvalidAction)
	}

	switch hc.Method {
	case "push", "replace":
		target := s.URLToAction(hc.URL)
		if hc.Method == "replace" {
			target.Kind = KindReplace
		}
		return target, nil

	case "back", "next", "go":
		delta := hc.Delta
		kind := KindJump
		switch hc.Method {
		case "back":
			delta, kind = -1, KindBack
		case "next":
			delta, kind = 1, KindNext
		}
		if delta == 0 {
			return nil, fmt.Errorf("%w: go with zero delta", ErrInvalidAction)
		}
		entries := s.history.Entries()
		idx := s.history.Index() + delta
		if idx < 0 || idx >= len(entries) {
			return nil, fmt.Errorf("%w: index %d of %d entries", ErrHistoryOutOfRange, idx, len(entries))
		}
		target := s.URLToAction(entries[idx].URL())
		target.Kind = kind
		target.delta = delta
		return target, nil
	}
	return nil, fmt.Errorf("%w: unknown history method %q", ErrInvalidAction, hc.Method)
}

// locationFor builds the history entry for a committing action.
func (s *Store) locationFor(a *Action, rec *route.Record) (Location, error) {
	var pathname string
	if rec.Pattern != nil {
		p, err := rec.Pattern.Build(route.Params(a.Params))
		if err != nil {
			return Location{}, fmt.Errorf("route %q: %w", rec.Type, err)
		}
		pathname = p
	}
	bn := a.Basename
	if bn == "" {
		bn = s.activeBasename()
	}
	loc := Location{
		Type:     rec.Type,
		Pathname: pathname,
		Search:   encodeQuery(a.Query),
		Hash:     a.Hash,
		Basename: bn,
		Params:   maps.Clone(a.Params),
		Query:    maps.Clone(a.Query),
	}
	if rec.Type == route.TypeNotFound || strings.HasSuffix(rec.Type, "."+route.TypeNotFound) {
		loc.State = a.Payload
	}
	return loc, nil
}

func (s *Store) park(a *Action) {
	s.mu.Lock()
	s.parked = a.clone()
	s.mu.Unlock()
}

func (s *Store) takeParked() *Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.parked
	s.parked = nil
	return a
}

// summaryLocked snapshots the history backend. The backend carries its own
// lock, so reading it under s.mu is safe.
func (s *Store) summaryLocked() HistorySummary {
	return HistorySummary{
		Entries: s.history.Entries(),
		Index:   s.history.Index(),
		Length:  s.history.Length(),
	}
}

// bindRegistry normalizes every callback slot on every record to the
// canonical Callback signature. Runs once at construction, before the store
// is shared; runtime ADD_ROUTES binds incoming definitions with bindMap
// instead, so published records are never rewritten under concurrent reads.
func (s *Store) bindRegistry() error {
	for _, rec := range s.registry.Records() {
		slots := []*route.Callback{
			&rec.BeforeLeave, &rec.BeforeEnter,
			&rec.OnLeave, &rec.OnEnter,
			&rec.Thunk, &rec.OnComplete,
		}
		for _, slot := range slots {
			if *slot == nil {
				continue
			}
			cb, err := asCallback(*slot)
			if err != nil {
				return fmt.Errorf("route %q: %w", rec.Type, err)
			}
			*slot = cb
		}
	}
	return nil
}

// bindMap returns a copy of m with every callback slot normalized to the
// canonical Callback signature. ADD_ROUTES binds incoming definitions before
// the registry publishes them; records visible to in-flight dispatches are
// never mutated.
func bindMap(m route.Map) (route.Map, error) {
	out := make(route.Map, len(m))
	for i, entry := range m {
		switch v := entry.Value.(type) {
		case route.Def:
			d, err := bindDef(v)
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", entry.Type, err)
			}
			entry.Value = d
		case *route.Def:
			if v == nil {
				break
			}
			d, err := bindDef(*v)
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", entry.Type, err)
			}
			entry.Value = d
		case string, nil:
			// Path shorthand; nothing to bind. Other invalid values are left
			// for the registry to reject.
		default:
			if reflect.TypeOf(v).Kind() != reflect.Func {
				break
			}
			cb, err := asCallback(v)
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", entry.Type, err)
			}
			entry.Value = route.Def{Thunk: cb}
		}
		out[i] = entry
	}
	return out, nil
}

// bindDef normalizes the callback slots of one definition, recursing into
// nested routes.
func bindDef(d route.Def) (route.Def, error) {
	slots := []*route.Callback{
		&d.BeforeLeave, &d.BeforeEnter,
		&d.OnLeave, &d.OnEnter,
		&d.Thunk, &d.OnComplete,
	}
	for _, slot := range slots {
		if *slot == nil {
			continue
		}
		cb, err := asCallback(*slot)
		if err != nil {
			return route.Def{}, err
		}
		*slot = cb
	}
	if len(d.Routes) > 0 {
		nested, err := bindMap(d.Routes)
		if err != nil {
			return route.Def{}, err
		}
		d.Routes = nested
	}
	return d, nil
}

// asCallback coerces the accepted callback shapes to the canonical one.
func asCallback(v route.Callback) (Callback, error) {
	switch cb := v.(type) {
	case Callback:
		return cb, nil
	case func(ctx context.Context, req *Request) (any, error):
		return Callback(cb), nil
	case func(ctx context.Context, req *Request) error:
		return func(ctx context.Context, req *Request) (any, error) {
			return nil, cb(ctx, req)
		}, nil
	case func(req *Request) (any, error):
		return func(_ context.Context, req *Request) (any, error) {
			return cb(req)
		}, nil
	case func(req *Request) error:
		return func(_ context.Context, req *Request) (any, error) {
			return nil, cb(req)
		}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidCallback, v)
}

// normalizeBasename forces a leading slash and strips the trailing one;
// "" means no basename.
func normalizeBasename(bn string) string {
	if bn == "" || bn == "/" {
		return ""
	}
	if !strings.HasPrefix(bn, "/") {
		bn = "/" + bn
	}
	return strings.TrimSuffix(bn, "/")
}
