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

import "log/slog"

// Option configures a Store during New.
type Option func(*Store)

// WithHistory sets the history backend. Defaults to an in-memory backend
// seeded at "/".
func WithHistory(h History) Option {
	return func(s *Store) {
		s.history = h
	}
}

// WithCache sets the thunk result cache. Defaults to an in-process cache.
func WithCache(c CacheStore) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder appends a dispatch lifecycle recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorders = append(s.recorders, r)
		}
	}
}

// WithMiddleware appends user middlewares ahead of the built-in pipeline, in
// the given order.
func WithMiddleware(mws ...Middleware) Option {
	return func(s *Store) {
		s.userMW = append(s.userMW, mws...)
	}
}

// WithOnChange registers the subscriber invoked after every commit with the
// committed action and the new state. Called synchronously; keep it cheap
// and do not dispatch from inside it.
func WithOnChange(fn func(*Action, LocationState)) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// WithBasename sets the initially active basename.
func WithBasename(bn string) Option {
	return func(s *Store) {
		s.basename = normalizeBasename(bn)
	}
}

// WithBasenames declares the prefixes URL resolution strips before matching
// (the longest match wins).
func WithBasenames(bns ...string) Option {
	return func(s *Store) {
		s.basenames = append(s.basenames, bns...)
	}
}

// WithMaxRedirects bounds callback-driven redirect chains per dispatch.
func WithMaxRedirects(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRedirects = n
		}
	}
}
