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
	"sort"
	"strings"
	"sync"

	"transit.dev/transit/route"
)

// CacheStore holds resolved thunk results keyed by request fingerprint.
// Entries are written when a cacheable callback resolves, read before
// invoking it again for an equivalent request, and flushed by a CLEAR_CACHE
// dispatch. Implementations must be safe for concurrent use.
type CacheStore interface {
	// Get returns the cached value for key and whether it was present.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value any) error

	// Clear removes every entry belonging to this store.
	Clear(ctx context.Context) error
}

// MemoryCache is the in-process CacheStore used by default.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

var _ CacheStore = (*MemoryCache)(nil)

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]any)}
}

// Get returns the cached value for key.
func (c *MemoryCache) Get(_ context.Context, key string) (any, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

// Set stores value under key.
func (c *MemoryCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKey derives the fingerprint for one callback invocation:
// callback name, route type, and the sorted params/query of the action.
// Routes marked CanReceiveState key on the type alone, so a result cached
// for one parameter set satisfies equivalent requests hydrated from state.
func cacheKey(name string, rec *route.Record, a *Action) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('|')
	b.WriteString(rec.Type)
	if rec.CanReceiveState {
		return b.String()
	}
	b.WriteByte('|')
	writeSorted(&b, a.Params)
	b.WriteByte('|')
	writeSorted(&b, a.Query)
	return b.String()
}

func writeSorted(b *strings.Builder, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
	}
}
