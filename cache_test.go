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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit.dev/transit/route"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	ctx := t.Context()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", 42))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestCacheKeyFingerprint(t *testing.T) {
	t.Parallel()

	rec := &route.Record{Type: "USER"}

	a := &Action{Type: "USER", Params: map[string]string{"id": "1"}, Query: map[string]string{"tab": "posts"}}
	b := &Action{Type: "USER", Params: map[string]string{"id": "1"}, Query: map[string]string{"tab": "posts"}}
	other := &Action{Type: "USER", Params: map[string]string{"id": "2"}}

	assert.Equal(t, cacheKey("thunk", rec, a), cacheKey("thunk", rec, b))
	assert.NotEqual(t, cacheKey("thunk", rec, a), cacheKey("thunk", rec, other))
	assert.NotEqual(t, cacheKey("thunk", rec, a), cacheKey("onEnter", rec, a))
}

func TestCacheKeyCanReceiveState(t *testing.T) {
	t.Parallel()

	rec := &route.Record{Type: "DASH", CanReceiveState: true}

	a := &Action{Type: "DASH", Params: map[string]string{"id": "1"}}
	b := &Action{Type: "DASH", Params: map[string]string{"id": "2"}}

	// State-derivable routes key on the type alone.
	assert.Equal(t, cacheKey("thunk", rec, a), cacheKey("thunk", rec, b))
}
