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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit.dev/transit/route"
)

func testRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb, "", 0)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c := testRedisCache(t)
	ctx := t.Context()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", map[string]any{"id": "42"}))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"id": "42"}, v)
}

func TestRedisCacheClear(t *testing.T) {
	t.Parallel()

	c := testRedisCache(t)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, "a", 1))
	require.NoError(t, c.Set(ctx, "b", 2))
	require.NoError(t, c.Clear(ctx))

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreWithRedisCache(t *testing.T) {
	t.Parallel()

	var thunkRuns int
	s := MustNew(route.Map{
		{Type: "HOME", Value: "/"},
		{Type: "DATA", Value: route.Def{
			Path: "/data/:id",
			Thunk: func(_ context.Context, req *Request) (any, error) {
				thunkRuns++
				return map[string]any{"id": req.Params()["id"]}, nil
			},
		}},
	}, WithCache(testRedisCache(t)))
	_, err := s.Start(t.Context())
	require.NoError(t, err)

	first, err := s.DispatchURL(t.Context(), "/data/1")
	require.NoError(t, err)
	second, err := s.DispatchURL(t.Context(), "/data/1")
	require.NoError(t, err)

	assert.Equal(t, 1, thunkRuns)
	// Values round-trip through JSON.
	assert.Equal(t, first.Payload, second.Payload)
}
