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
)

func TestMemoryHistorySeed(t *testing.T) {
	t.Parallel()

	h := NewMemoryHistory("")
	assert.Equal(t, 1, h.Length())
	assert.Equal(t, 0, h.Index())
	assert.Equal(t, "/", h.Current().Pathname)
}

func TestMemoryHistoryPushTruncatesForward(t *testing.T) {
	t.Parallel()

	h := NewMemoryHistory("/")
	h.Push(Location{Pathname: "/a"})
	h.Push(Location{Pathname: "/b"})

	_, err := h.Go(-2)
	require.NoError(t, err)
	assert.Equal(t, "/", h.Current().Pathname)

	h.Push(Location{Pathname: "/c"})
	assert.Equal(t, 2, h.Length())
	assert.Equal(t, "/c", h.Current().Pathname)
	assert.Equal(t, []string{"/", "/c"}, pathnames(h))
}

func TestMemoryHistoryGoBounds(t *testing.T) {
	t.Parallel()

	h := NewMemoryHistory("/")
	h.Push(Location{Pathname: "/a"})

	_, err := h.Go(-5)
	assert.ErrorIs(t, err, ErrHistoryOutOfRange)
	_, err = h.Go(1)
	assert.ErrorIs(t, err, ErrHistoryOutOfRange)

	loc, err := h.Go(-1)
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Pathname)
}

func TestMemoryHistoryReplace(t *testing.T) {
	t.Parallel()

	h := NewMemoryHistory("/")
	h.Push(Location{Pathname: "/a"})
	h.Replace(Location{Pathname: "/a2"})

	assert.Equal(t, 2, h.Length())
	assert.Equal(t, "/a2", h.Current().Pathname)
}

func TestMemoryHistoryEmitJump(t *testing.T) {
	t.Parallel()

	h := NewMemoryHistory("/")
	h.Push(Location{Pathname: "/a"})

	var gotLoc Location
	var gotDelta int
	h.OnJump(func(loc Location, delta int) {
		gotLoc, gotDelta = loc, delta
	})

	require.NoError(t, h.EmitJump(-1))
	assert.Equal(t, "/", gotLoc.Pathname)
	assert.Equal(t, -1, gotDelta)
	assert.Equal(t, 0, h.Index())

	assert.ErrorIs(t, h.EmitJump(-1), ErrHistoryOutOfRange)
}

func pathnames(h History) []string {
	entries := h.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Pathname
	}
	return out
}
