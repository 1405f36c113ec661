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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
basename: /app
maxRedirects: 10
routes:
  - type: HOME
    path: /
  - type: USER
    path: /user/:id
    thunk: loadUser
`

func TestLoaderYAML(t *testing.T) {
	t.Parallel()

	l := MustNew(WithBytes([]byte(baseYAML), FormatYAML))

	assert.Equal(t, "/app", l.GetString("basename"))
	assert.Equal(t, 10, l.GetInt("maxRedirects"))

	m, err := l.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "/app", m.Basename)
	require.Len(t, m.Routes, 2)
	assert.Equal(t, "HOME", m.Routes[0].Type)
	assert.Equal(t, "/user/:id", m.Routes[1].Path)
	assert.Equal(t, "loadUser", m.Routes[1].Thunk)
}

func TestLoaderTOML(t *testing.T) {
	t.Parallel()

	raw := []byte(`
basename = "/shop"

[[routes]]
type = "HOME"
path = "/"

[[routes]]
type = "ITEM"
path = "/item/:id"
`)
	l := MustNew(WithBytes(raw, FormatTOML))

	m, err := l.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "/shop", m.Basename)
	require.Len(t, m.Routes, 2)
	assert.Equal(t, "ITEM", m.Routes[1].Type)
}

func TestLoaderMergesOverrides(t *testing.T) {
	t.Parallel()

	override := []byte(`
basename: /v2
`)
	l := MustNew(
		WithBytes([]byte(baseYAML), FormatYAML),
		WithBytes(override, FormatYAML),
	)

	assert.Equal(t, "/v2", l.GetString("basename"))
	// Untouched keys survive the merge.
	assert.Equal(t, 10, l.GetInt("maxRedirects"))
}

func TestLoaderFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(baseYAML), 0o600))

	l, err := New(WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "/app", l.GetString("basename"))
}

func TestLoaderUnknownExtension(t *testing.T) {
	t.Parallel()

	_, err := New(WithFile("routes.ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestGetDottedPath(t *testing.T) {
	t.Parallel()

	l := MustNew(WithValues(map[string]any{
		"cache": map[string]any{"ttl": "5m", "enabled": true},
	}))

	assert.Equal(t, "5m", l.GetString("cache.ttl"))
	assert.True(t, l.GetBool("cache.enabled"))
	assert.Equal(t, float64(300), l.GetDuration("cache.ttl").Seconds())
	assert.Nil(t, l.Get("cache.missing"))
	assert.Nil(t, l.Get("missing.deep"))
}
