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

package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
	}{
		{"no leading slash", "user/:id"},
		{"empty", ""},
		{"empty segment", "/user//posts"},
		{"unnamed param", "/user/:"},
		{"catch-all not last", "/files/*/extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(tt.pattern)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPatternSyntax)
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		pathname string
		want     Params
		ok       bool
	}{
		{"root", "/", "/", Params{}, true},
		{"root trailing", "/", "", Params{}, true},
		{"literal", "/about", "/about", Params{}, true},
		{"literal miss", "/about", "/contact", nil, false},
		{"param", "/user/:id", "/user/42", Params{"id": "42"}, true},
		{"param trailing slash", "/user/:id", "/user/42/", Params{"id": "42"}, true},
		{"param missing", "/user/:id", "/user", nil, false},
		{"extra segment", "/user/:id", "/user/42/posts", nil, false},
		{"two params", "/user/:id/:tab", "/user/42/posts", Params{"id": "42", "tab": "posts"}, true},
		{"optional present", "/list/:filter?", "/list/active", Params{"filter": "active"}, true},
		{"optional absent", "/list/:filter?", "/list", Params{}, true},
		{"optional then literal", "/a/:x?/b", "/a/b", Params{}, true},
		{"optional then literal present", "/a/:x?/b", "/a/v/b", Params{"x": "v"}, true},
		{"catch-all", "/files/*", "/files/a/b/c.txt", Params{"splat": "a/b/c.txt"}, true},
		{"catch-all named", "/files/*path", "/files/a/b", Params{"path": "a/b"}, true},
		{"catch-all empty", "/files/*", "/files", Params{"splat": ""}, true},
		{"case sensitive", "/About", "/about", nil, false},
		{"percent decoding", "/tag/:name", "/tag/caf%C3%A9", Params{"name": "café"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := MustCompile(tt.pattern)
			params, ok := p.Match(tt.pathname)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, params)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		params  Params
		want    string
	}{
		{"root", "/", nil, "/"},
		{"literal", "/about", nil, "/about"},
		{"param", "/user/:id", Params{"id": "42"}, "/user/42"},
		{"optional present", "/list/:filter?", Params{"filter": "active"}, "/list/active"},
		{"optional absent", "/list/:filter?", nil, "/list"},
		{"escaping", "/tag/:name", Params{"name": "a b"}, "/tag/a%20b"},
		{"catch-all", "/files/*", Params{"splat": "a/b"}, "/files/a/b"},
		{"catch-all absent", "/files/*", nil, "/files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := MustCompile(tt.pattern).Build(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing required param", func(t *testing.T) {
		t.Parallel()
		_, err := MustCompile("/user/:id").Build(nil)
		assert.ErrorIs(t, err, ErrParamMismatch)
	})

	t.Run("slash in value", func(t *testing.T) {
		t.Parallel()
		_, err := MustCompile("/user/:id").Build(Params{"id": "a/b"})
		assert.ErrorIs(t, err, ErrParamMismatch)
	})
}

func TestMatchBuildRoundTrip(t *testing.T) {
	t.Parallel()

	p := MustCompile("/user/:id/:tab?")
	built, err := p.Build(Params{"id": "7", "tab": "posts"})
	require.NoError(t, err)

	params, ok := p.Match(built)
	require.True(t, ok)
	assert.Equal(t, Params{"id": "7", "tab": "posts"}, params)
}
