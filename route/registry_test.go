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

func TestBuildFlattensNestedTypes(t *testing.T) {
	t.Parallel()

	reg, err := Build(Map{
		{Type: "HOME", Value: "/"},
		{Type: "ADMIN", Value: Def{
			Path: "/admin",
			Routes: Map{
				{Type: "USERS", Value: "/users"},
				{Type: "USER", Value: Def{
					Path: "/users/:id",
					Routes: Map{
						{Type: "POSTS", Value: "/posts"},
					},
				}},
			},
		}},
	})
	require.NoError(t, err)

	rec, ok := reg.Lookup("ADMIN.USERS")
	require.True(t, ok)
	assert.Equal(t, "/admin/users", rec.Path)
	assert.Equal(t, "ADMIN", rec.ParentType)

	rec, ok = reg.Lookup("ADMIN.USER.POSTS")
	require.True(t, ok)
	assert.Equal(t, "/admin/users/:id/posts", rec.Path)
	assert.Equal(t, "ADMIN.USER", rec.ParentType)
}

func TestBuildDuplicateType(t *testing.T) {
	t.Parallel()

	_, err := Build(Map{
		{Type: "HOME", Value: "/"},
		{Type: "HOME", Value: "/other"},
	})
	assert.ErrorIs(t, err, ErrDuplicateRouteType)
}

func TestBuildRejectsBadValue(t *testing.T) {
	t.Parallel()

	_, err := Build(Map{{Type: "HOME", Value: 42}})
	assert.ErrorIs(t, err, ErrInvalidRouteDef)
}

func TestBuiltinsAlwaysPresent(t *testing.T) {
	t.Parallel()

	reg := MustBuild(nil)
	for _, builtin := range []string{TypeNotFound, TypeAddRoutes, TypeChangeBasename, TypeClearCache, TypeConfirm, TypeCallHistory} {
		rec, ok := reg.Lookup(builtin)
		require.True(t, ok, builtin)
		if builtin == TypeNotFound {
			assert.True(t, rec.Dispatch)
			assert.Equal(t, NotFoundPath, rec.Path)
		} else {
			assert.False(t, rec.Dispatch)
			assert.True(t, rec.Pathless())
		}
	}
}

func TestNotFoundPrecedesUserCatchAll(t *testing.T) {
	t.Parallel()

	reg := MustBuild(Map{
		{Type: "ANY", Value: "/*"},
	})

	rec, _, ok := reg.Match("/not-found")
	require.True(t, ok)
	assert.Equal(t, TypeNotFound, rec.Type)
}

func TestBuiltinOverrideKeepsPosition(t *testing.T) {
	t.Parallel()

	reg := MustBuild(Map{
		{Type: TypeNotFound, Value: "/missing"},
		{Type: "ANY", Value: "/*"},
	})

	rec, ok := reg.Lookup(TypeNotFound)
	require.True(t, ok)
	assert.Equal(t, "/missing", rec.Path)

	// Still checked before the later catch-all.
	got, _, ok := reg.Match("/missing")
	require.True(t, ok)
	assert.Equal(t, TypeNotFound, got.Type)
}

func TestMatchRegistrationOrderWins(t *testing.T) {
	t.Parallel()

	// The catch-all is registered first and shadows the specific pattern.
	// First-match-wins is the contract; specificity does not reorder.
	reg := MustBuild(Map{
		{Type: "ANY", Value: "/*"},
		{Type: "USER", Value: "/user/:id"},
	})

	rec, params, ok := reg.Match("/user/42")
	require.True(t, ok)
	assert.Equal(t, "ANY", rec.Type)
	assert.Equal(t, "user/42", params["splat"])
}

func TestPathlessChildSharesParentPattern(t *testing.T) {
	t.Parallel()

	reg := MustBuild(Map{
		{Type: "USER", Value: Def{
			Path: "/user/:id",
			Routes: Map{
				{Type: "REFRESH", Value: Def{Thunk: func() {}}},
			},
		}},
	})

	rec, ok := reg.Lookup("USER.REFRESH")
	require.True(t, ok)
	assert.True(t, rec.SharesParentPattern())
	assert.Equal(t, "/user/:id", rec.Path)

	// The shared pattern generates URLs but never wins matching.
	got, _, ok := reg.Match("/user/42")
	require.True(t, ok)
	assert.Equal(t, "USER", got.Type)
}

func TestThunkShorthand(t *testing.T) {
	t.Parallel()

	reg := MustBuild(Map{
		{Type: "REFRESH", Value: func() {}},
	})

	rec, ok := reg.Lookup("REFRESH")
	require.True(t, ok)
	assert.True(t, rec.Pathless())
	assert.NotNil(t, rec.Thunk)
}

func TestDispatchDefaultsTrue(t *testing.T) {
	t.Parallel()

	off := false
	reg := MustBuild(Map{
		{Type: "A", Value: "/a"},
		{Type: "B", Value: Def{Path: "/b", Dispatch: &off}},
	})

	a, _ := reg.Lookup("A")
	b, _ := reg.Lookup("B")
	assert.True(t, a.Dispatch)
	assert.False(t, b.Dispatch)
}

func TestAddCollides(t *testing.T) {
	t.Parallel()

	reg := MustBuild(Map{{Type: "HOME", Value: "/"}})

	err := reg.Add(Map{{Type: "HOME", Value: "/again"}})
	assert.ErrorIs(t, err, ErrDuplicateRouteType)

	require.NoError(t, reg.Add(Map{{Type: "EXTRA", Value: "/extra"}}))
	rec, _, ok := reg.Match("/extra")
	require.True(t, ok)
	assert.Equal(t, "EXTRA", rec.Type)
}

func TestAddCannotRedefineBuiltins(t *testing.T) {
	t.Parallel()

	reg := MustBuild(nil)
	err := reg.Add(Map{{Type: TypeNotFound, Value: "/elsewhere"}})
	assert.ErrorIs(t, err, ErrDuplicateRouteType)
}
