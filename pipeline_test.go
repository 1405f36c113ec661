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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeForwardAndRewindOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	step := func(name string) Middleware {
		return func(_ context.Context, _ *Request, next Next) (*Action, error) {
			trace = append(trace, name+":fwd")
			res, err := next()
			trace = append(trace, name+":rwd")
			return res, err
		}
	}

	req := &Request{action: &Action{Type: "X"}}
	res, err := Compose([]Middleware{step("a"), step("b"), step("c")})(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "X", res.Type)
	assert.Equal(t, []string{"a:fwd", "b:fwd", "c:fwd", "c:rwd", "b:rwd", "a:rwd"}, trace)
}

func TestComposeShortCircuit(t *testing.T) {
	t.Parallel()

	var reached bool
	halt := &Action{Type: "HALT"}
	mws := []Middleware{
		func(_ context.Context, _ *Request, next Next) (*Action, error) {
			res, err := next()
			// The rewind pass still observes the short-circuit value.
			require.NoError(t, err)
			assert.Equal(t, "HALT", res.Type)
			return res, err
		},
		func(_ context.Context, _ *Request, _ Next) (*Action, error) {
			return halt, nil
		},
		func(_ context.Context, _ *Request, next Next) (*Action, error) {
			reached = true
			return next()
		},
	}

	res, err := Compose(mws)(context.Background(), &Request{action: &Action{Type: "X"}})
	require.NoError(t, err)
	assert.Same(t, halt, res)
	assert.False(t, reached)
}

func TestComposeErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	mws := []Middleware{
		func(_ context.Context, _ *Request, next Next) (*Action, error) {
			return next()
		},
		func(_ context.Context, _ *Request, _ Next) (*Action, error) {
			return nil, boom
		},
	}

	_, err := Compose(mws)(context.Background(), &Request{action: &Action{Type: "X"}})
	assert.ErrorIs(t, err, boom)
}

func TestComposeHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var reached bool
	mws := []Middleware{
		func(ctx context.Context, _ *Request, next Next) (*Action, error) {
			cancel()
			return next()
		},
		func(_ context.Context, _ *Request, next Next) (*Action, error) {
			reached = true
			return next()
		},
	}

	_, err := Compose(mws)(ctx, &Request{action: &Action{Type: "X"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, reached)
}

func TestComposeEmptyChainResolvesAction(t *testing.T) {
	t.Parallel()

	a := &Action{Type: "X"}
	res, err := Compose(nil)(context.Background(), &Request{action: a})
	require.NoError(t, err)
	assert.Same(t, a, res)
}
