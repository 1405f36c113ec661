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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"transit.dev/transit/route"
)

func TestPrometheusRecorderCountsOutcomes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	s := MustNew(route.Map{
		{Type: "HOME", Value: "/"},
		{Type: "LOCKED", Value: route.Def{
			Path: "/locked",
			BeforeEnter: func(context.Context, *Request) (any, error) {
				return Block, nil
			},
		}},
		{Type: "DATA", Value: route.Def{
			Path: "/data",
			Thunk: func(context.Context, *Request) (any, error) {
				return "d", nil
			},
		}},
	}, WithRecorder(rec))

	ctx := t.Context()
	_, err = s.Start(ctx)
	require.NoError(t, err)
	_, err = s.DispatchURL(ctx, "/data")
	require.NoError(t, err)
	_, err = s.DispatchURL(ctx, "/locked")
	require.NoError(t, err)

	committed := testutil.ToFloat64(rec.transitions.WithLabelValues(string(OutcomeCommitted)))
	blocked := testutil.ToFloat64(rec.transitions.WithLabelValues(string(OutcomeBlocked)))
	assert.Equal(t, float64(2), committed)
	assert.Equal(t, float64(1), blocked)

	// The /data dispatch probed the cache once and missed.
	misses := testutil.ToFloat64(rec.cacheProbes.WithLabelValues("miss"))
	assert.Equal(t, float64(1), misses)
}

func TestOTelRecorderSpansPerDispatch(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	mp := sdkmetric.NewMeterProvider()
	rec, err := NewOTelRecorder(tp, mp)
	require.NoError(t, err)

	s := MustNew(route.Map{
		{Type: "HOME", Value: "/"},
		{Type: "A", Value: "/a"},
	}, WithRecorder(rec))

	ctx := t.Context()
	_, err = s.Start(ctx)
	require.NoError(t, err)
	_, err = s.DispatchURL(ctx, "/a")
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, "transit.dispatch", span.Name)
	}
}
