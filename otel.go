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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const otelScope = "transit.dev/transit"

// OTelRecorder traces each dispatch as a span and records transition counts,
// durations, and cache probes through OpenTelemetry instruments.
type OTelRecorder struct {
	tracer trace.Tracer

	transitions metric.Int64Counter
	duration    metric.Float64Histogram
	cacheProbes metric.Int64Counter
}

var _ Recorder = (*OTelRecorder)(nil)

// NewOTelRecorder builds a recorder against the given providers; nil falls
// back to the globals.
func NewOTelRecorder(tp trace.TracerProvider, mp metric.MeterProvider) (*OTelRecorder, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(otelScope)

	transitions, err := meter.Int64Counter("transit.transitions",
		metric.WithDescription("Settled dispatches by outcome"),
		metric.WithUnit("{transition}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("transit.transition.duration",
		metric.WithDescription("Dispatch duration from intake to settlement"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	cacheProbes, err := meter.Int64Counter("transit.cache.probes",
		metric.WithDescription("Thunk cache probes by result"),
		metric.WithUnit("{probe}"))
	if err != nil {
		return nil, err
	}

	return &OTelRecorder{
		tracer:      tp.Tracer(otelScope),
		transitions: transitions,
		duration:    duration,
		cacheProbes: cacheProbes,
	}, nil
}

// TransitionStart opens the dispatch span.
func (r *OTelRecorder) TransitionStart(ctx context.Context, a *Action, seq int64) context.Context {
	ctx, _ = r.tracer.Start(ctx, "transit.dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("transit.action.type", a.Type),
			attribute.Int64("transit.seq", seq),
		))
	return ctx
}

// TransitionEnd closes the dispatch span and records the instruments.
func (r *OTelRecorder) TransitionEnd(ctx context.Context, settled *Action, outcome Outcome, d time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("transit.outcome", string(outcome)))
	if settled != nil {
		span.SetAttributes(
			attribute.String("transit.settled.type", settled.Type),
			attribute.String("transit.settled.kind", string(settled.Kind)),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	r.transitions.Add(ctx, 1, attrs)
	r.duration.Record(ctx, d.Seconds(), attrs)
}

// CacheAccess counts a thunk cache probe.
func (r *OTelRecorder) CacheAccess(ctx context.Context, routeType string, hit bool) {
	r.cacheProbes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", routeType),
		attribute.Bool("hit", hit),
	))
}
