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

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exports dispatch metrics to a Prometheus registry, for
// deployments that scrape directly rather than running an OTel pipeline.
type PrometheusRecorder struct {
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheProbes *prometheus.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the collectors on reg (nil uses the
// default registerer).
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusRecorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_transitions_total",
			Help: "Settled dispatches by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transit_transition_duration_seconds",
			Help:    "Dispatch duration from intake to settlement.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"outcome"}),
		cacheProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_cache_probes_total",
			Help: "Thunk cache probes by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{r.transitions, r.duration, r.cacheProbes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// TransitionStart is a no-op; Prometheus needs no per-dispatch context.
func (r *PrometheusRecorder) TransitionStart(ctx context.Context, _ *Action, _ int64) context.Context {
	return ctx
}

// TransitionEnd records the outcome counter and duration histogram.
func (r *PrometheusRecorder) TransitionEnd(_ context.Context, _ *Action, outcome Outcome, d time.Duration, _ error) {
	r.transitions.WithLabelValues(string(outcome)).Inc()
	r.duration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

// CacheAccess records a thunk cache probe.
func (r *PrometheusRecorder) CacheAccess(_ context.Context, _ string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheProbes.WithLabelValues(result).Inc()
}
