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
)

// Outcome classifies how a dispatch settled.
type Outcome string

const (
	// OutcomeCommitted means the transition committed a new location.
	OutcomeCommitted Outcome = "committed"

	// OutcomeBlocked means a guard callback halted the transition.
	OutcomeBlocked Outcome = "blocked"

	// OutcomeSuperseded means a newer transition won the commit race.
	OutcomeSuperseded Outcome = "superseded"

	// OutcomeNoop means the dispatch ran callbacks without committing
	// (non-dispatching routes, maintenance actions).
	OutcomeNoop Outcome = "noop"

	// OutcomeFailed means a callback or commit step returned an error.
	OutcomeFailed Outcome = "failed"
)

// Recorder observes the lifecycle of dispatches for metrics and tracing.
// Implementations must be safe for concurrent use. A store may carry several
// recorders; they are invoked in registration order.
type Recorder interface {
	// TransitionStart is called once per dispatch before the pipeline runs.
	// The returned context flows through every phase and into TransitionEnd,
	// letting implementations carry spans or timers.
	TransitionStart(ctx context.Context, a *Action, seq int64) context.Context

	// TransitionEnd is called once per dispatch after settlement. settled is
	// nil when err is non-nil.
	TransitionEnd(ctx context.Context, settled *Action, outcome Outcome, d time.Duration, err error)

	// CacheAccess is called for every thunk cache probe.
	CacheAccess(ctx context.Context, routeType string, hit bool)
}
