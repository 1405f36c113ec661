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
	"fmt"
	"sync"
)

// History is the abstract contract a history storage backend must satisfy:
// an ordered sequence of location entries with a current index. The pipeline
// is the only writer during commits; concrete backends (browser bridge,
// server-side array) live outside the engine. MemoryHistory is the reference
// implementation.
type History interface {
	// Entries returns a snapshot of all entries in order.
	Entries() []Location

	// Index returns the position of the current entry. 0 <= Index < Length.
	Index() int

	// Length returns the number of entries.
	Length() int

	// Current returns the entry at Index.
	Current() Location

	// Push truncates any forward entries, appends loc, and advances Index.
	Push(loc Location)

	// Replace rewrites the current entry in place.
	Replace(loc Location)

	// Go moves the index by delta and returns the entry landed on. It fails
	// with ErrHistoryOutOfRange when the move passes either end.
	Go(delta int) (Location, error)
}

// Notifier is implemented by history backends that can report externally
// triggered moves (a browser back button, another tab). The store turns each
// notification into a new dispatched action derived from the backend's new
// current entry.
type Notifier interface {
	// OnJump registers the handler invoked after an external move. The
	// handler receives the new current entry and the delta moved.
	OnJump(func(loc Location, delta int))
}

// HistoryCall is the payload of a CALL_HISTORY dispatch: an imperative
// history operation that still runs through the full transition pipeline.
// Method is one of "push", "replace", "back", "next", or "go"; URL applies to
// push/replace and Delta to go.
type HistoryCall struct {
	Method string
	URL    string
	Delta  int
}

// MemoryHistory is an in-memory History, the backend for server-side stores
// and tests.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []Location
	index   int
	onJump  func(Location, int)
}

var _ History = (*MemoryHistory)(nil)
var _ Notifier = (*MemoryHistory)(nil)

// NewMemoryHistory creates a history seeded with a single entry for
// initialPath ("" means "/").
func NewMemoryHistory(initialPath string) *MemoryHistory {
	if initialPath == "" {
		initialPath = "/"
	}
	return &MemoryHistory{entries: []Location{{Pathname: initialPath}}}
}

// Entries returns a copy of all entries in order.
func (h *MemoryHistory) Entries() []Location {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Location, len(h.entries))
	copy(out, h.entries)
	return out
}

// Index returns the current entry position.
func (h *MemoryHistory) Index() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index
}

// Length returns the number of entries.
func (h *MemoryHistory) Length() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Current returns the entry at the current index.
func (h *MemoryHistory) Current() Location {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[h.index]
}

// Push drops forward entries, appends loc, and advances the index.
func (h *MemoryHistory) Push(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], loc)
	h.index = len(h.entries) - 1
}

// Replace rewrites the current entry.
func (h *MemoryHistory) Replace(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = loc
}

// Go moves the index by delta. Engine-driven moves do not fire the jump
// handler; see EmitJump for externally triggered ones.
func (h *MemoryHistory) Go(delta int) (Location, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.move(delta)
}

func (h *MemoryHistory) move(delta int) (Location, error) {
	target := h.index + delta
	if target < 0 || target >= len(h.entries) {
		return Location{}, fmt.Errorf("%w: index %d of %d entries", ErrHistoryOutOfRange, target, len(h.entries))
	}
	h.index = target
	return h.entries[h.index], nil
}

// OnJump registers the external-move handler. Only one handler is kept; the
// store installs its own during Start.
func (h *MemoryHistory) OnJump(fn func(Location, int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onJump = fn
}

// EmitJump simulates an externally triggered move (a back button): the index
// moves first, then the registered handler observes the new current entry.
func (h *MemoryHistory) EmitJump(delta int) error {
	h.mu.Lock()
	loc, err := h.move(delta)
	fn := h.onJump
	h.mu.Unlock()
	if err != nil {
		return err
	}
	if fn != nil {
		fn(loc, delta)
	}
	return nil
}
