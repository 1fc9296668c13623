// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rx

import "sync"

// LazyCancellable is a two-phase Cancellable used when the real upstream
// token is not available yet at the moment the caller needs a handle to
// cancel with — notably SubscribeOn, which must return a token synchronously
// even though the upstream Subscribe call runs later, on a worker.
//
// Ported from original_source/kled/src/cancellable/lazy_cancellable.rs: a
// cancel arriving before the upstream is set latches a flag that is applied
// the instant the upstream is set; a cancel arriving after is forwarded
// directly. No event is lost across the handover.
type LazyCancellable struct {
	data *lazyCancellableData
}

type lazyCancellableData struct {
	mu        sync.Mutex
	cancelled bool
	upstream  Cancellable
	pending   []Teardown
}

// newLazyCancellableStub creates a fresh LazyCancellable handle along with
// the private setter used to bind the real upstream token once it exists.
func newLazyCancellableStub() (LazyCancellable, func(Cancellable)) {
	data := &lazyCancellableData{}
	handle := LazyCancellable{data: data}

	setUpstream := func(upstream Cancellable) {
		data.mu.Lock()
		if data.cancelled {
			pending := data.pending
			data.pending = nil
			data.mu.Unlock()
			for _, teardown := range pending {
				upstream.AddTeardown(teardown)
			}
			upstream.Cancel()
			return
		}
		data.upstream = upstream
		pending := data.pending
		data.pending = nil
		data.mu.Unlock()

		for _, teardown := range pending {
			upstream.AddTeardown(teardown)
		}
	}

	return handle, setUpstream
}

// Cancel cancels the upstream token if it has already been set; otherwise it
// latches a pending cancel that is applied the instant the upstream is set.
func (c LazyCancellable) Cancel() {
	c.data.mu.Lock()
	upstream := c.data.upstream
	c.data.cancelled = true
	c.data.mu.Unlock()

	if upstream != nil {
		upstream.Cancel()
	}
}

// IsCancelled reports whether Cancel has been called, directly or latched.
func (c LazyCancellable) IsCancelled() bool {
	c.data.mu.Lock()
	defer c.data.mu.Unlock()

	if c.data.upstream != nil {
		return c.data.upstream.IsCancelled()
	}
	return c.data.cancelled
}

// AddTeardown forwards to the upstream token once it is bound. Before that,
// the teardown is queued and flushed onto the upstream the instant it binds.
func (c LazyCancellable) AddTeardown(teardown Teardown) {
	if teardown == nil {
		return
	}

	c.data.mu.Lock()
	if c.data.upstream != nil {
		upstream := c.data.upstream
		c.data.mu.Unlock()
		upstream.AddTeardown(teardown)
		return
	}
	c.data.pending = append(c.data.pending, teardown)
	c.data.mu.Unlock()
}

var _ Cancellable = LazyCancellable{}
