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

import (
	"math"
	"sync"
)

// Subscription is the connection token a Flow hands to a FlowSubscriber via
// OnSubscribe. It extends Cancellable with Request, the credit mechanism a
// subscriber uses to declare how many items it is ready to receive.
//
// Requested credit saturates at math.MaxUint64 and never goes negative; a
// Flow must never deliver more items than have been requested.
type Subscription interface {
	Cancellable
	// Request adds n to the outstanding demand. A Flow source is expected to
	// emit at most that many further items before the next Request call.
	// Implementations must tolerate Request being called from OnNext
	// (reentrantly, while delivering an item) and from any other goroutine.
	Request(n uint64)
}

var _ Subscription = (*subscriptionImpl)(nil)

// NewSubscription creates a Subscription not yet bound to anything, with the
// given callback invoked (possibly many times, possibly concurrently, never
// with n == 0) whenever additional demand is requested.
func NewSubscription(onRequest func(n uint64)) Subscription {
	if onRequest == nil {
		onRequest = func(uint64) {}
	}
	return &subscriptionImpl{cancellable: NewCancellable(), onRequest: onRequest}
}

type subscriptionImpl struct {
	cancellable Cancellable
	onRequest   func(n uint64)
}

func (s *subscriptionImpl) Cancel()                       { s.cancellable.Cancel() }
func (s *subscriptionImpl) IsCancelled() bool              { return s.cancellable.IsCancelled() }
func (s *subscriptionImpl) AddTeardown(teardown Teardown) { s.cancellable.AddTeardown(teardown) }

func (s *subscriptionImpl) Request(n uint64) {
	if n == 0 || s.IsCancelled() {
		return
	}
	s.onRequest(n)
}

// demandCounter is a saturating, never-negative credit counter shared by
// operators that need to track outstanding Flow demand (e.g.
// OnBackpressureBuffer). Add saturates at math.MaxUint64; TakeAll atomically
// reads and resets to zero, the drain-read idiom ported from
// rxui_rx/src/subscription/shared/bool_subscription.rs's requested().
type demandCounter struct {
	mu    sync.Mutex
	value uint64
}

func (d *demandCounter) Add(n uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n == 0 {
		return
	}
	if d.value > math.MaxUint64-n {
		d.value = math.MaxUint64
		return
	}
	d.value += n
}

// Peek returns the current outstanding demand without consuming it.
func (d *demandCounter) Peek() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Consume decrements the outstanding demand by one if any is available and
// reports whether it did so.
func (d *demandCounter) Consume() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.value == 0 {
		return false
	}
	d.value--
	return true
}

// TakeAll atomically reads the outstanding demand and resets it to zero,
// returning what was read. A Request landing between the read and the reset
// is never lost, since both happen under a single lock acquisition.
func (d *demandCounter) TakeAll() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.value
	d.value = 0
	return n
}
