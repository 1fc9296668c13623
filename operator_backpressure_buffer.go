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
	"context"
	"sync"
)

// BufferStrategy selects what OnBackpressureBuffer does when an item
// arrives and the internal queue is already at capacity.
type BufferStrategy int8

const (
	// BufferError terminates the Flow with ErrMissingBackpressure.
	BufferError BufferStrategy = iota
	// BufferDropOldest discards the queue's oldest buffered item to make
	// room for the new one.
	BufferDropOldest
	// BufferDropLatest discards the incoming item, keeping the queue as is.
	BufferDropLatest
)

// OnBackpressureBuffer returns an operator that lets an unbounded-looking
// upstream (one that does not itself honor demand) feed a Flow: a bounded
// queue of capacity slots sits between the upstream and the declared
// demand, applying strategy whenever an item arrives with the queue full.
//
// Ported from
// rxui_rx/src/operators/flow/shared/on_backpressure_buffer.rs: a drain loop
// re-reads outstanding demand at its loop boundary rather than once up
// front, because OnNext on the downstream may reentrantly call Request
// (e.g. a subscriber that requests one more item as soon as it receives
// one). Terminal events (error or completion) are delivered immediately,
// discarding whatever is still queued, rather than draining the queue
// first — matching the original's on_error/on_completed, which take the
// subscriber out of the shared state and deliver without waiting.
func OnBackpressureBuffer[T any](capacity int, strategy BufferStrategy) func(Flow[T]) Flow[T] {
	if capacity < 1 {
		capacity = 1
	}
	return func(source Flow[T]) Flow[T] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[T]) {
			buf := &backpressureBuffer[T]{
				ctx:         ctx,
				destination: destination,
				capacity:    capacity,
				strategy:    strategy,
				queue:       make([]T, 0, capacity),
			}

			upstreamToken := NewSubscription(func(n uint64) {
				buf.requested.Add(n)
				buf.drain()
			})
			destination.AddTeardown(upstreamToken.Cancel)
			destination.OnSubscribeWithContext(ctx, upstreamToken)

			source.SubscribeWithContext(ctx, buf)
		})
	}
}

type backpressureBuffer[T any] struct {
	ctx         context.Context
	destination FlowSubscriber[T]
	capacity    int
	strategy    BufferStrategy

	mu     sync.Mutex
	queue  []T
	closed bool

	requested demandCounter
	draining  bool
}

func (b *backpressureBuffer[T]) OnSubscribe(token Cancellable) {
	b.OnSubscribeWithContext(context.Background(), token)
}

func (b *backpressureBuffer[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	// The upstream Subscription was already handed to destination above,
	// before subscribing to source; the upstream-facing token here is only
	// used to cancel the producer, so forward Cancel through it.
	b.destination.AddTeardown(token.Cancel)
}

func (b *backpressureBuffer[T]) OnNext(item T) {
	b.OnNextWithContext(context.Background(), item)
}

func (b *backpressureBuffer[T]) OnNextWithContext(ctx context.Context, item T) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	if len(b.queue) >= b.capacity {
		switch b.strategy {
		case BufferError:
			b.closed = true
			b.mu.Unlock()
			b.destination.OnErrorWithContext(ctx, ErrMissingBackpressure)
			return
		case BufferDropOldest:
			b.queue = append(b.queue[1:], item)
		case BufferDropLatest:
			// keep the queue as is, drop item
		}
	} else {
		b.queue = append(b.queue, item)
	}
	b.mu.Unlock()

	b.drain()
}

func (b *backpressureBuffer[T]) OnError(err error) {
	b.OnErrorWithContext(context.Background(), err)
}

func (b *backpressureBuffer[T]) OnErrorWithContext(ctx context.Context, err error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.destination.OnErrorWithContext(ctx, err)
}

func (b *backpressureBuffer[T]) OnCompleted() {
	b.OnCompletedWithContext(context.Background())
}

func (b *backpressureBuffer[T]) OnCompletedWithContext(ctx context.Context) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.destination.OnCompletedWithContext(ctx)
}

func (b *backpressureBuffer[T]) IsClosed() bool    { return b.destination.IsClosed() }
func (b *backpressureBuffer[T]) HasThrown() bool   { return b.destination.HasThrown() }
func (b *backpressureBuffer[T]) IsCompleted() bool { return b.destination.IsCompleted() }

// drain delivers queued items to the destination while both the queue is
// non-empty and demand remains, re-reading demand at the loop boundary so a
// Request call reentrant on OnNext (the downstream asking for one more item
// the moment it receives one) is observed without needing a separate wake
// signal.
func (b *backpressureBuffer[T]) drain() {
	b.mu.Lock()
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.draining = false
		b.mu.Unlock()
	}()

	for {
		if b.destination.IsClosed() {
			return
		}
		if !b.requested.Consume() {
			return
		}

		b.mu.Lock()
		if len(b.queue) == 0 {
			b.mu.Unlock()
			b.requested.Add(1) // undo the Consume above: nothing to deliver
			return
		}
		item := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.destination.OnNextWithContext(b.ctx, item)
	}
}
