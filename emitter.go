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

import "context"

// Emitter is the producer-side handle given to an Observable's subscribe
// function: it narrows a Subscriber down to just what a producer needs.
// Constructing an Emitter from a sink delivers OnSubscribe to that sink as a
// side effect of construction, ported from
// rxui_rx/src/emitter/shared/flow/missing_emitter.rs's MissingEmitter::new.
type Emitter[T any] interface {
	OnNext(item T)
	OnError(err error)
	OnCompleted()
	IsCancelled() bool
}

var _ Emitter[int] = (*emitterImpl[int])(nil)

// NewEmitter wraps destination (a Subscriber) in an Emitter, delivering
// OnSubscribe(token) to destination immediately, where token is a fresh
// Cancellable the emitter installs as destination's upstream handle.
func NewEmitter[T any](ctx context.Context, destination Subscriber[T]) Emitter[T] {
	token := NewCancellable()
	destination.OnSubscribeWithContext(ctx, token)
	return &emitterImpl[T]{ctx: ctx, destination: destination, token: token}
}

type emitterImpl[T any] struct {
	ctx         context.Context
	destination Subscriber[T]
	token       Cancellable
}

func (e *emitterImpl[T]) OnNext(item T) {
	if e.IsCancelled() {
		return
	}
	e.destination.OnNextWithContext(e.ctx, item)
}

func (e *emitterImpl[T]) OnError(err error) {
	if e.IsCancelled() {
		return
	}
	e.destination.OnErrorWithContext(e.ctx, err)
}

func (e *emitterImpl[T]) OnCompleted() {
	if e.IsCancelled() {
		return
	}
	e.destination.OnCompletedWithContext(e.ctx)
}

func (e *emitterImpl[T]) IsCancelled() bool {
	return e.token.IsCancelled() || e.destination.IsClosed()
}

// FlowEmitter is the producer-side handle for a Flow's subscribe function.
// In addition to Emitter's methods, it exposes Requested so a producer can
// honor the declared demand, ported from rxui_rx/src/core/flow_emitter.rs.
type FlowEmitter[T any] interface {
	Emitter[T]
	// Requested returns the demand accumulated since the last call to
	// Requested, draining it back to zero (the same drain-read idiom as
	// BoolSubscription::requested in the Rust original).
	Requested() uint64
	// Await blocks until either Requested() would return non-zero, or the
	// emitter is cancelled, or ctx is done, whichever happens first, then
	// returns the drained demand (zero if woken by cancellation/ctx).
	// Producers that emit faster than the initial Request use this to
	// suspend instead of busy-polling Requested.
	Await(ctx context.Context) uint64
}

var _ FlowEmitter[int] = (*flowEmitterImpl[int])(nil)

// NewFlowEmitter wraps destination (a FlowSubscriber) in a FlowEmitter,
// delivering OnSubscribe(token) to destination immediately. Every Request
// call the downstream makes accumulates into the counter Requested drains.
func NewFlowEmitter[T any](ctx context.Context, destination FlowSubscriber[T]) FlowEmitter[T] {
	demand := &demandCounter{}
	wake := make(chan struct{}, 1)
	token := NewSubscription(func(n uint64) {
		demand.Add(n)
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	token.AddTeardown(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	destination.OnSubscribeWithContext(ctx, token)
	return &flowEmitterImpl[T]{ctx: ctx, destination: destination, token: token, demand: demand, wake: wake}
}

type flowEmitterImpl[T any] struct {
	ctx         context.Context
	destination FlowSubscriber[T]
	token       Subscription
	demand      *demandCounter
	wake        chan struct{}
}

func (e *flowEmitterImpl[T]) OnNext(item T) {
	if e.IsCancelled() {
		return
	}
	e.destination.OnNextWithContext(e.ctx, item)
}

func (e *flowEmitterImpl[T]) OnError(err error) {
	if e.IsCancelled() {
		return
	}
	e.destination.OnErrorWithContext(e.ctx, err)
}

func (e *flowEmitterImpl[T]) OnCompleted() {
	if e.IsCancelled() {
		return
	}
	e.destination.OnCompletedWithContext(e.ctx)
}

func (e *flowEmitterImpl[T]) IsCancelled() bool {
	return e.token.IsCancelled() || e.destination.IsClosed()
}

func (e *flowEmitterImpl[T]) Requested() uint64 {
	return e.demand.TakeAll()
}

func (e *flowEmitterImpl[T]) Await(ctx context.Context) uint64 {
	for {
		if n := e.Requested(); n > 0 {
			return n
		}
		if e.IsCancelled() {
			return 0
		}
		select {
		case <-e.wake:
			continue
		case <-ctx.Done():
			return 0
		}
	}
}
