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

// Create builds an Observable[T] whose subscribe function receives an
// Emitter[T] it can push items into at its own pace. Constructing the
// Emitter delivers OnSubscribe to the subscriber immediately, as a side
// effect (see NewEmitter).
func Create[T any](produce func(ctx context.Context, emitter Emitter[T])) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
		emitter := NewEmitter[T](ctx, destination)
		produce(ctx, emitter)
	})
}

// FromSlice builds an Observable[T] that emits every element of items, in
// order, then completes. Ported from
// rxui_rx/src/observable/from_iter.rs: is_cancelled is checked before every
// item, so a mid-sequence Cancel stops delivery without emitting the rest
// or calling OnCompleted.
func FromSlice[T any](items []T) Observable[T] {
	return Create(func(ctx context.Context, emitter Emitter[T]) {
		for _, item := range items {
			if emitter.IsCancelled() {
				return
			}
			emitter.OnNext(item)
		}
		if !emitter.IsCancelled() {
			emitter.OnCompleted()
		}
	})
}

// FlowCreate builds a Flow[T] whose subscribe function receives a
// FlowEmitter[T]. Constructing the FlowEmitter delivers OnSubscribe
// immediately, ported from rxui_rx/src/flow/create.rs.
func FlowCreate[T any](produce func(ctx context.Context, emitter FlowEmitter[T])) Flow[T] {
	return NewFlow(func(ctx context.Context, destination FlowSubscriber[T]) {
		emitter := NewFlowEmitter[T](ctx, destination)
		produce(ctx, emitter)
	})
}

// FlowFromSlice builds a Flow[T] that emits each element of items on
// demand: it never emits more than has been requested, suspending via
// Await between batches so a subscriber's incremental Request calls are
// honored without emitting ahead of them, however long the subscriber
// takes to issue the next Request.
func FlowFromSlice[T any](items []T) Flow[T] {
	return FlowCreate(func(ctx context.Context, emitter FlowEmitter[T]) {
		go func() {
			i := 0
			for i < len(items) {
				if emitter.IsCancelled() {
					return
				}
				n := emitter.Await(ctx)
				if n == 0 {
					return
				}
				for ; n > 0 && i < len(items); n-- {
					if emitter.IsCancelled() {
						return
					}
					emitter.OnNext(items[i])
					i++
				}
			}
			if !emitter.IsCancelled() {
				emitter.OnCompleted()
			}
		}()
	})
}
