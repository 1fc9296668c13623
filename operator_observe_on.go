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

// ObserveOn returns an operator that hands delivery of each item to a
// worker of scheduler, so the downstream observer runs on the scheduler
// instead of whatever goroutine the source emits on.
//
// Each OnNext call and the OnCompleted call are scheduled on the worker as
// closures, in the order they arrive; events are not turned into Signal
// values, and no Materialize/Dematerialize stage is involved. A terminal error is delivered
// synchronously on the emitting goroutine instead of going through the
// scheduler, so an error can race ahead of items still queued for
// delivery — a deliberate simplification documented as an accepted
// trade-off rather than strengthened to a total order.
func ObserveOn[T any](scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
			worker := scheduler.Worker()
			destination.AddTeardown(worker.Cancel)

			source.SubscribeWithContext(ctx, observeOnObserver[T]{
				destination: destination,
				worker:      worker,
			})
		})
	}
}

type observeOnObserver[T any] struct {
	destination Subscriber[T]
	worker      Worker
}

func (o observeOnObserver[T]) OnSubscribe(token Cancellable) {
	o.OnSubscribeWithContext(context.Background(), token)
}
func (o observeOnObserver[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	o.destination.OnSubscribeWithContext(ctx, token)
}
func (o observeOnObserver[T]) OnNext(item T) { o.OnNextWithContext(context.Background(), item) }
func (o observeOnObserver[T]) OnNextWithContext(ctx context.Context, item T) {
	o.worker.Schedule(func() { o.destination.OnNextWithContext(ctx, item) })
}
func (o observeOnObserver[T]) OnError(err error) { o.OnErrorWithContext(context.Background(), err) }
func (o observeOnObserver[T]) OnErrorWithContext(ctx context.Context, err error) {
	// Delivered synchronously: errors bypass the scheduler so a failing
	// source terminates the sequence immediately rather than waiting behind
	// whatever items are still queued on the worker.
	o.destination.OnErrorWithContext(ctx, err)
}
func (o observeOnObserver[T]) OnCompleted() { o.OnCompletedWithContext(context.Background()) }
func (o observeOnObserver[T]) OnCompletedWithContext(ctx context.Context) {
	o.worker.Schedule(func() { o.destination.OnCompletedWithContext(ctx) })
}
func (o observeOnObserver[T]) IsClosed() bool    { return o.destination.IsClosed() }
func (o observeOnObserver[T]) HasThrown() bool   { return o.destination.HasThrown() }
func (o observeOnObserver[T]) IsCompleted() bool { return o.destination.IsCompleted() }

// FlowObserveOn is ObserveOn's Flow counterpart. Request calls are forwarded
// upstream directly, unaffected by the scheduler hand-off on the item path.
func FlowObserveOn[T any](scheduler Scheduler) func(Flow[T]) Flow[T] {
	return func(source Flow[T]) Flow[T] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[T]) {
			worker := scheduler.Worker()
			destination.AddTeardown(worker.Cancel)

			source.SubscribeWithContext(ctx, flowObserveOnObserver[T]{
				destination: destination,
				worker:      worker,
			})
		})
	}
}

type flowObserveOnObserver[T any] struct {
	destination FlowSubscriber[T]
	worker      Worker
}

func (o flowObserveOnObserver[T]) OnSubscribe(token Cancellable) {
	o.OnSubscribeWithContext(context.Background(), token)
}
func (o flowObserveOnObserver[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	o.destination.OnSubscribeWithContext(ctx, token)
}
func (o flowObserveOnObserver[T]) OnNext(item T) { o.OnNextWithContext(context.Background(), item) }
func (o flowObserveOnObserver[T]) OnNextWithContext(ctx context.Context, item T) {
	o.worker.Schedule(func() { o.destination.OnNextWithContext(ctx, item) })
}
func (o flowObserveOnObserver[T]) OnError(err error) { o.OnErrorWithContext(context.Background(), err) }
func (o flowObserveOnObserver[T]) OnErrorWithContext(ctx context.Context, err error) {
	o.destination.OnErrorWithContext(ctx, err)
}
func (o flowObserveOnObserver[T]) OnCompleted() { o.OnCompletedWithContext(context.Background()) }
func (o flowObserveOnObserver[T]) OnCompletedWithContext(ctx context.Context) {
	o.worker.Schedule(func() { o.destination.OnCompletedWithContext(ctx) })
}
func (o flowObserveOnObserver[T]) IsClosed() bool    { return o.destination.IsClosed() }
func (o flowObserveOnObserver[T]) HasThrown() bool   { return o.destination.HasThrown() }
func (o flowObserveOnObserver[T]) IsCompleted() bool { return o.destination.IsCompleted() }
