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

// SubscribeOn returns an operator that moves the upstream Subscribe call
// onto a worker of scheduler, while still returning a connection token to
// the caller synchronously. Ported from
// rxui_rx/src/operators/observable/subscribe_on.rs: actual_subscribe there
// schedules `observable.actual_subscribe(observer)` on the worker and
// returns immediately.
//
// The synchronous return is the destination Subscriber that Subscribe
// always returns, not a LazyCancellable. A Cancel made before the scheduled
// Subscribe runs leaves the destination cancelled, so the upstream then
// subscribes into an already-cancelled destination and every teardown it
// registers runs at once. The token the upstream Subscribe returns is bound
// to an internal LazyCancellable, which cancelling the destination forwards
// to.
func SubscribeOn[T any](scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
			lazy, setUpstream := newLazyCancellableStub()
			destination.AddTeardown(lazy.Cancel)

			worker := scheduler.Worker()
			worker.Schedule(func() {
				upstream := source.SubscribeWithContext(ctx, destination)
				setUpstream(upstream)
			})
		})
	}
}

// FlowSubscribeOn is SubscribeOn's Flow counterpart.
func FlowSubscribeOn[T any](scheduler Scheduler) func(Flow[T]) Flow[T] {
	return func(source Flow[T]) Flow[T] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[T]) {
			lazy, setUpstream := newLazyCancellableStub()
			destination.AddTeardown(lazy.Cancel)

			worker := scheduler.Worker()
			worker.Schedule(func() {
				upstream := source.SubscribeWithContext(ctx, destination)
				setUpstream(upstream)
			})
		})
	}
}
