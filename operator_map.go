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

// Map returns an operator that transforms every item of an Observable[T]
// through f, preserving whichever of Error/Completed it terminates with. Go
// forbids a method from introducing its own type parameters, so — as in
// samber/ro's operator_math.go — operators here are plain pipeable
// functions rather than interface methods.
func Map[T, R any](f func(T) R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservable(func(ctx context.Context, destination Subscriber[R]) {
			source.SubscribeWithContext(ctx, mapObserver[T, R]{destination: destination, f: f})
		})
	}
}

type mapObserver[T, R any] struct {
	destination Subscriber[R]
	f           func(T) R
}

func (m mapObserver[T, R]) OnSubscribe(token Cancellable) {
	m.OnSubscribeWithContext(context.Background(), token)
}
func (m mapObserver[T, R]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	m.destination.OnSubscribeWithContext(ctx, token)
}
func (m mapObserver[T, R]) OnNext(item T) { m.OnNextWithContext(context.Background(), item) }
func (m mapObserver[T, R]) OnNextWithContext(ctx context.Context, item T) {
	m.destination.OnNextWithContext(ctx, m.f(item))
}
func (m mapObserver[T, R]) OnError(err error) { m.OnErrorWithContext(context.Background(), err) }
func (m mapObserver[T, R]) OnErrorWithContext(ctx context.Context, err error) {
	m.destination.OnErrorWithContext(ctx, err)
}
func (m mapObserver[T, R]) OnCompleted() { m.OnCompletedWithContext(context.Background()) }
func (m mapObserver[T, R]) OnCompletedWithContext(ctx context.Context) {
	m.destination.OnCompletedWithContext(ctx)
}
func (m mapObserver[T, R]) IsClosed() bool    { return m.destination.IsClosed() }
func (m mapObserver[T, R]) HasThrown() bool   { return m.destination.HasThrown() }
func (m mapObserver[T, R]) IsCompleted() bool { return m.destination.IsCompleted() }

// FlowMap is Map's Flow counterpart: demand is forwarded upstream
// unchanged, since mapping one item to one item never changes how much the
// downstream has to wait for.
func FlowMap[T, R any](f func(T) R) func(Flow[T]) Flow[R] {
	return func(source Flow[T]) Flow[R] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[R]) {
			source.SubscribeWithContext(ctx, flowMapObserver[T, R]{destination: destination, f: f})
		})
	}
}

type flowMapObserver[T, R any] struct {
	destination FlowSubscriber[R]
	f           func(T) R
}

func (m flowMapObserver[T, R]) OnSubscribe(token Cancellable) {
	m.OnSubscribeWithContext(context.Background(), token)
}
func (m flowMapObserver[T, R]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	m.destination.OnSubscribeWithContext(ctx, token)
}
func (m flowMapObserver[T, R]) OnNext(item T) { m.OnNextWithContext(context.Background(), item) }
func (m flowMapObserver[T, R]) OnNextWithContext(ctx context.Context, item T) {
	m.destination.OnNextWithContext(ctx, m.f(item))
}
func (m flowMapObserver[T, R]) OnError(err error) { m.OnErrorWithContext(context.Background(), err) }
func (m flowMapObserver[T, R]) OnErrorWithContext(ctx context.Context, err error) {
	m.destination.OnErrorWithContext(ctx, err)
}
func (m flowMapObserver[T, R]) OnCompleted() { m.OnCompletedWithContext(context.Background()) }
func (m flowMapObserver[T, R]) OnCompletedWithContext(ctx context.Context) {
	m.destination.OnCompletedWithContext(ctx)
}
func (m flowMapObserver[T, R]) IsClosed() bool    { return m.destination.IsClosed() }
func (m flowMapObserver[T, R]) HasThrown() bool   { return m.destination.HasThrown() }
func (m flowMapObserver[T, R]) IsCompleted() bool { return m.destination.IsCompleted() }
