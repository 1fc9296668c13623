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

// Materialize converts every OnNext/OnError/OnCompleted call into a single
// Signal[T] item, so the whole data-plane protocol can travel through one
// typed channel. Materialize itself never calls
// OnError: the terminal Signal is delivered as one last item, then
// OnCompleted fires. Ported from kled/src/flow/operators/materialize.rs,
// simplified to three Signal variants since OnSubscribe is always forwarded
// directly rather than shuttled through the channel.
func Materialize[T any]() func(Observable[T]) Observable[Signal[T]] {
	return func(source Observable[T]) Observable[Signal[T]] {
		return NewObservable(func(ctx context.Context, destination Subscriber[Signal[T]]) {
			source.SubscribeWithContext(ctx, materializeObserver[T]{destination: destination})
		})
	}
}

type materializeObserver[T any] struct {
	destination Subscriber[Signal[T]]
}

func (m materializeObserver[T]) OnSubscribe(token Cancellable) {
	m.OnSubscribeWithContext(context.Background(), token)
}
func (m materializeObserver[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	m.destination.OnSubscribeWithContext(ctx, token)
}
func (m materializeObserver[T]) OnNext(item T) { m.OnNextWithContext(context.Background(), item) }
func (m materializeObserver[T]) OnNextWithContext(ctx context.Context, item T) {
	m.destination.OnNextWithContext(ctx, ItemSignal(item))
}
func (m materializeObserver[T]) OnError(err error) { m.OnErrorWithContext(context.Background(), err) }
func (m materializeObserver[T]) OnErrorWithContext(ctx context.Context, err error) {
	m.destination.OnNextWithContext(ctx, ErrorSignal[T](err))
	m.destination.OnCompletedWithContext(ctx)
}
func (m materializeObserver[T]) OnCompleted() { m.OnCompletedWithContext(context.Background()) }
func (m materializeObserver[T]) OnCompletedWithContext(ctx context.Context) {
	m.destination.OnNextWithContext(ctx, CompletedSignal[T]())
	m.destination.OnCompletedWithContext(ctx)
}
func (m materializeObserver[T]) IsClosed() bool    { return m.destination.IsClosed() }
func (m materializeObserver[T]) HasThrown() bool   { return m.destination.HasThrown() }
func (m materializeObserver[T]) IsCompleted() bool { return m.destination.IsCompleted() }

// FlowMaterialize is Materialize's Flow counterpart: demand is forwarded
// upstream unchanged, since one source notification still produces at most
// one Signal[T] item before any terminal OnCompleted that follows it.
func FlowMaterialize[T any]() func(Flow[T]) Flow[Signal[T]] {
	return func(source Flow[T]) Flow[Signal[T]] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[Signal[T]]) {
			source.SubscribeWithContext(ctx, flowMaterializeObserver[T]{destination: destination})
		})
	}
}

type flowMaterializeObserver[T any] struct {
	destination FlowSubscriber[Signal[T]]
}

func (m flowMaterializeObserver[T]) OnSubscribe(token Cancellable) {
	m.OnSubscribeWithContext(context.Background(), token)
}
func (m flowMaterializeObserver[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	m.destination.OnSubscribeWithContext(ctx, token)
}
func (m flowMaterializeObserver[T]) OnNext(item T) { m.OnNextWithContext(context.Background(), item) }
func (m flowMaterializeObserver[T]) OnNextWithContext(ctx context.Context, item T) {
	m.destination.OnNextWithContext(ctx, ItemSignal(item))
}
func (m flowMaterializeObserver[T]) OnError(err error) {
	m.OnErrorWithContext(context.Background(), err)
}
func (m flowMaterializeObserver[T]) OnErrorWithContext(ctx context.Context, err error) {
	m.destination.OnNextWithContext(ctx, ErrorSignal[T](err))
	m.destination.OnCompletedWithContext(ctx)
}
func (m flowMaterializeObserver[T]) OnCompleted() { m.OnCompletedWithContext(context.Background()) }
func (m flowMaterializeObserver[T]) OnCompletedWithContext(ctx context.Context) {
	m.destination.OnNextWithContext(ctx, CompletedSignal[T]())
	m.destination.OnCompletedWithContext(ctx)
}
func (m flowMaterializeObserver[T]) IsClosed() bool    { return m.destination.IsClosed() }
func (m flowMaterializeObserver[T]) HasThrown() bool   { return m.destination.HasThrown() }
func (m flowMaterializeObserver[T]) IsCompleted() bool { return m.destination.IsCompleted() }

// Dematerialize is Materialize's inverse: it replays each Signal[T] item as
// the OnNext/OnError/OnCompleted call it represents.
func Dematerialize[T any]() func(Observable[Signal[T]]) Observable[T] {
	return func(source Observable[Signal[T]]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
			source.SubscribeWithContext(ctx, dematerializeObserver[T]{destination: destination})
		})
	}
}

type dematerializeObserver[T any] struct {
	destination Subscriber[T]
}

func (d dematerializeObserver[T]) OnSubscribe(token Cancellable) {
	d.OnSubscribeWithContext(context.Background(), token)
}
func (d dematerializeObserver[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	d.destination.OnSubscribeWithContext(ctx, token)
}
func (d dematerializeObserver[T]) OnNext(signal Signal[T]) {
	d.OnNextWithContext(context.Background(), signal)
}
func (d dematerializeObserver[T]) OnNextWithContext(ctx context.Context, signal Signal[T]) {
	signal.Replay(
		func(item T) { d.destination.OnNextWithContext(ctx, item) },
		func(err error) { d.destination.OnErrorWithContext(ctx, err) },
		func() { d.destination.OnCompletedWithContext(ctx) },
	)
}
func (d dematerializeObserver[T]) OnError(err error) { d.OnErrorWithContext(context.Background(), err) }
func (d dematerializeObserver[T]) OnErrorWithContext(ctx context.Context, err error) {
	d.destination.OnErrorWithContext(ctx, err)
}
func (d dematerializeObserver[T]) OnCompleted() { d.OnCompletedWithContext(context.Background()) }
func (d dematerializeObserver[T]) OnCompletedWithContext(ctx context.Context) {
	d.destination.OnCompletedWithContext(ctx)
}
func (d dematerializeObserver[T]) IsClosed() bool    { return d.destination.IsClosed() }
func (d dematerializeObserver[T]) HasThrown() bool   { return d.destination.HasThrown() }
func (d dematerializeObserver[T]) IsCompleted() bool { return d.destination.IsCompleted() }
