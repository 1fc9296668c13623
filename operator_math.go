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
	"math"

	"github.com/arrowstream/rx/internal/constraints"
)

// Sum accumulates every value emitted by source and emits the running total
// once, when source completes.
func Sum[T constraints.Numeric]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
			var sum T
			source.SubscribeWithContext(ctx, NewObserver[T](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, v T) { sum += v },
				destination.OnErrorWithContext,
				func(c context.Context) {
					destination.OnNextWithContext(c, sum)
					destination.OnCompletedWithContext(c)
				},
			))
		})
	}
}

// FlowSum is Sum's Flow counterpart: it requests unbounded demand from
// upstream (the running total can only be known once every item has been
// seen) and emits the sum once the downstream has requested at least one
// item and upstream completes.
func FlowSum[T constraints.Numeric]() func(Flow[T]) Flow[T] {
	return func(source Flow[T]) Flow[T] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[T]) {
			var sum T
			sub := source.SubscribeWithContext(ctx, NewObserver[T](
				nil,
				func(c context.Context, v T) { sum += v },
				destination.OnErrorWithContext,
				func(c context.Context) {
					destination.OnNextWithContext(c, sum)
					destination.OnCompletedWithContext(c)
				},
			))
			destination.OnSubscribeWithContext(ctx, NewSubscription(func(n uint64) { sub.Request(^uint64(0)) }))
		})
	}
}

// Count emits the number of values source emitted, once source completes.
func Count[T any]() func(Observable[T]) Observable[int64] {
	return func(source Observable[T]) Observable[int64] {
		return NewObservable(func(ctx context.Context, destination Subscriber[int64]) {
			var count int64
			source.SubscribeWithContext(ctx, NewObserver[T](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, v T) { count++ },
				destination.OnErrorWithContext,
				func(c context.Context) {
					destination.OnNextWithContext(c, count)
					destination.OnCompletedWithContext(c)
				},
			))
		})
	}
}

// Average emits the arithmetic mean of every value source emitted, once
// source completes. If source completes without emitting anything, Average
// emits math.NaN().
func Average[T constraints.Numeric]() func(Observable[T]) Observable[float64] {
	return func(source Observable[T]) Observable[float64] {
		return NewObservable(func(ctx context.Context, destination Subscriber[float64]) {
			var sum float64
			var count int64
			source.SubscribeWithContext(ctx, NewObserver[T](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, v T) {
					sum += float64(v)
					count++
				},
				destination.OnErrorWithContext,
				func(c context.Context) {
					if count == 0 {
						destination.OnNextWithContext(c, math.NaN())
					} else {
						destination.OnNextWithContext(c, sum/float64(count))
					}
					destination.OnCompletedWithContext(c)
				},
			))
		})
	}
}

// Min emits the smallest value source emitted, once source completes. If
// source completes empty, Min emits nothing.
func Min[T constraints.Numeric]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
			var min T
			seen := false
			source.SubscribeWithContext(ctx, NewObserver[T](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, v T) {
					if !seen || v < min {
						min = v
						seen = true
					}
				},
				destination.OnErrorWithContext,
				func(c context.Context) {
					if seen {
						destination.OnNextWithContext(c, min)
					}
					destination.OnCompletedWithContext(c)
				},
			))
		})
	}
}

// Max emits the largest value source emitted, once source completes. If
// source completes empty, Max emits nothing.
func Max[T constraints.Numeric]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
			var max T
			seen := false
			source.SubscribeWithContext(ctx, NewObserver[T](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, v T) {
					if !seen || v > max {
						max = v
						seen = true
					}
				},
				destination.OnErrorWithContext,
				func(c context.Context) {
					if seen {
						destination.OnNextWithContext(c, max)
					}
					destination.OnCompletedWithContext(c)
				},
			))
		})
	}
}

// Clamp emits every value source emits, clamped to the inclusive [lower,
// upper] range. Panics with ErrClampLowerLessThanUpper if lower > upper.
func Clamp[T constraints.Numeric](lower, upper T) func(Observable[T]) Observable[T] {
	if lower > upper {
		panic(ErrClampLowerLessThanUpper)
	}
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Subscriber[T]) {
			source.SubscribeWithContext(ctx, NewObserver[T](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, v T) {
					switch {
					case v < lower:
						destination.OnNextWithContext(c, lower)
					case v > upper:
						destination.OnNextWithContext(c, upper)
					default:
						destination.OnNextWithContext(c, v)
					}
				},
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			))
		})
	}
}

// FlowClamp is Clamp's Flow counterpart: one item in, one item out, so it
// does not change the demand relationship between destination and source.
func FlowClamp[T constraints.Numeric](lower, upper T) func(Flow[T]) Flow[T] {
	if lower > upper {
		panic(ErrClampLowerLessThanUpper)
	}
	return func(source Flow[T]) Flow[T] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[T]) {
			source.SubscribeWithContext(ctx, flowClampObserver[T]{destination: destination, lower: lower, upper: upper})
		})
	}
}

type flowClampObserver[T constraints.Numeric] struct {
	destination FlowSubscriber[T]
	lower       T
	upper       T
}

func (o flowClampObserver[T]) OnSubscribe(token Cancellable) {
	o.OnSubscribeWithContext(context.Background(), token)
}
func (o flowClampObserver[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	o.destination.OnSubscribeWithContext(ctx, token)
}
func (o flowClampObserver[T]) OnNext(item T) { o.OnNextWithContext(context.Background(), item) }
func (o flowClampObserver[T]) OnNextWithContext(ctx context.Context, item T) {
	switch {
	case item < o.lower:
		o.destination.OnNextWithContext(ctx, o.lower)
	case item > o.upper:
		o.destination.OnNextWithContext(ctx, o.upper)
	default:
		o.destination.OnNextWithContext(ctx, item)
	}
}
func (o flowClampObserver[T]) OnError(err error) { o.OnErrorWithContext(context.Background(), err) }
func (o flowClampObserver[T]) OnErrorWithContext(ctx context.Context, err error) {
	o.destination.OnErrorWithContext(ctx, err)
}
func (o flowClampObserver[T]) OnCompleted() { o.OnCompletedWithContext(context.Background()) }
func (o flowClampObserver[T]) OnCompletedWithContext(ctx context.Context) {
	o.destination.OnCompletedWithContext(ctx)
}
func (o flowClampObserver[T]) IsClosed() bool    { return o.destination.IsClosed() }
func (o flowClampObserver[T]) HasThrown() bool   { return o.destination.HasThrown() }
func (o flowClampObserver[T]) IsCompleted() bool { return o.destination.IsCompleted() }

// Abs emits the absolute value of every float64 source emits.
func Abs() func(Observable[float64]) Observable[float64] {
	return func(source Observable[float64]) Observable[float64] {
		return NewObservable(func(ctx context.Context, destination Subscriber[float64]) {
			source.SubscribeWithContext(ctx, NewObserver[float64](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, v float64) { destination.OnNextWithContext(c, math.Abs(v)) },
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			))
		})
	}
}
