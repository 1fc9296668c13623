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

	"github.com/samber/lo"
)

// Flow is the backpressure-aware counterpart of Observable: a subscriber
// must call Request(n) on the Subscription it receives via OnSubscribe
// before the source is allowed to deliver more than n further items.
type Flow[T any] interface {
	// Subscribe attaches destination and returns the Subscription delivered
	// to it via OnSubscribe.
	Subscribe(destination Observer[T]) Subscription
	SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription
}

var _ Flow[int] = (*flowImpl[int])(nil)

// FlowSubscribeFunc is the producer function a Flow wraps: given a
// FlowSubscriber, it must perform (or schedule) delivery of OnSubscribe
// followed by at most as many OnNext calls as have been requested, followed
// by at most one of OnError/OnCompleted.
type FlowSubscribeFunc[T any] func(ctx context.Context, destination FlowSubscriber[T])

// NewFlow builds a Flow[T] from a subscribe function, using
// ConcurrencyModeSafe.
func NewFlow[T any](subscribe FlowSubscribeFunc[T]) Flow[T] {
	return NewFlowWithConcurrencyMode(subscribe, ConcurrencyModeSafe)
}

// NewUnsafeFlow builds a Flow[T] using ConcurrencyModeUnsafe.
func NewUnsafeFlow[T any](subscribe FlowSubscribeFunc[T]) Flow[T] {
	return NewFlowWithConcurrencyMode(subscribe, ConcurrencyModeUnsafe)
}

// NewEventuallySafeFlow builds a Flow[T] using
// ConcurrencyModeEventuallySafe.
func NewEventuallySafeFlow[T any](subscribe FlowSubscribeFunc[T]) Flow[T] {
	return NewFlowWithConcurrencyMode(subscribe, ConcurrencyModeEventuallySafe)
}

// NewSingleProducerFlow builds a Flow[T] using
// ConcurrencyModeSingleProducer.
func NewSingleProducerFlow[T any](subscribe FlowSubscribeFunc[T]) Flow[T] {
	return NewFlowWithConcurrencyMode(subscribe, ConcurrencyModeSingleProducer)
}

// NewFlowWithConcurrencyMode builds a Flow[T] from a subscribe function,
// using the given ConcurrencyMode to guard its destination.
func NewFlowWithConcurrencyMode[T any](subscribe FlowSubscribeFunc[T], mode ConcurrencyMode) Flow[T] {
	if subscribe == nil {
		subscribe = func(context.Context, FlowSubscriber[T]) {}
	}
	return &flowImpl[T]{mode: mode, subscribe: subscribe}
}

type flowImpl[T any] struct {
	mode      ConcurrencyMode
	subscribe FlowSubscribeFunc[T]
}

func (f *flowImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return f.SubscribeWithContext(context.Background(), destination)
}

func (f *flowImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	subscriber := NewFlowSubscriberWithConcurrencyMode(destination, f.mode)

	lo.TryCatchWithErrorValue(
		func() error {
			f.subscribe(ctx, subscriber)
			return nil
		},
		func(e any) {
			subscriber.OnErrorWithContext(ctx, newObservableError(recoverValueToError(e)))
			subscriber.Cancel()
		},
	)

	return subscriber
}

// FlowSubscribeNext subscribes a partial Observer built only from onNext,
// requesting unbounded demand (math.MaxUint64) immediately so the sequence
// behaves like an Observable for callers that don't care about backpressure.
func FlowSubscribeNext[T any](source Flow[T], onNext func(T)) Subscription {
	sub := source.Subscribe(NewObserver[T](nil, func(_ context.Context, v T) { onNext(v) }, nil, nil))
	sub.Request(^uint64(0))
	return sub
}
