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
	"fmt"

	"github.com/samber/lo"
)

// Observable is an unbounded, push-based sequence of T: subscribing begins
// delivery immediately, with no mechanism for a subscriber to slow down the
// producer. Use Flow when the consumer needs to bound how fast it is fed.
type Observable[T any] interface {
	// Subscribe attaches destination and returns the Cancellable token
	// delivered to it via OnSubscribe.
	Subscribe(destination Observer[T]) Cancellable
	SubscribeWithContext(ctx context.Context, destination Observer[T]) Cancellable
}

var _ Observable[int] = (*observableImpl[int])(nil)

// SubscribeFunc is the producer function an Observable wraps: given a
// Subscriber, it must perform (or schedule) delivery of OnSubscribe followed
// by zero or more OnNext, followed by at most one of OnError/OnCompleted.
type SubscribeFunc[T any] func(ctx context.Context, destination Subscriber[T])

// NewObservable builds an Observable[T] from a subscribe function, using
// ConcurrencyModeSafe.
func NewObservable[T any](subscribe SubscribeFunc[T]) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeSafe)
}

// NewUnsafeObservable builds an Observable[T] using ConcurrencyModeUnsafe.
func NewUnsafeObservable[T any](subscribe SubscribeFunc[T]) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeUnsafe)
}

// NewEventuallySafeObservable builds an Observable[T] using
// ConcurrencyModeEventuallySafe.
func NewEventuallySafeObservable[T any](subscribe SubscribeFunc[T]) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeEventuallySafe)
}

// NewObservableWithConcurrencyMode builds an Observable[T] from a subscribe
// function, using the given ConcurrencyMode to guard its destination.
func NewObservableWithConcurrencyMode[T any](subscribe SubscribeFunc[T], mode ConcurrencyMode) Observable[T] {
	if subscribe == nil {
		subscribe = func(context.Context, Subscriber[T]) {}
	}
	return &observableImpl[T]{mode: mode, subscribe: subscribe}
}

type observableImpl[T any] struct {
	mode      ConcurrencyMode
	subscribe SubscribeFunc[T]
}

func (o *observableImpl[T]) Subscribe(destination Observer[T]) Cancellable {
	return o.SubscribeWithContext(context.Background(), destination)
}

func (o *observableImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Cancellable {
	subscriber := NewSubscriberWithConcurrencyMode(destination, o.mode)

	lo.TryCatchWithErrorValue(
		func() error {
			o.subscribe(ctx, subscriber)
			return nil
		},
		func(e any) {
			subscriber.OnErrorWithContext(ctx, newObservableError(recoverValueToError(e)))
			subscriber.Cancel()
		},
	)

	return subscriber
}

// SubscribeNext subscribes a partial Observer built only from onNext,
// returning the Cancellable delivered to it via OnSubscribe. Any error
// reaching the sequence is routed to OnUnhandledError since no error
// callback was supplied.
func SubscribeNext[T any](source Observable[T], onNext func(T)) Cancellable {
	return source.Subscribe(NewObserver[T](nil, func(_ context.Context, v T) { onNext(v) }, nil, nil))
}

// SubscribeAll subscribes a partial Observer built from all three
// callbacks. Any nil callback is a no-op (onError still falls back to
// OnUnhandledError).
func SubscribeAll[T any](source Observable[T], onNext func(T), onError func(error), onCompleted func()) Cancellable {
	return source.Subscribe(NewObserver[T](
		nil,
		func(_ context.Context, v T) {
			if onNext != nil {
				onNext(v)
			}
		},
		func(_ context.Context, err error) {
			if onError != nil {
				onError(err)
			} else {
				OnUnhandledError(context.Background(), err)
			}
		},
		func(context.Context) {
			if onCompleted != nil {
				onCompleted()
			}
		},
	))
}

// Collect subscribes to source and blocks until it terminates, returning
// every item delivered along with the terminal error, if any.
func Collect[T any](source Observable[T]) ([]T, error) {
	return CollectWithContext(context.Background(), source)
}

// CollectWithContext is Collect with an explicit context.
func CollectWithContext[T any](ctx context.Context, source Observable[T]) ([]T, error) {
	done := make(chan struct{})
	var items []T
	var terminalErr error

	source.SubscribeWithContext(ctx, NewObserver[T](
		nil,
		func(_ context.Context, v T) { items = append(items, v) },
		func(_ context.Context, err error) {
			terminalErr = err
			close(done)
		},
		func(context.Context) { close(done) },
	))

	<-done
	return items, terminalErr
}

func newObservableError(err error) error {
	return fmt.Errorf("rx: observable error: %w", err)
}
