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
	"sync/atomic"

	"github.com/samber/lo"
)

type observerPanicCaptureDisabledKeyType struct{}

var observerPanicCaptureDisabledKey = observerPanicCaptureDisabledKeyType{}

// WithObserverPanicCaptureDisabled returns a context under which a sink's
// panics are not recovered into OnError, but propagate to the caller. Useful
// on latency-sensitive pipelines where the cost of lo.TryCatchWithErrorValue
// is unwanted and panics should crash loudly instead.
func WithObserverPanicCaptureDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, observerPanicCaptureDisabledKey, true)
}

func isObserverPanicCaptureDisabled(ctx context.Context) bool {
	disabled, _ := ctx.Value(observerPanicCaptureDisabledKey).(bool)
	return disabled
}

// Observer is the sink contract for an Observable: unbounded push, no
// backpressure. Every well-formed sequence delivered to an Observer matches
// Subscribe · Item* · (Error|Completed)?.
type Observer[T any] interface {
	// OnSubscribe is called exactly once, before any other method, with the
	// Cancellable the observer may use to stop the sequence early.
	OnSubscribe(token Cancellable)
	OnSubscribeWithContext(ctx context.Context, token Cancellable)

	// OnNext delivers one item. Never called after OnError or OnCompleted.
	OnNext(item T)
	OnNextWithContext(ctx context.Context, item T)

	// OnError delivers a terminal error. Called at most once, never after
	// OnCompleted.
	OnError(err error)
	OnErrorWithContext(ctx context.Context, err error)

	// OnCompleted delivers terminal completion. Called at most once, never
	// after OnError.
	OnCompleted()
	OnCompletedWithContext(ctx context.Context)

	// IsClosed reports whether OnError or OnCompleted has already fired.
	IsClosed() bool
	// HasThrown reports whether OnError has already fired.
	HasThrown() bool
	// IsCompleted reports whether OnCompleted has already fired.
	IsCompleted() bool
}

const (
	observerStatusActive int32 = iota
	observerStatusErrored
	observerStatusCompleted
)

var _ Observer[int] = (*observerImpl[int])(nil)

// NewObserver builds an Observer[T] from the given partial callbacks. Any nil
// callback is treated as a no-op. A panic raised from onNext is recovered and
// delivered as a terminal OnError to onError, falling back to
// OnUnhandledError only when no onError was supplied; a panic raised from
// onSubscribe, onError or onCompleted is recovered straight to
// OnUnhandledError. Recovery is skipped entirely when the context carries
// WithObserverPanicCaptureDisabled.
func NewObserver[T any](
	onSubscribe func(context.Context, Cancellable),
	onNext func(context.Context, T),
	onError func(context.Context, error),
	onCompleted func(context.Context),
) Observer[T] {
	return newObserverImpl(onSubscribe, onNext, onError, onCompleted, true)
}

// NewUnsafeObserver is like NewObserver but never recovers panics raised from
// the callbacks; they propagate to the caller of OnNext/OnError/OnCompleted.
func NewUnsafeObserver[T any](
	onSubscribe func(context.Context, Cancellable),
	onNext func(context.Context, T),
	onError func(context.Context, error),
	onCompleted func(context.Context),
) Observer[T] {
	return newObserverImpl(onSubscribe, onNext, onError, onCompleted, false)
}

func newObserverImpl[T any](
	onSubscribe func(context.Context, Cancellable),
	onNext func(context.Context, T),
	onError func(context.Context, error),
	onCompleted func(context.Context),
	capturePanics bool,
) *observerImpl[T] {
	hasOnError := onError != nil

	if onSubscribe == nil {
		onSubscribe = func(context.Context, Cancellable) {}
	}
	if onNext == nil {
		onNext = func(context.Context, T) {}
	}
	if onError == nil {
		onError = func(ctx context.Context, err error) { OnUnhandledError(ctx, err) }
	}
	if onCompleted == nil {
		onCompleted = func(context.Context) {}
	}
	return &observerImpl[T]{
		onSubscribe:   onSubscribe,
		onNext:        onNext,
		onError:       onError,
		onComplete:    onCompleted,
		capturePanics: capturePanics,
		hasOnError:    hasOnError,
	}
}

type observerImpl[T any] struct {
	status        int32
	capturePanics bool
	hasOnError    bool
	onSubscribe   func(context.Context, Cancellable)
	onNext        func(context.Context, T)
	onError       func(context.Context, error)
	onComplete    func(context.Context)
}

func (o *observerImpl[T]) OnSubscribe(token Cancellable) {
	o.OnSubscribeWithContext(context.Background(), token)
}

func (o *observerImpl[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	o.tryCall(ctx, func() { o.onSubscribe(ctx, token) })
}

func (o *observerImpl[T]) OnNext(item T) {
	o.OnNextWithContext(context.Background(), item)
}

func (o *observerImpl[T]) OnNextWithContext(ctx context.Context, item T) {
	if o.IsClosed() {
		OnDroppedNotification(ctx, ItemSignal(item))
		return
	}
	o.tryNext(ctx, item)
}

func (o *observerImpl[T]) OnError(err error) {
	o.OnErrorWithContext(context.Background(), err)
}

func (o *observerImpl[T]) OnErrorWithContext(ctx context.Context, err error) {
	if !atomic.CompareAndSwapInt32(&o.status, observerStatusActive, observerStatusErrored) {
		OnDroppedNotification(ctx, ErrorSignal[T](err))
		return
	}
	o.tryCall(ctx, func() { o.onError(ctx, err) })
}

func (o *observerImpl[T]) OnCompleted() {
	o.OnCompletedWithContext(context.Background())
}

func (o *observerImpl[T]) OnCompletedWithContext(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&o.status, observerStatusActive, observerStatusCompleted) {
		OnDroppedNotification(ctx, CompletedSignal[T]())
		return
	}
	o.tryCall(ctx, func() { o.onComplete(ctx) })
}

func (o *observerImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&o.status) != observerStatusActive
}

func (o *observerImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&o.status) == observerStatusErrored
}

func (o *observerImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&o.status) == observerStatusCompleted
}

func (o *observerImpl[T]) tryCall(ctx context.Context, fn func()) {
	if !o.capturePanics || isObserverPanicCaptureDisabled(ctx) {
		fn()
		return
	}
	lo.TryCatchWithErrorValue(
		func() error {
			fn()
			return nil
		},
		func(e any) {
			OnUnhandledError(ctx, newSinkError(recoverValueToError(e)))
		},
	)
}

// tryNext invokes onNext, recovering a panic into a terminal OnError when a
// real onError callback was supplied, falling back to OnUnhandledError only
// when none was.
func (o *observerImpl[T]) tryNext(ctx context.Context, item T) {
	if !o.capturePanics || isObserverPanicCaptureDisabled(ctx) {
		o.onNext(ctx, item)
		return
	}
	lo.TryCatchWithErrorValue(
		func() error {
			o.onNext(ctx, item)
			return nil
		},
		func(e any) {
			err := newSinkError(recoverValueToError(e))
			if !o.hasOnError {
				OnUnhandledError(ctx, err)
				return
			}
			o.OnErrorWithContext(ctx, err)
		},
	)
}

// NoopObserver returns an Observer[T] that discards every event.
func NoopObserver[T any]() Observer[T] {
	return NewObserver[T](nil, nil, nil, nil)
}
