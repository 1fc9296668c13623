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
	"sync"
)

// WithDroppedNotification temporarily overrides the package's dropped-signal
// hook for the duration of fn, restoring the previous handler afterwards
// even if fn panics. Tests that assert on OnDroppedNotification traffic
// (e.g. a terminal event delivered to an already-closed sink) should use
// this instead of calling SetOnDroppedNotification directly, since the
// hook is process-global and concurrent tests would otherwise race on it.
func WithDroppedNotification(handler func(ctx context.Context, signal fmt.Stringer), fn func()) {
	droppedNotificationMu.Lock()
	defer droppedNotificationMu.Unlock()

	prev := GetOnDroppedNotification()
	SetOnDroppedNotification(handler)
	defer SetOnDroppedNotification(prev)

	fn()
}

// WithUnhandledError is WithDroppedNotification's counterpart for the
// unhandled-error hook.
func WithUnhandledError(handler func(ctx context.Context, err error), fn func()) {
	unhandledErrorMu.Lock()
	defer unhandledErrorMu.Unlock()

	prev := GetOnUnhandledError()
	SetOnUnhandledError(handler)
	defer SetOnUnhandledError(prev)

	fn()
}

var (
	droppedNotificationMu sync.Mutex
	unhandledErrorMu      sync.Mutex
)

// ObserverStatus describes where a TestObserver currently sits in the
// Subscribe · Item* · (Error|Completed)? protocol.
type ObserverStatus uint8

const (
	ObserverStatusUnsubscribed ObserverStatus = iota
	ObserverStatusSubscribed
	ObserverStatusError
	ObserverStatusCompleted
	ObserverStatusCancelled
)

// String implements fmt.Stringer.
func (s ObserverStatus) String() string {
	switch s {
	case ObserverStatusUnsubscribed:
		return "Unsubscribed"
	case ObserverStatusSubscribed:
		return "Subscribed"
	case ObserverStatusError:
		return "Error"
	case ObserverStatusCompleted:
		return "Completed"
	case ObserverStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// TestObserver is an Observer[T] that records every event it receives so
// tests can assert on the resulting sequence, grounded on
// rxui_rx/src/util/shared/test_observer.rs's TestObserver. Safe for
// concurrent use: a producer emitting from multiple goroutines (as
// ConcurrencyModeSafe allows) can be asserted on from the test goroutine
// without an external lock.
type TestObserver[T any] struct {
	mu        sync.Mutex
	token     Cancellable
	items     []T
	err       error
	completed bool
	cancelled bool
}

var _ Observer[int] = (*TestObserver[int])(nil)

// NewTestObserver builds an empty TestObserver[T].
func NewTestObserver[T any]() *TestObserver[T] {
	return &TestObserver[T]{}
}

func (o *TestObserver[T]) OnSubscribe(token Cancellable) {
	o.OnSubscribeWithContext(context.Background(), token)
}

func (o *TestObserver[T]) OnSubscribeWithContext(_ context.Context, token Cancellable) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.token = token
}

func (o *TestObserver[T]) OnNext(item T) {
	o.OnNextWithContext(context.Background(), item)
}

func (o *TestObserver[T]) OnNextWithContext(_ context.Context, item T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, item)
}

func (o *TestObserver[T]) OnError(err error) {
	o.OnErrorWithContext(context.Background(), err)
}

func (o *TestObserver[T]) OnErrorWithContext(_ context.Context, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *TestObserver[T]) OnCompleted() {
	o.OnCompletedWithContext(context.Background())
}

func (o *TestObserver[T]) OnCompletedWithContext(_ context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = true
}

func (o *TestObserver[T]) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err != nil || o.completed
}

func (o *TestObserver[T]) HasThrown() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err != nil
}

func (o *TestObserver[T]) IsCompleted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completed
}

// Items returns a copy of every item delivered so far.
func (o *TestObserver[T]) Items() []T {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]T, len(o.items))
	copy(out, o.items)
	return out
}

// Err returns the terminal error delivered, if any.
func (o *TestObserver[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Status reports where the observer currently sits in the event protocol.
func (o *TestObserver[T]) Status() ObserverStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case o.cancelled:
		return ObserverStatusCancelled
	case o.token == nil:
		return ObserverStatusUnsubscribed
	case o.err != nil:
		return ObserverStatusError
	case o.completed:
		return ObserverStatusCompleted
	default:
		return ObserverStatusSubscribed
	}
}

// Cancel cancels the upstream Cancellable this observer was given via
// OnSubscribe. It panics if the observer has not yet been subscribed.
func (o *TestObserver[T]) Cancel() {
	o.mu.Lock()
	token := o.token
	o.mu.Unlock()
	if token == nil {
		panic("rx: TestObserver.Cancel called before OnSubscribe")
	}
	token.Cancel()
	o.mu.Lock()
	o.cancelled = true
	o.mu.Unlock()
}

// TestFlowSubscriber is TestObserver's Flow counterpart: it also records the
// Subscription so tests can drive Request calls directly.
type TestFlowSubscriber[T any] struct {
	TestObserver[T]

	subMu sync.Mutex
	sub   Subscription
}

var _ Observer[int] = (*TestFlowSubscriber[int])(nil)

// NewTestFlowSubscriber builds an empty TestFlowSubscriber[T].
func NewTestFlowSubscriber[T any]() *TestFlowSubscriber[T] {
	return &TestFlowSubscriber[T]{}
}

func (o *TestFlowSubscriber[T]) OnSubscribe(token Cancellable) {
	o.OnSubscribeWithContext(context.Background(), token)
}

func (o *TestFlowSubscriber[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	o.TestObserver.OnSubscribeWithContext(ctx, token)
	if sub, ok := token.(Subscription); ok {
		o.subMu.Lock()
		o.sub = sub
		o.subMu.Unlock()
	}
}

// Request calls Request(n) on the Subscription delivered via OnSubscribe. It
// panics if the subscriber has not yet been subscribed.
func (o *TestFlowSubscriber[T]) Request(n uint64) {
	o.subMu.Lock()
	sub := o.sub
	o.subMu.Unlock()
	if sub == nil {
		panic("rx: TestFlowSubscriber.Request called before OnSubscribe")
	}
	sub.Request(n)
}
