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

	"github.com/arrowstream/rx/internal/xsync"
)

// Subscriber is the Observable analogue of FlowSubscriber: it implements
// both Cancellable and Observer[T], so every Observable operator gets
// Cancel/IsCancelled plumbing for free when it wraps its destination.
type Subscriber[T any] interface {
	Cancellable
	Observer[T]
}

var _ Subscriber[int] = (*subscriberImpl[int])(nil)

// NewSubscriber wraps destination in a Subscriber using ConcurrencyModeSafe.
// If destination is already a Subscriber, it is returned unchanged.
func NewSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeSafe)
}

// NewUnsafeSubscriber wraps destination using ConcurrencyModeUnsafe.
func NewUnsafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeUnsafe)
}

// NewEventuallySafeSubscriber wraps destination using
// ConcurrencyModeEventuallySafe.
func NewEventuallySafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeEventuallySafe)
}

// NewSubscriberWithConcurrencyMode wraps destination in a Subscriber using
// the given ConcurrencyMode. ConcurrencyModeSingleProducer is rejected: it
// only makes sense for FlowSubscriber, where a single producer also implies
// a single caller of Request.
func NewSubscriberWithConcurrencyMode[T any](destination Observer[T], mode ConcurrencyMode) Subscriber[T] {
	if subscriber, ok := destination.(Subscriber[T]); ok {
		return subscriber
	}

	switch mode {
	case ConcurrencyModeSafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureBlock, destination)
	case ConcurrencyModeUnsafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithoutLock(), BackpressureBlock, destination)
	case ConcurrencyModeEventuallySafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureDrop, destination)
	default:
		panic("rx: invalid concurrency mode for Subscriber")
	}
}

func newSubscriberImpl[T any](mode ConcurrencyMode, mu xsync.Mutex, backpressure Backpressure, destination Observer[T]) Subscriber[T] {
	subscriber := &subscriberImpl[T]{
		backpressure: backpressure,
		mu:           mu,
		destination:  destination,
		mode:         mode,
	}
	subscriber.Cancellable = NewCancellable()

	if downstream, ok := destination.(Cancellable); ok {
		downstream.AddTeardown(subscriber.Cancel)
	}

	return subscriber
}

type subscriberImpl[T any] struct {
	status       int32
	backpressure Backpressure

	mu          xsync.Mutex
	destination Observer[T]

	Cancellable

	mode ConcurrencyMode
}

func (s *subscriberImpl[T]) OnSubscribe(token Cancellable) {
	s.OnSubscribeWithContext(context.Background(), token)
}

func (s *subscriberImpl[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	if token != nil {
		s.AddTeardown(token.Cancel)
	}
	if s.destination != nil {
		s.destination.OnSubscribeWithContext(ctx, s)
	}
}

func (s *subscriberImpl[T]) OnNext(item T) {
	s.OnNextWithContext(context.Background(), item)
}

func (s *subscriberImpl[T]) OnNextWithContext(ctx context.Context, item T) {
	if s.destination == nil {
		return
	}

	if s.backpressure == BackpressureDrop {
		if !s.mu.TryLock() {
			OnDroppedNotification(ctx, ItemSignal(item))
			return
		}
	} else {
		s.mu.Lock()
	}

	if atomic.LoadInt32(&s.status) != observerStatusActive {
		s.mu.Unlock()
		OnDroppedNotification(ctx, ItemSignal(item))
		return
	}

	s.destination.OnNextWithContext(ctx, item)
	s.mu.Unlock()
}

func (s *subscriberImpl[T]) OnError(err error) {
	s.OnErrorWithContext(context.Background(), err)
}

func (s *subscriberImpl[T]) OnErrorWithContext(ctx context.Context, err error) {
	s.mu.Lock()
	if !atomic.CompareAndSwapInt32(&s.status, observerStatusActive, observerStatusErrored) {
		s.mu.Unlock()
		OnDroppedNotification(ctx, ErrorSignal[T](err))
		s.Cancel()
		return
	}
	if s.destination != nil {
		s.destination.OnErrorWithContext(ctx, err)
	}
	s.mu.Unlock()

	s.Cancel()
}

func (s *subscriberImpl[T]) OnCompleted() {
	s.OnCompletedWithContext(context.Background())
}

func (s *subscriberImpl[T]) OnCompletedWithContext(ctx context.Context) {
	s.mu.Lock()
	if !atomic.CompareAndSwapInt32(&s.status, observerStatusActive, observerStatusCompleted) {
		s.mu.Unlock()
		OnDroppedNotification(ctx, CompletedSignal[T]())
		s.Cancel()
		return
	}
	if s.destination != nil {
		s.destination.OnCompletedWithContext(ctx)
	}
	s.mu.Unlock()

	s.Cancel()
}

func (s *subscriberImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.status) != observerStatusActive
}

func (s *subscriberImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&s.status) == observerStatusErrored
}

func (s *subscriberImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&s.status) == observerStatusCompleted
}
