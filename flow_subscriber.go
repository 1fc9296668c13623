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
	"sync"
	"sync/atomic"

	"github.com/arrowstream/rx/internal/xerrors"
	"github.com/arrowstream/rx/internal/xsync"
)

// Backpressure governs what FlowSubscriber does when a notification arrives
// while its internal lock is already held (only reachable under
// ConcurrencyModeEventuallySafe, since the other modes never contend).
type Backpressure int8

const (
	// BackpressureBlock waits for the lock: no notification is ever dropped.
	BackpressureBlock Backpressure = iota
	// BackpressureDrop gives up immediately and drops the notification,
	// reporting it via OnDroppedNotification.
	BackpressureDrop
)

// ConcurrencyMode selects the synchronization strategy a FlowSubscriber uses
// to guard calls into its destination Observer.
type ConcurrencyMode int8

const (
	// ConcurrencyModeSafe serializes all notifications behind a real mutex.
	// The correct default whenever more than one goroutine may deliver
	// events to the same subscriber.
	ConcurrencyModeSafe ConcurrencyMode = iota
	// ConcurrencyModeUnsafe performs no synchronization. Valid only when the
	// caller guarantees a single producer goroutine delivers all events.
	ConcurrencyModeUnsafe
	// ConcurrencyModeEventuallySafe uses a real mutex but drops a
	// notification instead of blocking when the lock is already held.
	ConcurrencyModeEventuallySafe
	// ConcurrencyModeSingleProducer is like Unsafe but skips the mutex
	// entirely, relying only on an atomic status check. Strictly faster than
	// Unsafe, at the cost of being valid only for a single producer.
	ConcurrencyModeSingleProducer
)

// FlowSubscriber implements Subscription and Observer: the Flow analogue of
// Subscriber. Every Flow operator converts its destination Observer into a
// FlowSubscriber in order to get Cancel/Request/IsCancelled plumbing for
// free. Request is a pass-through: whatever demand the downstream declares
// is forwarded verbatim to the upstream Subscription bound during
// OnSubscribe, the same indirection LazyCancellable uses for Cancel.
type FlowSubscriber[T any] interface {
	Subscription
	Observer[T]
}

var _ FlowSubscriber[int] = (*flowSubscriberImpl[int])(nil)

// NewFlowSubscriber wraps destination in a FlowSubscriber using
// ConcurrencyModeSafe. If destination is already a FlowSubscriber, it is
// returned unchanged.
func NewFlowSubscriber[T any](destination Observer[T]) FlowSubscriber[T] {
	return NewFlowSubscriberWithConcurrencyMode(destination, ConcurrencyModeSafe)
}

// NewUnsafeFlowSubscriber wraps destination using ConcurrencyModeUnsafe.
func NewUnsafeFlowSubscriber[T any](destination Observer[T]) FlowSubscriber[T] {
	return NewFlowSubscriberWithConcurrencyMode(destination, ConcurrencyModeUnsafe)
}

// NewEventuallySafeFlowSubscriber wraps destination using
// ConcurrencyModeEventuallySafe: safe, but a notification racing with
// another is dropped rather than blocked on.
func NewEventuallySafeFlowSubscriber[T any](destination Observer[T]) FlowSubscriber[T] {
	return NewFlowSubscriberWithConcurrencyMode(destination, ConcurrencyModeEventuallySafe)
}

// NewSingleProducerFlowSubscriber wraps destination using
// ConcurrencyModeSingleProducer: the fastest mode, valid only when a single
// goroutine produces all notifications.
func NewSingleProducerFlowSubscriber[T any](destination Observer[T]) FlowSubscriber[T] {
	return NewFlowSubscriberWithConcurrencyMode(destination, ConcurrencyModeSingleProducer)
}

// NewFlowSubscriberWithConcurrencyMode wraps destination in a FlowSubscriber
// using the given ConcurrencyMode.
func NewFlowSubscriberWithConcurrencyMode[T any](destination Observer[T], mode ConcurrencyMode) FlowSubscriber[T] {
	if subscriber, ok := destination.(FlowSubscriber[T]); ok {
		return subscriber
	}

	switch mode {
	case ConcurrencyModeSafe:
		return newFlowSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureBlock, destination, false)
	case ConcurrencyModeUnsafe:
		return newFlowSubscriberImpl(mode, xsync.NewMutexWithoutLock(), BackpressureBlock, destination, false)
	case ConcurrencyModeEventuallySafe:
		return newFlowSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureDrop, destination, false)
	case ConcurrencyModeSingleProducer:
		return newFlowSubscriberImpl(mode, nil, BackpressureBlock, destination, true)
	default:
		panic("rx: invalid concurrency mode")
	}
}

func newFlowSubscriberImpl[T any](mode ConcurrencyMode, mu xsync.Mutex, backpressure Backpressure, destination Observer[T], lockless bool) FlowSubscriber[T] {
	subscriber := &flowSubscriberImpl[T]{
		backpressure: backpressure,
		mu:           mu,
		destination:  destination,
		mode:         mode,
		lockless:     lockless,
	}

	if downstream, ok := destination.(Cancellable); ok {
		downstream.AddTeardown(subscriber.Cancel)
	}

	return subscriber
}

type flowSubscriberImpl[T any] struct {
	status       int32
	backpressure Backpressure

	mu          xsync.Mutex
	destination Observer[T]

	mode     ConcurrencyMode
	lockless bool

	bindMu        sync.Mutex
	cancelled     bool
	upstream      Subscription
	pendingDemand uint64
	finalizers    []Teardown
}

func (s *flowSubscriberImpl[T]) OnSubscribe(token Cancellable) {
	s.OnSubscribeWithContext(context.Background(), token)
}

func (s *flowSubscriberImpl[T]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	upstream, _ := token.(Subscription)

	s.bindMu.Lock()
	if s.cancelled {
		s.bindMu.Unlock()
		if token != nil {
			token.Cancel()
		}
		return
	}
	s.upstream = upstream
	pending := s.pendingDemand
	s.pendingDemand = 0
	s.bindMu.Unlock()

	if upstream != nil && pending > 0 {
		upstream.Request(pending)
	}

	if s.destination != nil {
		s.destination.OnSubscribeWithContext(ctx, s)
	}
}

func (s *flowSubscriberImpl[T]) OnNext(item T) {
	s.OnNextWithContext(context.Background(), item)
}

func (s *flowSubscriberImpl[T]) OnNextWithContext(ctx context.Context, item T) {
	if s.destination == nil {
		return
	}

	if s.lockless {
		if atomic.LoadInt32(&s.status) != observerStatusActive {
			OnDroppedNotification(ctx, ItemSignal(item))
			return
		}
		s.destination.OnNextWithContext(ctx, item)
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

func (s *flowSubscriberImpl[T]) OnError(err error) {
	s.OnErrorWithContext(context.Background(), err)
}

func (s *flowSubscriberImpl[T]) OnErrorWithContext(ctx context.Context, err error) {
	if s.lockless {
		if !atomic.CompareAndSwapInt32(&s.status, observerStatusActive, observerStatusErrored) {
			OnDroppedNotification(ctx, ErrorSignal[T](err))
			s.Cancel()
			return
		}
		if s.destination != nil {
			s.destination.OnErrorWithContext(ctx, err)
		}
		s.Cancel()
		return
	}

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

func (s *flowSubscriberImpl[T]) OnCompleted() {
	s.OnCompletedWithContext(context.Background())
}

func (s *flowSubscriberImpl[T]) OnCompletedWithContext(ctx context.Context) {
	if s.lockless {
		if !atomic.CompareAndSwapInt32(&s.status, observerStatusActive, observerStatusCompleted) {
			OnDroppedNotification(ctx, CompletedSignal[T]())
			s.Cancel()
			return
		}
		if s.destination != nil {
			s.destination.OnCompletedWithContext(ctx)
		}
		s.Cancel()
		return
	}

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

func (s *flowSubscriberImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.status) != observerStatusActive
}

func (s *flowSubscriberImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&s.status) == observerStatusErrored
}

func (s *flowSubscriberImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&s.status) == observerStatusCompleted
}

// Cancel disposes the subscriber: it runs local teardowns once and forwards
// the cancellation to the bound upstream Subscription, if any.
func (s *flowSubscriberImpl[T]) Cancel() {
	s.bindMu.Lock()
	if s.cancelled {
		s.bindMu.Unlock()
		return
	}
	s.cancelled = true
	upstream := s.upstream
	finalizers := s.finalizers
	s.finalizers = nil
	s.bindMu.Unlock()

	var errs []error
	for _, f := range finalizers {
		if err := execTeardown(f); err != nil {
			errs = append(errs, err)
		}
	}
	if upstream != nil {
		upstream.Cancel()
	}
	if len(errs) > 0 {
		panic(xerrors.Join(errs...))
	}
}

// IsCancelled reports whether Cancel has been called, directly or because
// the subscriber already reached a terminal Observer state.
func (s *flowSubscriberImpl[T]) IsCancelled() bool {
	s.bindMu.Lock()
	defer s.bindMu.Unlock()
	return s.cancelled
}

// AddTeardown registers teardown to run on Cancel.
func (s *flowSubscriberImpl[T]) AddTeardown(teardown Teardown) {
	if teardown == nil {
		return
	}
	s.bindMu.Lock()
	if s.cancelled {
		s.bindMu.Unlock()
		_ = execTeardown(teardown)
		return
	}
	s.finalizers = append(s.finalizers, teardown)
	s.bindMu.Unlock()
}

// Request forwards n to the bound upstream Subscription. If the upstream is
// not bound yet (OnSubscribe has not been delivered), the demand
// accumulates and is flushed the instant the upstream binds.
func (s *flowSubscriberImpl[T]) Request(n uint64) {
	if n == 0 {
		return
	}

	s.bindMu.Lock()
	if s.cancelled {
		s.bindMu.Unlock()
		return
	}
	upstream := s.upstream
	if upstream == nil {
		if s.pendingDemand > math.MaxUint64-n {
			s.pendingDemand = math.MaxUint64
		} else {
			s.pendingDemand += n
		}
		s.bindMu.Unlock()
		return
	}
	s.bindMu.Unlock()

	upstream.Request(n)
}
