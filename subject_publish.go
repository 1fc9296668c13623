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
	"sync"
	"sync/atomic"
)

var _ Subject[int] = (*publishSubjectImpl[int])(nil)

// NewPublishSubject creates a Subject that broadcasts every value pushed
// into it (fanout) to whichever Observers are subscribed at the time it is
// pushed. Values pushed before a given Observer subscribes are never
// delivered to it.
//
// An Observer that subscribes after the subject has already reached a
// terminal state (Error or Completed) is still delivered OnSubscribe and
// left in the Subscribed state, with no further events: PublishSubject does
// not replay the terminal event to late subscribers. This matches
// kled::subject::PublishSubject in the original implementation this library
// was distilled from, rather than eagerly delivering the stored terminal
// event the way a naive port might.
func NewPublishSubject[T any]() Subject[T] {
	return &publishSubjectImpl[T]{status: KindItem}
}

type publishSubjectImpl[T any] struct {
	mu     sync.Mutex
	status Kind
	err    error

	observers     sync.Map // uint32 -> Subscriber[T]
	observerIndex uint32
}

func (s *publishSubjectImpl[T]) Subscribe(destination Observer[T]) Cancellable {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *publishSubjectImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Cancellable {
	subscriber := NewSubscriber(destination)

	s.mu.Lock()
	if s.status != KindItem {
		s.mu.Unlock()
		subscriber.OnSubscribeWithContext(ctx, NewCancellable())
		return subscriber
	}

	index := atomic.AddUint32(&s.observerIndex, 1) - 1
	s.observers.Store(index, subscriber)
	s.mu.Unlock()

	token := NewCancellable()
	token.AddTeardown(func() { s.observers.Delete(index) })
	subscriber.OnSubscribeWithContext(ctx, token)

	return subscriber
}

func (s *publishSubjectImpl[T]) unsubscribeAll() {
	s.observers.Range(func(key, _ any) bool {
		s.observers.Delete(key)
		return true
	})
}

func (s *publishSubjectImpl[T]) OnSubscribe(Cancellable)                        {}
func (s *publishSubjectImpl[T]) OnSubscribeWithContext(context.Context, Cancellable) {}

func (s *publishSubjectImpl[T]) OnNext(value T) {
	s.OnNextWithContext(context.Background(), value)
}

func (s *publishSubjectImpl[T]) OnNextWithContext(ctx context.Context, value T) {
	s.mu.Lock()
	closed := s.status != KindItem
	s.mu.Unlock()

	if closed {
		OnDroppedNotification(ctx, ItemSignal(value))
		return
	}
	s.broadcast(func(o Observer[T]) { o.OnNextWithContext(ctx, value) })
}

func (s *publishSubjectImpl[T]) OnError(err error) {
	s.OnErrorWithContext(context.Background(), err)
}

func (s *publishSubjectImpl[T]) OnErrorWithContext(ctx context.Context, err error) {
	s.mu.Lock()
	if s.status != KindItem {
		s.mu.Unlock()
		OnDroppedNotification(ctx, ErrorSignal[T](err))
		return
	}
	s.status = KindError
	s.err = err
	s.mu.Unlock()

	s.broadcast(func(o Observer[T]) { o.OnErrorWithContext(ctx, err) })
	s.unsubscribeAll()
}

func (s *publishSubjectImpl[T]) OnCompleted() {
	s.OnCompletedWithContext(context.Background())
}

func (s *publishSubjectImpl[T]) OnCompletedWithContext(ctx context.Context) {
	s.mu.Lock()
	if s.status != KindItem {
		s.mu.Unlock()
		OnDroppedNotification(ctx, CompletedSignal[T]())
		return
	}
	s.status = KindCompleted
	s.mu.Unlock()

	s.broadcast(func(o Observer[T]) { o.OnCompletedWithContext(ctx) })
	s.unsubscribeAll()
}

func (s *publishSubjectImpl[T]) broadcast(fn func(Observer[T])) {
	s.observers.Range(func(_, v any) bool {
		fn(v.(Observer[T]))
		return true
	})
}

func (s *publishSubjectImpl[T]) HasObserver() bool {
	has := false
	s.observers.Range(func(_, _ any) bool {
		has = true
		return false
	})
	return has
}

func (s *publishSubjectImpl[T]) CountObservers() int {
	count := 0
	s.observers.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (s *publishSubjectImpl[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status != KindItem
}

func (s *publishSubjectImpl[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == KindError
}

func (s *publishSubjectImpl[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == KindCompleted
}

func (s *publishSubjectImpl[T]) AsObservable() Observable[T] { return s }
func (s *publishSubjectImpl[T]) AsObserver() Observer[T]     { return s }
