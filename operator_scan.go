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

// Scan returns an operator that folds source through binaryOp, seeded with
// seed. Ported from kled/src/flow/operators/scan.rs: the seed is emitted
// immediately on subscribe, before any upstream item arrives, so a
// four-item source yields five items downstream.
func Scan[T, R any](seed R, binaryOp func(acc R, item T) R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservable(func(ctx context.Context, destination Subscriber[R]) {
			state := &scanState[R]{acc: seed}
			source.SubscribeWithContext(ctx, scanObserver[T, R]{
				destination: destination,
				state:       state,
				binaryOp:    binaryOp,
			})
		})
	}
}

type scanState[R any] struct {
	acc R
}

type scanObserver[T, R any] struct {
	destination Subscriber[R]
	state       *scanState[R]
	binaryOp    func(acc R, item T) R
}

func (s scanObserver[T, R]) OnSubscribe(token Cancellable) {
	s.OnSubscribeWithContext(context.Background(), token)
}

func (s scanObserver[T, R]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	s.destination.OnSubscribeWithContext(ctx, token)
	if !s.destination.IsClosed() {
		s.destination.OnNextWithContext(ctx, s.state.acc)
	}
}

func (s scanObserver[T, R]) OnNext(item T) { s.OnNextWithContext(context.Background(), item) }
func (s scanObserver[T, R]) OnNextWithContext(ctx context.Context, item T) {
	s.state.acc = s.binaryOp(s.state.acc, item)
	s.destination.OnNextWithContext(ctx, s.state.acc)
}
func (s scanObserver[T, R]) OnError(err error) { s.OnErrorWithContext(context.Background(), err) }
func (s scanObserver[T, R]) OnErrorWithContext(ctx context.Context, err error) {
	s.destination.OnErrorWithContext(ctx, err)
}
func (s scanObserver[T, R]) OnCompleted() { s.OnCompletedWithContext(context.Background()) }
func (s scanObserver[T, R]) OnCompletedWithContext(ctx context.Context) {
	s.destination.OnCompletedWithContext(ctx)
}
func (s scanObserver[T, R]) IsClosed() bool    { return s.destination.IsClosed() }
func (s scanObserver[T, R]) HasThrown() bool   { return s.destination.HasThrown() }
func (s scanObserver[T, R]) IsCompleted() bool { return s.destination.IsCompleted() }

// FlowScan is Scan's Flow counterpart. The immediate seed emission on
// OnSubscribe happens before any Request has necessarily been made; callers
// that need the seed to respect declared demand should request at least 1
// before relying on it arriving.
func FlowScan[T, R any](seed R, binaryOp func(acc R, item T) R) func(Flow[T]) Flow[R] {
	return func(source Flow[T]) Flow[R] {
		return NewFlow(func(ctx context.Context, destination FlowSubscriber[R]) {
			state := &scanState[R]{acc: seed}
			source.SubscribeWithContext(ctx, flowScanObserver[T, R]{
				destination: destination,
				state:       state,
				binaryOp:    binaryOp,
			})
		})
	}
}

type flowScanObserver[T, R any] struct {
	destination FlowSubscriber[R]
	state       *scanState[R]
	binaryOp    func(acc R, item T) R
}

func (s flowScanObserver[T, R]) OnSubscribe(token Cancellable) {
	s.OnSubscribeWithContext(context.Background(), token)
}

func (s flowScanObserver[T, R]) OnSubscribeWithContext(ctx context.Context, token Cancellable) {
	s.destination.OnSubscribeWithContext(ctx, token)
	if !s.destination.IsClosed() {
		s.destination.OnNextWithContext(ctx, s.state.acc)
	}
}

func (s flowScanObserver[T, R]) OnNext(item T) { s.OnNextWithContext(context.Background(), item) }
func (s flowScanObserver[T, R]) OnNextWithContext(ctx context.Context, item T) {
	s.state.acc = s.binaryOp(s.state.acc, item)
	s.destination.OnNextWithContext(ctx, s.state.acc)
}
func (s flowScanObserver[T, R]) OnError(err error) { s.OnErrorWithContext(context.Background(), err) }
func (s flowScanObserver[T, R]) OnErrorWithContext(ctx context.Context, err error) {
	s.destination.OnErrorWithContext(ctx, err)
}
func (s flowScanObserver[T, R]) OnCompleted() { s.OnCompletedWithContext(context.Background()) }
func (s flowScanObserver[T, R]) OnCompletedWithContext(ctx context.Context) {
	s.destination.OnCompletedWithContext(ctx)
}
func (s flowScanObserver[T, R]) IsClosed() bool    { return s.destination.IsClosed() }
func (s flowScanObserver[T, R]) HasThrown() bool   { return s.destination.HasThrown() }
func (s flowScanObserver[T, R]) IsCompleted() bool { return s.destination.IsCompleted() }
