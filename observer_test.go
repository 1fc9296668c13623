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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserverBasicSequence(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var items []int
	completed := false

	o := NewObserver[int](
		nil,
		func(_ context.Context, v int) { items = append(items, v) },
		nil,
		func(context.Context) { completed = true },
	)

	o.OnSubscribe(NewCancellable())
	o.OnNext(1)
	o.OnNext(2)
	o.OnCompleted()

	is.Equal([]int{1, 2}, items)
	is.True(completed)
	is.True(o.IsCompleted())
	is.True(o.IsClosed())
	is.False(o.HasThrown())
}

func TestObserverIgnoresEventsAfterTerminal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var dropped []fmt.Stringer
	WithDroppedNotification(func(_ context.Context, s fmt.Stringer) {
		dropped = append(dropped, s)
	}, func() {
		o := NewObserver[int](nil, nil, nil, nil)
		o.OnCompleted()
		o.OnNext(1)
		o.OnError(errors.New("late"))
	})

	is.Len(dropped, 2)
}

func TestObserverPanicRoutesToOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var gotErr error
	o := NewObserver[int](
		nil,
		func(context.Context, int) { panic("kaboom") },
		func(_ context.Context, err error) { gotErr = err },
		nil,
	)

	o.OnNext(1)
	is.Error(gotErr)
	is.True(o.HasThrown())
}

func TestObserverPanicFallsBackToUnhandledWhenNoOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var got error
	WithUnhandledError(func(_ context.Context, err error) { got = err }, func() {
		o := NewObserver[int](nil, func(context.Context, int) { panic("kaboom") }, nil, nil)
		o.OnNext(1)
	})

	is.Error(got)
}

func TestObserverUnsafePropagatesPanic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	o := NewUnsafeObserver[int](nil, func(context.Context, int) { panic("kaboom") }, nil, nil)
	is.Panics(func() { o.OnNext(1) })
}

func TestObserverPanicCaptureDisabledPropagatesPanic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	o := NewObserver[int](nil, func(context.Context, int) { panic("kaboom") }, nil, nil)
	ctx := WithObserverPanicCaptureDisabled(context.Background())
	is.Panics(func() { o.OnNextWithContext(ctx, 1) })
}

func TestNoopObserverDiscardsEverything(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	o := NoopObserver[int]()
	o.OnSubscribe(NewCancellable())
	o.OnNext(1)
	o.OnCompleted()
	is.True(o.IsCompleted())
}
