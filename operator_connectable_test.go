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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectableDoesNotSubscribeUpstreamBeforeConnect(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribed := false
	source := NewObservable(func(ctx context.Context, destination Subscriber[int]) {
		subscribed = true
		destination.OnNextWithContext(ctx, 1)
		destination.OnCompletedWithContext(ctx)
	})

	c := Connectable(source)
	to := NewTestObserver[int]()
	c.Subscribe(to)

	is.False(subscribed)
	is.Empty(to.Items())
}

func TestConnectableFansOutSingleUpstreamSubscriptionToAllObservers(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribeCount := 0
	source := NewObservable(func(ctx context.Context, destination Subscriber[int]) {
		subscribeCount++
		destination.OnNextWithContext(ctx, 1)
		destination.OnNextWithContext(ctx, 2)
		destination.OnCompletedWithContext(ctx)
	})

	c := Connectable(source)
	a := NewTestObserver[int]()
	b := NewTestObserver[int]()
	c.Subscribe(a)
	c.Subscribe(b)

	c.Connect()

	is.Equal(1, subscribeCount)
	is.Equal([]int{1, 2}, a.Items())
	is.Equal([]int{1, 2}, b.Items())
}

func TestConnectableConnectIsIdempotentWhileConnected(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribeCount := 0
	source := NewObservable(func(ctx context.Context, destination Subscriber[int]) {
		subscribeCount++
	})

	c := Connectable(source)
	first := c.Connect()
	second := c.Connect()

	is.Same(first, second)
	is.Equal(1, subscribeCount)
}

func TestConnectableResetOnDisconnectRebuildsSubjectAfterTerminal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribeCount := 0
	var upstreamObservers []Observer[int]
	source := NewObservable(func(ctx context.Context, destination Subscriber[int]) {
		subscribeCount++
		upstreamObservers = append(upstreamObservers, destination)
	})

	c := ConnectableWithConfig(source, ConnectableConfig[int]{ResetOnDisconnect: true})

	first := NewTestObserver[int]()
	c.Subscribe(first)
	c.Connect()
	upstreamObservers[0].OnCompleted()
	is.True(first.IsCompleted())

	second := NewTestObserver[int]()
	c.Connect()
	c.Subscribe(second)

	is.Equal(2, subscribeCount)
	upstreamObservers[1].OnNext(1)
	upstreamObservers[1].OnCompleted()

	is.Equal([]int{1}, second.Items())
	is.True(second.IsCompleted())
}
