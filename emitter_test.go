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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEmitterDeliversOnSubscribeImmediately(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestObserver[int]()
	sub := NewSubscriber[int](to)

	e := NewEmitter[int](context.Background(), sub)
	is.Equal(ObserverStatusSubscribed, to.Status())

	e.OnNext(1)
	e.OnCompleted()
	is.Equal([]int{1}, to.Items())
	is.True(to.IsCompleted())
}

func TestEmitterIsCancelledAfterDestinationCancelled(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestObserver[int]()
	sub := NewSubscriber[int](to)
	e := NewEmitter[int](context.Background(), sub)

	sub.Cancel()
	is.True(e.IsCancelled())

	e.OnNext(1)
	is.Empty(to.Items())
}

func TestNewFlowEmitterRequestedDrainsAccumulatedDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestFlowSubscriber[int]()
	fs := NewFlowSubscriber[int](to)

	e := NewFlowEmitter[int](context.Background(), fs)
	is.EqualValues(0, e.Requested())

	fs.Request(3)
	is.EqualValues(3, e.Requested())
	is.EqualValues(0, e.Requested())

	fs.Request(2)
	fs.Request(4)
	is.EqualValues(6, e.Requested())
}

func TestFlowEmitterAwaitBlocksUntilDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestFlowSubscriber[int]()
	fs := NewFlowSubscriber[int](to)
	e := NewFlowEmitter[int](context.Background(), fs)

	done := make(chan uint64, 1)
	go func() {
		done <- e.Await(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	fs.Request(5)

	select {
	case n := <-done:
		is.EqualValues(5, n)
	case <-time.After(time.Second):
		t.Fatal("Await did not wake on demand")
	}
}

func TestFlowEmitterAwaitReturnsZeroOnContextDone(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestFlowSubscriber[int]()
	fs := NewFlowSubscriber[int](to)
	e := NewFlowEmitter[int](context.Background(), fs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan uint64, 1)
	go func() {
		done <- e.Await(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case n := <-done:
		is.EqualValues(0, n)
	case <-time.After(time.Second):
		t.Fatal("Await did not wake on context cancellation")
	}
}

func TestFlowEmitterAwaitReturnsZeroWhenDestinationCancelled(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestFlowSubscriber[int]()
	fs := NewFlowSubscriber[int](to)
	e := NewFlowEmitter[int](context.Background(), fs)

	fs.Cancel()
	is.EqualValues(0, e.Await(context.Background()))
}
