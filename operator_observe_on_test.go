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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestObserveOnDeliversItemsViaScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	scheduler := NewCurrentThreadScheduler()
	to := NewTestObserver[int]()

	ObserveOn[int](scheduler)(FromSlice([]int{1, 2, 3})).Subscribe(to)
	is.Empty(to.Items())

	scheduler.Drain()
	is.Equal([]int{1, 2, 3}, to.Items())
	is.True(to.IsCompleted())
}

func TestObserveOnDeliversErrorSynchronouslyBypassingScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	scheduler := NewCurrentThreadScheduler()
	to := NewTestObserver[int]()

	boom := errors.New("boom")
	source := Create(func(ctx context.Context, emitter Emitter[int]) {
		emitter.OnError(boom)
	})

	ObserveOn[int](scheduler)(source).Subscribe(to)

	is.Equal(boom, to.Err())
}

func TestFlowObserveOnDeliversItemsViaScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	scheduler := NewThreadPoolSchedulerWithSize(1)
	defer scheduler.Shutdown()

	to := NewTestFlowSubscriber[int]()
	FlowObserveOn[int](scheduler)(FlowFromSlice([]int{1, 2, 3})).Subscribe(to)
	to.Request(3)

	is.Eventually(func() bool { return to.IsCompleted() }, time.Second, time.Millisecond)
	scheduler.Join()
	is.Equal([]int{1, 2, 3}, to.Items())
}
