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

// unboundedFlowSource builds a Flow whose producer never looks at demand,
// handing the caller the raw Observer so a test can push events whenever it
// wants, independent of what the downstream has requested.
func unboundedFlowSource[T any]() (Flow[T], func() Observer[T]) {
	var observer Observer[T]
	ready := make(chan struct{})
	f := NewFlow(func(ctx context.Context, destination FlowSubscriber[T]) {
		observer = destination
		close(ready)
	})
	return f, func() Observer[T] {
		<-ready
		return observer
	}
}

func TestOnBackpressureBufferDeliversUpToRequestedDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source, getObserver := unboundedFlowSource[int]()
	to := NewTestFlowSubscriber[int]()
	OnBackpressureBuffer[int](10, BufferError)(source).Subscribe(to)

	producer := getObserver()
	producer.OnNext(1)
	producer.OnNext(2)
	producer.OnNext(3)

	is.Empty(to.Items())

	to.Request(2)
	is.Equal([]int{1, 2}, to.Items())

	to.Request(1)
	is.Equal([]int{1, 2, 3}, to.Items())
}

func TestOnBackpressureBufferErrorsWhenFullUnderBufferError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source, getObserver := unboundedFlowSource[int]()
	to := NewTestFlowSubscriber[int]()
	OnBackpressureBuffer[int](2, BufferError)(source).Subscribe(to)

	producer := getObserver()
	producer.OnNext(1)
	producer.OnNext(2)
	producer.OnNext(3)

	is.Equal(ErrMissingBackpressure, to.Err())
}

func TestOnBackpressureBufferDropOldestDiscardsHeadWhenFull(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source, getObserver := unboundedFlowSource[int]()
	to := NewTestFlowSubscriber[int]()
	OnBackpressureBuffer[int](2, BufferDropOldest)(source).Subscribe(to)

	producer := getObserver()
	producer.OnNext(1)
	producer.OnNext(2)
	producer.OnNext(3)

	to.Request(2)
	is.Equal([]int{2, 3}, to.Items())
}

func TestOnBackpressureBufferDropLatestKeepsQueueWhenFull(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source, getObserver := unboundedFlowSource[int]()
	to := NewTestFlowSubscriber[int]()
	OnBackpressureBuffer[int](2, BufferDropLatest)(source).Subscribe(to)

	producer := getObserver()
	producer.OnNext(1)
	producer.OnNext(2)
	producer.OnNext(3)

	to.Request(2)
	is.Equal([]int{1, 2}, to.Items())
}

func TestOnBackpressureBufferTerminalEventDiscardsQueuedItems(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source, getObserver := unboundedFlowSource[int]()
	to := NewTestFlowSubscriber[int]()
	OnBackpressureBuffer[int](10, BufferError)(source).Subscribe(to)

	producer := getObserver()
	producer.OnNext(1)
	producer.OnNext(2)
	producer.OnCompleted()

	is.True(to.IsCompleted())
	is.Empty(to.Items())

	to.Request(10)
	is.Empty(to.Items())
}
