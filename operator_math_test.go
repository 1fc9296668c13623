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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSumAccumulatesAndEmitsOnceOnCompletion(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Sum[int]()(FromSlice([]int{1, 2, 3, 4})))
	is.NoError(err)
	is.Equal([]int{10}, items)
}

func TestFlowSumRequestsUnboundedUpstreamDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestFlowSubscriber[int]()
	FlowSum[int]()(FlowFromSlice([]int{1, 2, 3})).Subscribe(to)
	to.Request(1)

	is.Eventually(func() bool { return to.IsCompleted() }, time.Second, time.Millisecond)
	is.Equal([]int{6}, to.Items())
}

func TestCountEmitsNumberOfItems(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Count[string]()(FromSlice([]string{"a", "b", "c"})))
	is.NoError(err)
	is.Equal([]int64{3}, items)
}

func TestAverageEmitsMean(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Average[int]()(FromSlice([]int{1, 2, 3})))
	is.NoError(err)
	is.Equal([]float64{2}, items)
}

func TestAverageEmitsNaNOnEmptySource(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Average[int]()(FromSlice([]int{})))
	is.NoError(err)
	is.Len(items, 1)
	is.True(math.IsNaN(items[0]))
}

func TestMinEmitsSmallestValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Min[int]()(FromSlice([]int{3, 1, 2})))
	is.NoError(err)
	is.Equal([]int{1}, items)
}

func TestMinEmitsNothingOnEmptySource(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Min[int]()(FromSlice([]int{})))
	is.NoError(err)
	is.Empty(items)
}

func TestMaxEmitsLargestValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Max[int]()(FromSlice([]int{3, 1, 2})))
	is.NoError(err)
	is.Equal([]int{3}, items)
}

func TestMaxEmitsNothingOnEmptySource(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Max[int]()(FromSlice([]int{})))
	is.NoError(err)
	is.Empty(items)
}

func TestClampBoundsValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Clamp[int](0, 10)(FromSlice([]int{-5, 5, 15})))
	is.NoError(err)
	is.Equal([]int{0, 5, 10}, items)
}

func TestClampPanicsWhenLowerExceedsUpper(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.PanicsWithValue(ErrClampLowerLessThanUpper, func() {
		Clamp[int](10, 0)
	})
}

func TestFlowClampBoundsValuesOneForOne(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestFlowSubscriber[int]()
	FlowClamp[int](0, 10)(FlowFromSlice([]int{-5, 5, 15})).Subscribe(to)
	to.Request(3)

	is.Eventually(func() bool { return to.IsCompleted() }, time.Second, time.Millisecond)
	is.Equal([]int{0, 5, 10}, to.Items())
}

func TestAbsTakesAbsoluteValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Abs()(FromSlice([]float64{-1.5, 2.5, -3})))
	is.NoError(err)
	is.Equal([]float64{1.5, 2.5, 3}, items)
}
