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

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionRequestInvokesCallback(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var total uint64
	sub := NewSubscription(func(n uint64) { total += n })

	sub.Request(3)
	sub.Request(4)
	is.EqualValues(7, total)
}

func TestSubscriptionRequestZeroIsNoop(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	called := false
	sub := NewSubscription(func(n uint64) { called = true })
	sub.Request(0)
	is.False(called)
}

func TestSubscriptionRequestAfterCancelIsNoop(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	called := false
	sub := NewSubscription(func(n uint64) { called = true })
	sub.Cancel()
	sub.Request(5)
	is.False(called)
}

func TestDemandCounterAddPeekConsume(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var d demandCounter
	is.EqualValues(0, d.Peek())

	d.Add(2)
	is.EqualValues(2, d.Peek())

	is.True(d.Consume())
	is.EqualValues(1, d.Peek())
	is.True(d.Consume())
	is.EqualValues(0, d.Peek())
	is.False(d.Consume())
}

func TestDemandCounterSaturates(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var d demandCounter
	d.Add(math.MaxUint64 - 1)
	d.Add(10)
	is.EqualValues(uint64(math.MaxUint64), d.Peek())
}

func TestDemandCounterTakeAllDrainsToZero(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var d demandCounter
	is.EqualValues(0, d.TakeAll())

	d.Add(2)
	d.Add(3)
	is.EqualValues(5, d.TakeAll())
	is.EqualValues(0, d.Peek())
	is.EqualValues(0, d.TakeAll())
}
