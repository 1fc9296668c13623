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
)

func TestMapTransformsEveryItem(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	items, err := Collect(Map(func(v int) string { return string(rune('a' + v)) })(FromSlice([]int{0, 1, 2})))
	is.NoError(err)
	is.Equal([]string{"a", "b", "c"}, items)
}

func TestMapPreservesError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	boom := errors.New("boom")
	source := Create(func(_ context.Context, emitter Emitter[int]) {
		emitter.OnNext(1)
		emitter.OnError(boom)
	})

	items, err := Collect(Map(func(v int) int { return v * 2 })(source))
	is.Equal(boom, err)
	is.Equal([]int{2}, items)
}

func TestFlowMapForwardsDemandUnchanged(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	to := NewTestFlowSubscriber[string]()
	FlowMap(func(v int) string { return string(rune('a' + v)) })(FlowFromSlice([]int{0, 1, 2})).Subscribe(to)
	to.Request(2)

	is.Eventually(func() bool { return len(to.Items()) == 2 }, time.Second, time.Millisecond)
	is.Equal([]string{"a", "b"}, to.Items())
}
