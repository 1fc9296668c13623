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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubjectFansOutToAllSubscribers(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	a := NewTestObserver[int]()
	b := NewTestObserver[int]()
	subject.Subscribe(a)
	subject.Subscribe(b)

	is.True(subject.HasObserver())
	is.Equal(2, subject.CountObservers())

	subject.OnNext(1)
	subject.OnNext(2)
	subject.OnCompleted()

	is.Equal([]int{1, 2}, a.Items())
	is.Equal([]int{1, 2}, b.Items())
	is.True(a.IsCompleted())
	is.True(b.IsCompleted())
}

func TestPublishSubjectDoesNotDeliverValuesBeforeSubscribe(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	subject.OnNext(1)

	late := NewTestObserver[int]()
	subject.Subscribe(late)
	subject.OnNext(2)

	is.Equal([]int{2}, late.Items())
}

func TestPublishSubjectLateSubscriberAfterTerminalGetsNoReplay(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	subject.OnCompleted()

	late := NewTestObserver[int]()
	subject.Subscribe(late)

	is.Equal(ObserverStatusSubscribed, late.Status())
	is.False(late.IsCompleted())
}

func TestPublishSubjectUnsubscribesObserversOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	a := NewTestObserver[int]()
	subject.Subscribe(a)

	boom := errors.New("boom")
	subject.OnError(boom)

	is.Equal(boom, a.Err())
	is.False(subject.HasObserver())
	is.True(subject.HasThrown())
	is.True(subject.IsClosed())
}

func TestPublishSubjectCancelUnsubscribesSingleObserver(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	a := NewTestObserver[int]()
	token := subject.Subscribe(a)

	token.Cancel()
	is.False(subject.HasObserver())

	subject.OnNext(1)
	is.Empty(a.Items())
}

func TestPublishSubjectAsObservableAndAsObserver(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewPublishSubject[int]()
	is.Same(subject.AsObservable(), subject)
	is.Same(subject.AsObserver(), subject)
}
