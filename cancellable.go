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
	"sync"

	"github.com/samber/lo"

	"github.com/arrowstream/rx/internal/xerrors"
)

// Teardown is a function run when a Cancellable is cancelled. Called at most
// once, even under concurrent Cancel calls.
type Teardown func()

// Cancellable is the connection token an Observable hands to an Observer via
// OnSubscribe. Cancel is monotonic (false -> true), idempotent, and safe to
// call from any goroutine at any time.
type Cancellable interface {
	// Cancel disposes the subscription. Calling it more than once, or from
	// multiple goroutines concurrently, has the same effect as calling it
	// once.
	Cancel()
	// IsCancelled reports whether Cancel has been called.
	IsCancelled() bool
	// AddTeardown registers a cleanup function to run when Cancel is called.
	// If the token is already cancelled, teardown runs immediately on the
	// calling goroutine.
	AddTeardown(teardown Teardown)
}

var _ Cancellable = (*cancellableImpl)(nil)

// NewCancellable creates a Cancellable not yet bound to anything. Operators
// use it as the token handed to the immediate downstream sink.
func NewCancellable() Cancellable {
	return &cancellableImpl{}
}

type cancellableImpl struct {
	mu         sync.Mutex
	cancelled  bool
	finalizers []Teardown
}

func (c *cancellableImpl) Cancel() {
	c.mu.Lock()
	if c.cancelled {
		c.mu.Unlock()
		return
	}
	c.cancelled = true
	finalizers := c.finalizers
	c.finalizers = nil
	c.mu.Unlock()

	var errs []error
	for _, f := range finalizers {
		if err := execTeardown(f); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		panic(xerrors.Join(errs...))
	}
}

// execTeardown runs teardown, recovering any panic into an error so a single
// misbehaving teardown cannot stop the rest from running.
func execTeardown(teardown Teardown) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			teardown()
			return nil
		},
		func(e any) {
			err = newUnsubscriptionError(recoverValueToError(e))
		},
	)
	return err
}

func (c *cancellableImpl) IsCancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

func (c *cancellableImpl) AddTeardown(teardown Teardown) {
	if teardown == nil {
		return
	}

	c.mu.Lock()
	if c.cancelled {
		c.mu.Unlock()
		_ = execTeardown(teardown)
		return
	}
	c.finalizers = append(c.finalizers, teardown)
	c.mu.Unlock()
}
