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
	"sync"
)

// ConnectableObservable multicasts one upstream subscription to every
// Observer subscribed to it, but does not subscribe upstream until Connect
// is called. Grounded on the connectable observable in the rest of the
// samber/ro lineage (its NewConnectableObservable/Connectable helpers),
// which is not itself part of the published samber/ro package but is
// exercised the same way here: wrap a Subject around a source, and defer
// the real subscription to an explicit Connect call so multiple Observers
// can all attach before the source ever runs.
type ConnectableObservable[T any] interface {
	Observable[T]
	// Connect subscribes upstream through the underlying Subject and
	// returns the resulting Cancellable. Calling Connect again while
	// already connected returns the same Cancellable without
	// resubscribing.
	Connect() Cancellable
	ConnectWithContext(ctx context.Context) Cancellable
}

// ConnectableConfig customizes how Connectable builds its multicast
// Subject.
type ConnectableConfig[T any] struct {
	// Connector builds the Subject used to multicast. Defaults to
	// NewPublishSubject[T] when nil.
	Connector func() Subject[T]
	// ResetOnDisconnect rebuilds the Subject via Connector the next time
	// Connect is called after the prior connection's upstream terminated.
	ResetOnDisconnect bool
}

// Connectable wraps source in a ConnectableObservable using the default
// config (NewPublishSubject, no reset on disconnect).
func Connectable[T any](source Observable[T]) ConnectableObservable[T] {
	return ConnectableWithConfig(source, ConnectableConfig[T]{})
}

// ConnectableWithConfig wraps source in a ConnectableObservable using the
// given config.
func ConnectableWithConfig[T any](source Observable[T], config ConnectableConfig[T]) ConnectableObservable[T] {
	if config.Connector == nil {
		config.Connector = NewPublishSubject[T]
	}
	return &connectableImpl[T]{
		source:  source,
		config:  config,
		subject: config.Connector(),
	}
}

type connectableImpl[T any] struct {
	mu         sync.Mutex
	source     Observable[T]
	config     ConnectableConfig[T]
	subject    Subject[T]
	connection Cancellable
}

func (c *connectableImpl[T]) Subscribe(destination Observer[T]) Cancellable {
	return c.subject.Subscribe(destination)
}

func (c *connectableImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Cancellable {
	return c.subject.SubscribeWithContext(ctx, destination)
}

func (c *connectableImpl[T]) Connect() Cancellable {
	return c.ConnectWithContext(context.Background())
}

func (c *connectableImpl[T]) ConnectWithContext(ctx context.Context) Cancellable {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connection != nil && !c.connection.IsCancelled() && !c.subject.IsClosed() {
		return c.connection
	}

	if c.config.ResetOnDisconnect && c.subject.IsClosed() {
		c.subject = c.config.Connector()
	}

	c.connection = c.source.SubscribeWithContext(ctx, c.subject.AsObserver())
	return c.connection
}
