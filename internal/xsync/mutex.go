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

// Package xsync provides the Mutex abstraction shared by Subscriber's
// concurrency modes: a real mutex for the safe/eventually-safe modes, and a
// no-op stand-in for the unsafe mode so the call site shape (Lock/Unlock/
// TryLock) never changes across modes.
package xsync

import "sync"

// Mutex is the minimal locking surface Subscriber needs. TryLock is used by
// the eventually-safe (drop-on-contention) concurrency mode.
type Mutex interface {
	Lock()
	Unlock()
	TryLock() bool
}

// NewMutexWithLock returns a Mutex backed by a real sync.Mutex.
func NewMutexWithLock() Mutex {
	return &realMutex{}
}

// NewMutexWithoutLock returns a Mutex whose Lock/Unlock/TryLock are no-ops.
// Used by the unsafe concurrency mode, where the caller guarantees there is
// no concurrent access and wants to avoid synchronization overhead while
// keeping the exact same call sites as the safe mode.
func NewMutexWithoutLock() Mutex {
	return noopMutex{}
}

type realMutex struct {
	mu sync.Mutex
}

func (m *realMutex) Lock()         { m.mu.Lock() }
func (m *realMutex) Unlock()       { m.mu.Unlock() }
func (m *realMutex) TryLock() bool { return m.mu.TryLock() }

type noopMutex struct{}

func (noopMutex) Lock()         {}
func (noopMutex) Unlock()       {}
func (noopMutex) TryLock() bool { return true }
