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
	"runtime"
	"sync"
)

// Task is a unit of work a Scheduler runs on a Worker.
type Task func()

// Scheduler hands out Workers that run Tasks, used by SubscribeOn and
// ObserveOn to move work off the calling goroutine. Grounded on
// rxui_rx::core::scheduler (the Rust original this library was distilled
// from schedules ThreadPoolScheduler/CurrentThreadScheduler workers the
// same way).
type Scheduler interface {
	// Worker returns a Worker bound to this scheduler. Callers that no
	// longer need it should call Worker.Cancel.
	Worker() Worker
}

// Worker schedules Tasks to run, one at a time, in the order Schedule was
// called, on whatever goroutine the owning Scheduler assigns.
type Worker interface {
	Cancellable
	// Schedule enqueues task to run on this worker.
	Schedule(task Task)
}

// ThreadPoolScheduler runs scheduled tasks across a fixed pool of
// goroutines sized to runtime.NumCPU(), FIFO per worker but interleaved
// across workers. Join blocks until every task scheduled so far has run,
// mirroring ThreadPoolScheduler::join() in the Rust original's test suite.
type ThreadPoolScheduler struct {
	tasks chan Task
	wg    sync.WaitGroup
	once  sync.Once
	done  chan struct{}
}

var _ Scheduler = (*ThreadPoolScheduler)(nil)

// NewThreadPoolScheduler starts a ThreadPoolScheduler backed by
// runtime.NumCPU() goroutines.
func NewThreadPoolScheduler() *ThreadPoolScheduler {
	return NewThreadPoolSchedulerWithSize(runtime.NumCPU())
}

// NewThreadPoolSchedulerWithSize starts a ThreadPoolScheduler backed by size
// goroutines. size < 1 is treated as 1.
func NewThreadPoolSchedulerWithSize(size int) *ThreadPoolScheduler {
	if size < 1 {
		size = 1
	}
	s := &ThreadPoolScheduler{
		tasks: make(chan Task, 64),
		done:  make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		go s.runWorker()
	}
	return s
}

func (s *ThreadPoolScheduler) runWorker() {
	for {
		select {
		case task, ok := <-s.tasks:
			if !ok {
				return
			}
			func() {
				defer s.wg.Done()
				task()
			}()
		case <-s.done:
			return
		}
	}
}

// Worker returns a handle that schedules tasks onto the pool.
func (s *ThreadPoolScheduler) Worker() Worker {
	return &threadPoolWorker{scheduler: s, cancellable: NewCancellable()}
}

// Join blocks until every task scheduled so far has completed.
func (s *ThreadPoolScheduler) Join() {
	s.wg.Wait()
}

// Shutdown stops the pool's goroutines. Tasks already running finish; tasks
// not yet started are discarded.
func (s *ThreadPoolScheduler) Shutdown() {
	s.once.Do(func() { close(s.done) })
}

type threadPoolWorker struct {
	scheduler   *ThreadPoolScheduler
	cancellable Cancellable
}

func (w *threadPoolWorker) Schedule(task Task) {
	if w.IsCancelled() {
		return
	}
	w.scheduler.wg.Add(1)
	select {
	case w.scheduler.tasks <- task:
	case <-w.scheduler.done:
		w.scheduler.wg.Done()
	}
}

func (w *threadPoolWorker) Cancel()                       { w.cancellable.Cancel() }
func (w *threadPoolWorker) IsCancelled() bool              { return w.cancellable.IsCancelled() }
func (w *threadPoolWorker) AddTeardown(teardown Teardown) { w.cancellable.AddTeardown(teardown) }

// CurrentThreadScheduler queues tasks instead of running them immediately;
// Drain runs every queued task, in order, on the calling goroutine,
// including tasks scheduled reentrantly by a task that is itself draining.
// Useful in tests that need deterministic, single-threaded execution order.
type CurrentThreadScheduler struct {
	mu    sync.Mutex
	tasks []Task
}

var _ Scheduler = (*CurrentThreadScheduler)(nil)

// NewCurrentThreadScheduler creates an empty CurrentThreadScheduler.
func NewCurrentThreadScheduler() *CurrentThreadScheduler {
	return &CurrentThreadScheduler{}
}

// Worker returns a handle that enqueues tasks onto this scheduler's queue.
func (s *CurrentThreadScheduler) Worker() Worker {
	return &currentThreadWorker{scheduler: s, cancellable: NewCancellable()}
}

// Drain runs every task currently queued, in FIFO order, until the queue is
// empty. A task that schedules more work before Drain returns has that work
// run within the same Drain call.
func (s *CurrentThreadScheduler) Drain() {
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.mu.Unlock()

		task()
	}
}

type currentThreadWorker struct {
	scheduler   *CurrentThreadScheduler
	cancellable Cancellable
}

func (w *currentThreadWorker) Schedule(task Task) {
	if w.IsCancelled() {
		return
	}
	w.scheduler.mu.Lock()
	w.scheduler.tasks = append(w.scheduler.tasks, task)
	w.scheduler.mu.Unlock()
}

func (w *currentThreadWorker) Cancel()                       { w.cancellable.Cancel() }
func (w *currentThreadWorker) IsCancelled() bool              { return w.cancellable.IsCancelled() }
func (w *currentThreadWorker) AddTeardown(teardown Teardown) { w.cancellable.AddTeardown(teardown) }
