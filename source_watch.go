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
	"io"
	"net/http"
	"os"
	"time"
)

// WatchFile builds an Observable[string] that polls path at interval and
// emits its contents whenever they change, starting with the current
// contents on subscribe if the file already exists. Cancelling the
// subscription stops the poll immediately; it never completes on its own.
func WatchFile(path string, interval time.Duration) Observable[string] {
	return NewObservable(func(ctx context.Context, destination Subscriber[string]) {
		emitter := NewEmitter[string](ctx, destination)

		var last []byte
		if b, err := os.ReadFile(path); err == nil {
			last = b
			emitter.OnNext(string(b))
		}

		ticker := time.NewTicker(interval)
		done := make(chan struct{})
		destination.AddTeardown(func() { close(done) })

		go func() {
			defer ticker.Stop()
			defer emitter.OnCompleted()
			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					return
				case <-ticker.C:
					b, err := os.ReadFile(path)
					if err != nil {
						if os.IsNotExist(err) {
							continue
						}
						emitter.OnError(err)
						return
					}
					if len(b) != len(last) || string(b) != string(last) {
						last = b
						emitter.OnNext(string(b))
					}
				}
			}
		}()
	})
}

// WatchURL builds an Observable[string] that polls url at interval via HTTP
// GET and emits the response body whenever it changes, starting with the
// current body on subscribe if the first request succeeds. Cancelling the
// subscription stops the poll; it never completes on its own.
func WatchURL(url string, interval time.Duration) Observable[string] {
	return NewObservable(func(ctx context.Context, destination Subscriber[string]) {
		emitter := NewEmitter[string](ctx, destination)

		client := &http.Client{Timeout: 10 * time.Second}
		var last []byte

		fetch := func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			return io.ReadAll(resp.Body)
		}

		if b, err := fetch(); err == nil {
			last = b
			emitter.OnNext(string(b))
		}

		ticker := time.NewTicker(interval)
		done := make(chan struct{})
		destination.AddTeardown(func() { close(done) })

		go func() {
			defer ticker.Stop()
			defer emitter.OnCompleted()
			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					return
				case <-ticker.C:
					b, err := fetch()
					if err != nil {
						emitter.OnError(err)
						return
					}
					if len(b) != len(last) || string(b) != string(last) {
						last = b
						emitter.OnNext(string(b))
					}
				}
			}
		}()
	})
}
