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
	"os"
)

// WriteToFile appends every string item emitted by source to the file at
// path, one line per item, then forwards the item downstream unchanged. The
// file is opened lazily, on the first item, and closed when source
// terminates. If appendMode is false the file is truncated on that first
// open; if true, writes append to whatever is already there.
func WriteToFile(path string, appendMode bool, perm os.FileMode) func(Observable[string]) Observable[string] {
	return func(source Observable[string]) Observable[string] {
		return NewObservable(func(ctx context.Context, destination Subscriber[string]) {
			var f *os.File
			var opened bool

			openFile := func() error {
				if opened {
					return nil
				}
				flag := os.O_CREATE | os.O_WRONLY
				if appendMode {
					flag |= os.O_APPEND
				} else {
					flag |= os.O_TRUNC
				}
				var err error
				f, err = os.OpenFile(path, flag, perm)
				if err != nil {
					return err
				}
				opened = true
				return nil
			}

			source.SubscribeWithContext(ctx, NewObserver[string](
				func(c context.Context, token Cancellable) { destination.OnSubscribeWithContext(c, token) },
				func(c context.Context, value string) {
					if err := openFile(); err != nil {
						destination.OnErrorWithContext(c, err)
						return
					}
					if _, err := f.WriteString(value); err != nil {
						destination.OnErrorWithContext(c, err)
						return
					}
					if _, err := f.WriteString("\n"); err != nil {
						destination.OnErrorWithContext(c, err)
						return
					}
					destination.OnNextWithContext(c, value)
				},
				func(c context.Context, err error) {
					if opened {
						_ = f.Close()
					}
					destination.OnErrorWithContext(c, err)
				},
				func(c context.Context) {
					if opened {
						_ = f.Close()
					}
					destination.OnCompletedWithContext(c)
				},
			))
		})
	}
}
