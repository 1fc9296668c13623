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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchFileEmitsCurrentContentsOnSubscribe(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	path := filepath.Join(t.TempDir(), "watched.txt")
	is.NoError(os.WriteFile(path, []byte("hello"), 0o644))

	to := NewTestObserver[string]()
	token := WatchFile(path, time.Hour).Subscribe(to)
	defer token.Cancel()

	is.Eventually(func() bool { return len(to.Items()) == 1 }, time.Second, time.Millisecond)
	is.Equal([]string{"hello"}, to.Items())
}

func TestWatchFileEmitsOnChange(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	path := filepath.Join(t.TempDir(), "watched.txt")
	is.NoError(os.WriteFile(path, []byte("v1"), 0o644))

	to := NewTestObserver[string]()
	token := WatchFile(path, 10*time.Millisecond).Subscribe(to)
	defer token.Cancel()

	is.Eventually(func() bool { return len(to.Items()) == 1 }, time.Second, time.Millisecond)
	is.NoError(os.WriteFile(path, []byte("v2"), 0o644))

	is.Eventually(func() bool { return len(to.Items()) == 2 }, time.Second, time.Millisecond)
	is.Equal([]string{"v1", "v2"}, to.Items())
}

func TestWatchFileStopsPollingOnCancel(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	path := filepath.Join(t.TempDir(), "watched.txt")
	is.NoError(os.WriteFile(path, []byte("v1"), 0o644))

	to := NewTestObserver[string]()
	token := WatchFile(path, 10*time.Millisecond).Subscribe(to)

	is.Eventually(func() bool { return to.Status() == ObserverStatusSubscribed }, time.Second, time.Millisecond)

	token.Cancel()
	is.True(token.IsCancelled())

	is.NoError(os.WriteFile(path, []byte("v2"), 0o644))
	time.Sleep(50 * time.Millisecond)
	is.Equal([]string{"v1"}, to.Items())
}

func TestWatchURLEmitsBodyOnChange(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var body atomic.Value
	body.Store("v1")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body.Load().(string)))
	}))
	defer server.Close()

	to := NewTestObserver[string]()
	token := WatchURL(server.URL, 10*time.Millisecond).Subscribe(to)
	defer token.Cancel()

	is.Eventually(func() bool { return len(to.Items()) == 1 }, time.Second, time.Millisecond)
	body.Store("v2")

	is.Eventually(func() bool { return len(to.Items()) == 2 }, time.Second, time.Millisecond)
	is.Equal([]string{"v1", "v2"}, to.Items())
}
