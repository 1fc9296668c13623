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

// Package xerrors re-exports errors.Join under the name the rest of the
// module has always called it by. It calls errors.Join directly, so it
// needs a Go toolchain of go1.20 or later.
package xerrors

import "errors"

// Join returns an error that wraps all non-nil errors in errs.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
