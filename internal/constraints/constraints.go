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

// Package constraints declares the numeric type-parameter constraints used
// by the aggregation operators (Sum, Average, Min, Max).
package constraints

import "golang.org/x/exp/constraints"

// Numeric is any type that supports the ordinary arithmetic operators.
type Numeric interface {
	constraints.Integer | constraints.Float
}
