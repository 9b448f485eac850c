/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	clone "github.com/huandu/go-clone"
)

// DeepCopy returns an independent copy of v, unexported struct fields
// included. Pointers, maps and slices reached more than once map to a single
// copy, so cycles and shared pointers keep their shape; two slices over one
// backing array stay aliased only if they also have the same length.
// Funcs are shared; channels are replaced by new empty channels of the same
// capacity.
func DeepCopy[T any](v T) T {
	// Slowly records visited values; the fast path would loop on cycles.
	if c, ok := clone.Slowly(v).(T); ok {
		return c
	}
	// Only a nil interface value reaches here.
	return v
}
