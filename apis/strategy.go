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

package apis

import (
	"reflect"

	"dirpx.dev/dynamic/typeinfo"
)

// Strategy is a pluggable resolution step. A Resolver can chain multiple
// strategies in order (e.g., Describer -> Registry -> Reflect).
type Strategy interface {
	// TryResolve attempts to resolve the descriptor of v's dynamic type.
	// It returns (info, true) if handled; otherwise (zero, false) to fall through.
	TryResolve(v any, cfg Config) (info typeinfo.Type, handled bool)

	// TryResolveType attempts to resolve the descriptor of t.
	TryResolveType(t reflect.Type, cfg Config) (info typeinfo.Type, handled bool)
}
