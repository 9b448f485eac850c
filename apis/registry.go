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

// Registry holds explicit, process-wide descriptor declarations for Go types.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register declares info as the identity of t. Implementations must be
	// idempotent for an equal descriptor and must reject a descriptor that
	// is already claimed by a different type.
	Register(t reflect.Type, info typeinfo.Type) error
	// Lookup returns the descriptor declared for t, if any.
	Lookup(t reflect.Type) (info typeinfo.Type, ok bool)
	// Find returns the type that declared info, if any.
	Find(info typeinfo.Type) (t reflect.Type, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, descriptor) association in a Registry snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Info is the declared descriptor.
	Info typeinfo.Type
}
