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

import "dirpx.dev/dynamic/typeinfo"

// Describer declares the identity of a type.
//
// # Overview
//
// Describer is the zero-reflection fast path for identity resolution. When a
// type implements Describer, the resolver MUST use the returned descriptor
// and MUST NOT consult the registry or derive one by reflection.
//
// DynamicType is a type-level contract: it describes the *kind* of value,
// not a particular instance. Resolvers call it on the zero value of the type,
// so implementations MUST NOT read receiver state.
//
// # Generic types
//
// A generic type declares its type arguments in Generics, in order, so that
// distinct instantiations get distinct identities:
//
//	type Box[T any] struct{ V T }
//
//	func (Box[T]) DynamicType() typeinfo.Type {
//	    return typeinfo.New("example.com/box", "v1.0.0", "example.com/box", "Box",
//	        dynamic.TypeOf[T]())
//	}
//
// # Pointer types
//
// A pointer type *T does not inherit a value-receiver DynamicType declared on
// T: T and *T are different types and resolve to different descriptors.
// Declare DynamicType on a pointer receiver to describe *T itself.
//
// # Contract
//
//   - The returned descriptor MUST have a non-empty Name.
//   - It MUST be deterministic for a given concrete type for the lifetime of
//     the process.
//   - It MUST NOT be shared with any other concrete type.
//   - It MUST be safe for concurrent calls and MUST NOT block or perform I/O.
type Describer interface {
	// DynamicType returns the descriptor of the receiver's type.
	DynamicType() typeinfo.Type
}

// Cloner is implemented by types that know how to produce an independent,
// equal copy of themselves. Values of such types are duplicated through Clone
// instead of a reflective deep copy. Mutating the copy MUST NOT affect the
// original, and vice versa.
type Cloner[T any] interface {
	Clone() T
}
