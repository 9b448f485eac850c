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

// Package dynamic provides a type-erased value container with
// identity-guarded recovery of the concrete type.
//
// A Value is created from a value of some type T. From then on the Value
// does not expose T; it carries a type identity descriptor (typeinfo.Type)
// together with the duplication and teardown behavior of T, bound while T
// was still known. The payload is recovered by casting back to T:
//
//	v := dynamic.New(Greeting{Text: "Hi"})
//
//	if _, ok := dynamic.TryCast[Farewell](v); !ok {
//	    // wrong type, v is untouched
//	}
//	g := dynamic.Cast[Greeting](v)        // copy of the payload
//	p := dynamic.CastMut[Greeting](v)     // pointer into the payload
//	g = dynamic.IntoCast[Greeting](v)     // moves the payload out; v is empty
//
// Casts succeed only if the descriptor of the requested type equals the
// descriptor the Value was created with. Descriptors compare the defining
// module and version, the package, the type name and the type arguments, so
// Box[int] and Box[string] never cast into each other.
//
// # Ownership
//
// A Value owns its payload. Clone duplicates it (through Clone() T if the
// type has one, otherwise according to Config.Clone) and the duplicate is
// owned independently. Release runs the payload's Close method, if any,
// at most once. IntoCast hands ownership to the caller, after which Release
// does nothing. A Value is not safe for concurrent use.
//
// # Identity
//
// TypeOf[T] resolves the descriptor of T through the global resolver, which
// tries in order:
//
//  1. a DynamicType method declared by T itself (apis.Describer),
//  2. a descriptor registered with Register or RegisterType,
//  3. a descriptor derived by reflection: package path and name of T, module
//     path and version from the binary's build information, and the
//     descriptors of T's type arguments.
//
// Composite types (*T, []T, map[K]V, ...) are described by a constructor
// name whose type arguments are the element descriptors.
//
// The first descriptor resolved for a type is kept for the rest of the
// process. Later registrations or configuration changes do not alter it,
// so existing Values keep matching their type; Register reports
// ErrAlreadyResolved for a type fixed to a different descriptor.
//
// # Global state
//
// The resolver, the registry, the builder that constructs them and the
// configuration live in a single immutable snapshot. Reads (TypeOf, New,
// casts) load it atomically without locking. Writers (SetConfig, SetBuilder,
// SetExt, SetRegistry, SetResolver, SetAll) take a short build mutex,
// assemble a new snapshot and publish it with an atomic swap.
//
// SetRegistry and SetResolver pin the given layer: later reconfigurations
// will not rebuild it until UnpinRegistry or UnpinResolver is called.
// SetExt carries an opaque payload to custom builders.
//
// # Diagnostics
//
// Config.Logger receives zap diagnostics: registrations at debug level,
// identity collisions (two types declaring the same descriptor) at warn
// level, and failed fatal casts at error level right before the panic.
// config.Load builds a configuration, logger included, from a file and
// DYNAMIC_* environment variables.
package dynamic
