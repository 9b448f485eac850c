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
	"errors"
	"reflect"

	"dirpx.dev/dynamic/typeinfo"
)

// ErrReflectNilType is returned when a nil reflect.Type is provided.
var ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")

// Decompose splits an unnamed composite type into its constructor name and
// element types:
//   - *E      -> ("*", [E])
//   - []E     -> ("[]", [E])
//   - [N]E    -> ("[N]", [E])
//   - map[K]V -> ("map", [K, V])
//   - chan E  -> ("chan" | "<-chan" | "chan<-", [E])
//
// Named types, builtins and other unnamed kinds (func, struct, interface)
// are leaves and report ok == false.
func Decompose(t reflect.Type) (ctor string, elems []reflect.Type, ok bool) {
	if t == nil || t.Name() != "" {
		return "", nil, false
	}
	switch t.Kind() {
	case reflect.Pointer:
		return typeinfo.Pointer, []reflect.Type{t.Elem()}, true
	case reflect.Slice:
		return typeinfo.Slice, []reflect.Type{t.Elem()}, true
	case reflect.Array:
		return typeinfo.Array(t.Len()), []reflect.Type{t.Elem()}, true
	case reflect.Map:
		return typeinfo.Map, []reflect.Type{t.Key(), t.Elem()}, true
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			ctor = typeinfo.RecvChan
		case reflect.SendDir:
			ctor = typeinfo.SendChan
		default:
			ctor = typeinfo.Chan
		}
		return ctor, []reflect.Type{t.Elem()}, true
	default:
		return "", nil, false
	}
}

// Named derives the descriptor of a leaf type: a named type (possibly a
// generic instantiation), a builtin, or an unnamed func/struct/interface.
//
// The package comes from PkgPath, the module and version from the build
// information (when versions is true), and type arguments are parsed from
// the instantiation's name, at most maxDepth levels deep.
func Named(t reflect.Type, versions bool, maxDepth int) (typeinfo.Type, error) {
	if t == nil {
		return typeinfo.Type{}, ErrReflectNilType
	}
	if t.Name() == "" {
		return typeinfo.Type{Name: t.String()}, nil
	}

	base, args := SplitTypeArgs(t.Name())
	info := typeinfo.Type{Package: t.PkgPath(), Name: base}
	if versions && info.Package != "" {
		if m, ok := ModuleOf(info.Package); ok {
			info.Module, info.Version = m.Path, m.Version
		}
	}
	if len(args) > 0 {
		info.Generics = make([]typeinfo.Type, len(args))
		for i, a := range args {
			info.Generics[i] = ParseType(a, versions, maxDepth-1)
		}
	}
	return info, nil
}
