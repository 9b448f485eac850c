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

package dynamic

import (
	"io"
	"reflect"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/typeinfo"
	uref "dirpx.dev/dynamic/utils/reflect"
)

// Value holds a value of a type that is known when the Value is created and
// hidden afterwards. The payload is recovered with TryCast, Cast and friends,
// which succeed only for the type the Value was created with.
//
// A Value has a single owner and is not safe for concurrent use.
// The zero Value is empty.
type Value struct {
	// info is the identity of the stored type.
	info typeinfo.Type
	// slot holds a *T; nil once the payload was moved out or released.
	slot any
	// clone duplicates a slot into a fresh *T.
	clone func(slot any) any
	// drop tears the payload down; nil once disarmed.
	drop func(slot any) error
}

// New stores v in a new Value, binding the identity, duplication and
// teardown of T while T is still known.
func New[T any](v T) *Value {
	s := st.Load()

	slot := new(T)
	*slot = v

	return &Value{
		info:  identity(s, reflect.TypeFor[T]()),
		slot:  slot,
		clone: cloner[T](s.cfg.Clone == apis.CloneDeep),
		drop:  dropper[T](),
	}
}

// Type returns the identity the Value was created with.
func (v *Value) Type() typeinfo.Type {
	if v == nil {
		return typeinfo.Type{}
	}
	return v.info
}

// IsEmpty reports whether the payload was moved out or released.
func (v *Value) IsEmpty() bool {
	return v == nil || v.slot == nil
}

// Clone returns an independent Value with the same identity and a duplicate
// of the payload. Mutations through one are never visible through the other.
// Cloning an empty Value yields an empty Value.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}

	c := &Value{info: v.info, clone: v.clone, drop: v.drop}
	if v.slot != nil {
		c.slot = v.clone(v.slot)
	}
	return c
}

// Release tears the payload down and empties the Value. It runs the teardown
// of the stored type (io.Closer) at most once and returns its error.
// Release after a consuming cast or a previous Release does nothing.
func (v *Value) Release() error {
	if v == nil || v.drop == nil {
		return nil
	}

	drop, slot := v.drop, v.slot
	v.drop, v.slot = nil, nil
	if slot == nil {
		return nil
	}
	return drop(slot)
}

// String renders the stored identity.
func (v *Value) String() string {
	if v.IsEmpty() {
		return "(Dynamic " + v.Type().String() + " <empty>)"
	}
	return "(Dynamic " + v.info.String() + ")"
}

// disarm gives up ownership of the payload without tearing it down.
func (v *Value) disarm() {
	v.drop, v.slot = nil, nil
}

// cloner binds the duplication of T.
func cloner[T any](deep bool) func(any) any {
	return func(slot any) any {
		src := slot.(*T)
		dst := new(T)
		*dst = duplicate(src, deep)
		return dst
	}
}

// duplicate prefers the type's own Clone, then a deep copy, then assignment.
func duplicate[T any](src *T, deep bool) T {
	if c, ok := any(*src).(apis.Cloner[T]); ok && !isNilPointer(c) {
		return c.Clone()
	}
	if c, ok := any(src).(apis.Cloner[T]); ok {
		return c.Clone()
	}
	if deep {
		return uref.DeepCopy(*src)
	}
	return *src
}

// dropper binds the teardown of T.
func dropper[T any]() func(any) error {
	return func(slot any) error {
		p := slot.(*T)
		if c, ok := any(*p).(io.Closer); ok && !isNilPointer(c) {
			return c.Close()
		}
		if c, ok := any(p).(io.Closer); ok {
			return c.Close()
		}
		return nil
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
