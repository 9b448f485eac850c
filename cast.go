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
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// TryCast returns a copy of the payload if v was created with type T.
func TryCast[T any](v *Value) (T, bool) {
	p, err := slotOf[T](v)
	if err != nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Cast is like TryCast but panics with a *MismatchError (or ErrEmpty) when
// v does not hold a T.
func Cast[T any](v *Value) T {
	return *mustSlot[T](v, "cast")
}

// TryCastMut returns a pointer to the payload if v was created with type T.
// Writes through the pointer are visible to later casts of v.
func TryCastMut[T any](v *Value) (*T, bool) {
	p, err := slotOf[T](v)
	if err != nil {
		return nil, false
	}
	return p, true
}

// CastMut is like TryCastMut but panics when v does not hold a T.
func CastMut[T any](v *Value) *T {
	return mustSlot[T](v, "cast mut")
}

// TryIntoCast moves the payload out of v if v was created with type T.
// On success v becomes empty and its teardown will never run; the caller
// owns the payload. On failure v is left untouched.
func TryIntoCast[T any](v *Value) (T, bool) {
	p, err := slotOf[T](v)
	if err != nil {
		var zero T
		return zero, false
	}
	out := *p
	v.disarm()
	return out, true
}

// IntoCast is like TryIntoCast but panics when v does not hold a T.
func IntoCast[T any](v *Value) T {
	out := *mustSlot[T](v, "into cast")
	v.disarm()
	return out
}

// Assert returns a copy of the payload, or an error matching
// ErrTypeMismatch or ErrEmpty.
func Assert[T any](v *Value) (T, error) {
	p, err := slotOf[T](v)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Is reports whether v was created with type T. It does not look at
// whether the payload is still present.
func Is[T any](v *Value) bool {
	return v.Type().Equal(TypeOf[T]())
}

// slotOf checks the identity of T against v and asserts the slot.
func slotOf[T any](v *Value) (*T, error) {
	if v.IsEmpty() {
		return nil, ErrEmpty
	}

	s := st.Load()
	want := identity(s, reflect.TypeFor[T]())
	if !v.info.Equal(want) {
		return nil, &MismatchError{Expected: want, Actual: v.info}
	}

	p, ok := v.slot.(*T)
	if !ok {
		s.cfg.Log().Warn("identity collision",
			zap.Stringer("type", want),
			zap.String("stored", fmt.Sprintf("%T", v.slot)),
			zap.String("requested", fmt.Sprintf("%T", p)))
		return nil, &MismatchError{Expected: want, Actual: v.info}
	}
	return p, nil
}

func mustSlot[T any](v *Value, op string) *T {
	p, err := slotOf[T](v)
	if err != nil {
		Config().Log().Error("fatal "+op, zap.Error(err))
		panic(err)
	}
	return p
}
