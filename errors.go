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
	"errors"
	"fmt"

	"dirpx.dev/dynamic/typeinfo"
)

var (
	// ErrTypeMismatch is matched by every *MismatchError.
	ErrTypeMismatch = errors.New("dynamic: type mismatch")
	// ErrEmpty is returned for a Value whose payload was moved out or released.
	ErrEmpty = errors.New("dynamic: value is empty")
)

// MismatchError reports a cast to a type whose identity differs from the
// identity the Value was created with.
type MismatchError struct {
	// Expected is the identity of the requested type.
	Expected typeinfo.Type
	// Actual is the identity stored in the Value.
	Actual typeinfo.Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("dynamic: cannot cast from %s to %s", e.Actual, e.Expected)
}

// Is makes errors.Is(err, ErrTypeMismatch) true.
func (e *MismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
