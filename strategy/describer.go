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

package strategy

import (
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/typeinfo"
)

// describerType is the reflect.Type of apis.Describer.
var describerType = reflect.TypeFor[apis.Describer]()

// NewDescriberStrategy creates an apis.Strategy that uses apis.Describer.
func NewDescriberStrategy() apis.Strategy {
	return &describerStrategy{}
}

// describerStrategy is a zero-cost fast path: if the type declares its own
// descriptor via DynamicType, return it and stop the chain.
type describerStrategy struct{}

// Ensure describerStrategy implements apis.Strategy.
var _ apis.Strategy = (*describerStrategy)(nil)

// TryResolve checks if v's type declares a descriptor.
func (s *describerStrategy) TryResolve(v any, cfg apis.Config) (typeinfo.Type, bool) {
	if v == nil {
		return typeinfo.Type{}, false
	}
	return s.TryResolveType(reflect.TypeOf(v), cfg)
}

// TryResolveType calls DynamicType on the zero value of t.
func (*describerStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (typeinfo.Type, bool) {
	if !declares(t) {
		return typeinfo.Type{}, false
	}
	info := reflect.Zero(t).Interface().(apis.Describer).DynamicType()
	if err := info.Validate(); err != nil {
		cfg.Log().Warn("ignoring invalid declared descriptor",
			zap.Stringer("type", t), zap.Error(err))
		return typeinfo.Type{}, false
	}
	return info, true
}

// declares reports whether t itself declares DynamicType. Interfaces never
// do, and *T does not inherit a value-receiver declaration of T.
func declares(t reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Interface || !t.Implements(describerType) {
		return false
	}
	if t.Kind() == reflect.Pointer && t.Elem().Implements(describerType) {
		return false
	}
	return true
}
