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
	"sync"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/config"
	"dirpx.dev/dynamic/typeinfo"
	uref "dirpx.dev/dynamic/utils/reflect"
)

// ElemFunc resolves the descriptor of an element type of a composite
// (the E of *E, []E, map[K]E, ...). Passing the enclosing resolver lets
// element types use declared and registered descriptors too.
type ElemFunc func(t reflect.Type, cfg apis.Config) typeinfo.Type

// NewReflectStrategy creates an apis.Strategy that derives descriptors via
// reflection. Element types of composites are resolved through elem; a nil
// elem resolves them with the reflect strategy itself.
func NewReflectStrategy(elem ElemFunc) apis.Strategy {
	s := &reflectStrategy{elem: elem}
	if s.elem == nil {
		s.elem = func(t reflect.Type, cfg apis.Config) typeinfo.Type {
			return s.describe(t, cfg)
		}
	}
	return s
}

// reflectStrategy is the universal fallback. Leaves (named types, builtins,
// func/struct/interface literals) are derived from reflect data and the
// build information; composites become constructor descriptors over their
// element types.
type reflectStrategy struct {
	elem ElemFunc
}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect derivation.
type cacheKey struct {
	t        reflect.Type
	versions bool
	maxDepth int16
}

// leafCache caches derived leaf descriptors by (type, config knobs).
var leafCache sync.Map // key: cacheKey, val: typeinfo.Type

// TryResolve derives the descriptor of v's dynamic type.
func (s *reflectStrategy) TryResolve(v any, cfg apis.Config) (typeinfo.Type, bool) {
	if v == nil {
		return typeinfo.Type{}, false
	}
	return s.describe(reflect.TypeOf(v), cfg), true
}

// TryResolveType derives the descriptor of t.
func (s *reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (typeinfo.Type, bool) {
	if t == nil {
		return typeinfo.Type{}, false
	}
	return s.describe(t, cfg), true
}

// describe builds the descriptor of t.
func (s *reflectStrategy) describe(t reflect.Type, cfg apis.Config) typeinfo.Type {
	ctor, elems, ok := uref.Decompose(t)
	if !ok {
		return leaf(t, cfg)
	}
	info := typeinfo.Type{Name: ctor, Generics: make([]typeinfo.Type, len(elems))}
	for i, e := range elems {
		info.Generics[i] = s.elem(e, cfg)
	}
	return info
}

// leaf derives the descriptor of a leaf type with memoization.
func leaf(t reflect.Type, cfg apis.Config) typeinfo.Type {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	key := cacheKey{
		t:        t,
		versions: cfg.ModuleVersions,
		maxDepth: int16(cfg.MaxDepth),
	}
	if v, ok := leafCache.Load(key); ok {
		return v.(typeinfo.Type)
	}

	info, err := uref.Named(t, cfg.ModuleVersions, cfg.MaxDepth)
	if err != nil {
		return typeinfo.Type{}
	}

	leafCache.Store(key, info)
	return info
}
