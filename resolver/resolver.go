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

package resolver

import (
	"reflect"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/typeinfo"
)

// New returns a resolver that asks each strategy in turn for a descriptor
// and keeps the first one produced. Order is priority: the default build
// puts declared descriptors before registered ones and both before derived
// ones. Nil strategies are dropped.
//
// The resolver holds no state of its own and is as safe for concurrent use
// as the strategies it wraps.
func New(strategies ...apis.Strategy) apis.Resolver {
	c := chain{strats: make([]apis.Strategy, 0, len(strategies))}
	for _, s := range strategies {
		if s != nil {
			c.strats = append(c.strats, s)
		}
	}
	return c
}

// chain is an ordered list of strategies, fixed at construction.
type chain struct {
	strats []apis.Strategy
}

// Resolve describes the dynamic type of v. A nil v, or a type no strategy
// accepts, yields the zero descriptor, which callers read as "unknown".
func (c chain) Resolve(v any, cfg apis.Config) typeinfo.Type {
	return c.first(func(s apis.Strategy) (typeinfo.Type, bool) {
		return s.TryResolve(v, cfg)
	})
}

// ResolveType describes t the same way Resolve describes a value's type.
func (c chain) ResolveType(t reflect.Type, cfg apis.Config) typeinfo.Type {
	return c.first(func(s apis.Strategy) (typeinfo.Type, bool) {
		return s.TryResolveType(t, cfg)
	})
}

// first returns the descriptor from the first strategy that accepts.
func (c chain) first(try func(apis.Strategy) (typeinfo.Type, bool)) typeinfo.Type {
	for _, s := range c.strats {
		if info, ok := try(s); ok {
			return info
		}
	}
	return typeinfo.Type{}
}
