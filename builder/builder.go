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

package builder

import (
	"reflect"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/registry"
	"dirpx.dev/dynamic/resolver"
	"dirpx.dev/dynamic/strategy"
	"dirpx.dev/dynamic/typeinfo"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry for cfg. If a previous registry
// is provided, its declarations are copied into the new one.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Info)
		}
	}
	return nreg
}

// BuildResolver builds the default chain: declared descriptors first, then
// registered ones, then reflection. Element types of composites are resolved
// through the whole chain, so *T and []T embed T's declared identity.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	var res apis.Resolver
	elem := func(t reflect.Type, cfg apis.Config) typeinfo.Type {
		return res.ResolveType(t, cfg)
	}
	res = resolver.New(
		strategy.NewDescriberStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(elem),
	)
	return res
}
