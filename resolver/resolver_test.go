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

package resolver_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/resolver"
	"dirpx.dev/dynamic/typeinfo"
)

// fixed resolves a single type to a fixed descriptor and counts calls.
type fixed struct {
	t     reflect.Type
	info  typeinfo.Type
	calls int
}

func (f *fixed) TryResolve(v any, cfg apis.Config) (typeinfo.Type, bool) {
	return f.TryResolveType(reflect.TypeOf(v), cfg)
}

func (f *fixed) TryResolveType(t reflect.Type, _ apis.Config) (typeinfo.Type, bool) {
	f.calls++
	if t != f.t {
		return typeinfo.Type{}, false
	}
	return f.info, true
}

func TestChain_FirstMatchWins(t *testing.T) {
	first := &fixed{t: reflect.TypeFor[int](), info: typeinfo.Type{Name: "first"}}
	second := &fixed{t: reflect.TypeFor[int](), info: typeinfo.Type{Name: "second"}}
	r := resolver.New(first, nil, second)

	assert.Equal(t, "first", r.ResolveType(reflect.TypeFor[int](), apis.Config{}).Name)
	assert.Equal(t, "first", r.Resolve(7, apis.Config{}).Name)
	assert.Zero(t, second.calls, "later strategies are not consulted after a match")
}

func TestChain_FallsThrough(t *testing.T) {
	ints := &fixed{t: reflect.TypeFor[int](), info: typeinfo.Type{Name: "int"}}
	strs := &fixed{t: reflect.TypeFor[string](), info: typeinfo.Type{Name: "string"}}
	r := resolver.New(ints, strs)

	assert.Equal(t, "string", r.Resolve("x", apis.Config{}).Name)
	assert.True(t, r.Resolve(1.5, apis.Config{}).IsZero(), "no strategy matched")
	assert.True(t, resolver.New().ResolveType(reflect.TypeFor[int](), apis.Config{}).IsZero())
}
