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
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/builder"
	"dirpx.dev/dynamic/config"
	"dirpx.dev/dynamic/typeinfo"
)

// init initializes the global state.
func init() {
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.res = b.BuildResolver(s.cfg, s.reg, nil, nil)
	s.bld = b
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("dynamic: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("dynamic: builder returned nil resolver")
	// ErrAlreadyResolved is returned when registering a descriptor for a type
	// whose identity was already fixed with a different descriptor.
	ErrAlreadyResolved = errors.New("dynamic: type identity already resolved")
)

// identities fixes the descriptor of each type the first time it is
// resolved, so Values keep matching their type across reconfigurations.
var identities sync.Map // map[reflect.Type]typeinfo.Type

// identity returns the fixed descriptor of t, resolving it with s on first
// use. Zero descriptors are not fixed.
func identity(s *state, t reflect.Type) typeinfo.Type {
	if t == nil {
		return typeinfo.Type{}
	}
	if info, ok := identities.Load(t); ok {
		return info.(typeinfo.Type)
	}
	info := s.res.ResolveType(t, s.cfg)
	if info.IsZero() {
		return info
	}
	actual, _ := identities.LoadOrStore(t, info)
	return actual.(typeinfo.Type)
}

// TypeOf returns the descriptor of T using the global resolver.
func TypeOf[T any]() typeinfo.Type {
	return TypeFor(reflect.TypeFor[T]())
}

// TypeFor returns the descriptor of t. The first resolution goes through
// the global resolver; later calls return the same descriptor for the rest
// of the process, whatever the configuration or registry say by then.
func TypeFor(t reflect.Type) typeinfo.Type {
	return identity(st.Load(), t)
}

// TypeOfValue returns the descriptor of v's dynamic type, like TypeFor.
func TypeOfValue(v any) typeinfo.Type {
	return identity(st.Load(), reflect.TypeOf(v))
}

// Register declares info as the identity of T in the global registry.
func Register[T any](info typeinfo.Type) error {
	return RegisterType(reflect.TypeFor[T](), info)
}

// RegisterType declares info as the identity of t in the global registry
// and fixes it. Registering a type whose identity was already resolved to a
// different descriptor fails with ErrAlreadyResolved.
func RegisterType(t reflect.Type, info typeinfo.Type) error {
	if err := checkResolved(t, info); err != nil {
		return err
	}
	if err := st.Load().reg.Register(t, info); err != nil {
		return err
	}
	if t == nil {
		return nil
	}
	// A concurrent first resolution may have fixed t in between.
	if actual, loaded := identities.LoadOrStore(t, info); loaded && !actual.(typeinfo.Type).Equal(info) {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, t, actual.(typeinfo.Type))
	}
	return nil
}

// checkResolved fails if t's fixed identity differs from info.
func checkResolved(t reflect.Type, info typeinfo.Type) error {
	if t == nil {
		return nil
	}
	fixed, ok := identities.Load(t)
	if !ok || fixed.(typeinfo.Type).Equal(info) {
		return nil
	}
	return fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, t, fixed.(typeinfo.Type))
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// An explicitly provided layer is pinned; a missing one is rebuilt.
	nreg, npreg := reg, reg != nil
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, ext)
	}
	nres, npres := res, res != nil
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg, old.res, ext)
	}

	publish(&state{
		cfg:  ncfg,
		ext:  ext,
		reg:  nreg,
		res:  nres,
		bld:  nbld,
		preg: npreg,
		pres: npres,
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the
// non-pinned registry and resolver.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.cfg = cfg
	rebuild(&next, old)
	publish(&next)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry, rebuilding the resolver
// unless it is pinned. A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.reg, next.preg = reg, true
	if !next.pres {
		next.res = next.bld.BuildResolver(next.cfg, reg, old.res, next.ext)
	}
	publish(&next)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets and pins the global resolver. A nil res is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.res, next.pres = res, true
	publish(&next)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds the non-pinned registry
// and resolver with it. A nil b is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.bld = b
	rebuild(&next, old)
	publish(&next)
}

// SetExt replaces the extension payload and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.ext = ext
	rebuild(&next, old)
	publish(&next)
}

// ExtAs returns the global extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops automatic rebuilds of the global registry.
func PinRegistry() {
	setPins(func(s *state) { s.preg = true })
}

// UnpinRegistry re-enables automatic rebuilds of the global registry.
func UnpinRegistry() {
	setPins(func(s *state) { s.preg = false })
}

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops automatic rebuilds of the global resolver.
func PinResolver() {
	setPins(func(s *state) { s.pres = true })
}

// UnpinResolver re-enables automatic rebuilds of the global resolver.
func UnpinResolver() {
	setPins(func(s *state) { s.pres = false })
}

// setPins publishes a copy of the current state with pins changed by fn.
func setPins(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	fn(&next)
	publish(&next)
}

// rebuild rebuilds the non-pinned layers of next from its cfg, ext and bld,
// migrating from old.
func rebuild(next, old *state) {
	if !next.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg, next.ext)
	}
	if !next.pres {
		next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res, next.ext)
	}
}

// publish validates s and stores it atomically. Callers hold buildMu.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	st.Store(s)
	s.cfg.Log().Debug("published state",
		zap.Bool("registry_pinned", s.preg),
		zap.Bool("resolver_pinned", s.pres),
		zap.Int("registered", s.reg.Count()))
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers copy it, change the copy and swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the global extension payload.
	ext any
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the registry is pinned.
	preg bool
	// pres indicates whether the resolver is pinned.
	pres bool
}
