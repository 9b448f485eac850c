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
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/typeinfo"
)

func flag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// resetWithBuilder installs a clean snapshot built by b and restores the
// previous global state when the test ends. Pins are reset because reg and
// res are nil.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	prev := st.Load()
	tb.Cleanup(func() { st.Store(prev) })
	SetAll(&cfg, ext, nil, nil, b)
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[reflect.Type]typeinfo.Type
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[reflect.Type]typeinfo.Type)}
}

func (m *mockRegistry) Register(t reflect.Type, info typeinfo.Type) error {
	m.mu.Lock()
	m.data[t] = info
	m.mu.Unlock()
	return nil
}
func (m *mockRegistry) Lookup(t reflect.Type) (typeinfo.Type, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.data[t]
	return info, ok
}
func (m *mockRegistry) Find(info typeinfo.Type) (reflect.Type, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for t, i := range m.data {
		if i.Equal(info) {
			return t, true
		}
	}
	return nil, false
}
func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, info := range m.data {
		out = append(out, apis.Entry{Type: t, Info: info})
	}
	return out
}
func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset() {
	m.mu.Lock()
	m.data = make(map[reflect.Type]typeinfo.Type)
	m.mu.Unlock()
}

type mockResolver struct {
	id       string
	resolveC int
	mu       sync.Mutex
}

func (r *mockResolver) Resolve(v any, cfg apis.Config) typeinfo.Type {
	return r.ResolveType(reflect.TypeOf(v), cfg)
}

func (r *mockResolver) ResolveType(t reflect.Type, cfg apis.Config) typeinfo.Type {
	r.mu.Lock()
	r.resolveC++
	r.mu.Unlock()
	name := "<nil>"
	if t != nil {
		name = t.String()
	}
	return typeinfo.Type{
		Module: r.id,
		Name:   flag(cfg.ModuleVersions) + ":" + cfg.Clone.String() + ":" + strconv.Itoa(cfg.MaxDepth) + ":" + name,
	}
}

type mockBuilder struct {
	mu             sync.Mutex
	lastCfg        apis.Config
	lastExt        any
	lastPrevRegID  string
	lastPrevResID  string
	regCounter     int
	resCounter     int
	returnFixedReg apis.Registry
	returnFixedRes apis.Resolver
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	if b.returnFixedReg != nil {
		return b.returnFixedReg
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	if b.returnFixedRes != nil {
		return b.returnFixedRes
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) counters() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter
}

type nilRegistryBuilder struct{ mockBuilder }

func (*nilRegistryBuilder) BuildRegistry(apis.Config, apis.Registry, any) apis.Registry {
	return nil
}

// ---------------------- Tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8, Clone: apis.CloneShallow}, nil)

	s1Reg, s1Res := Registry(), Resolver()

	SetConfig(apis.Config{MaxDepth: 4, ModuleVersions: true})

	assert.NotSame(t, s1Reg, Registry(), "registry was not rebuilt on SetConfig (unpinned)")
	assert.NotSame(t, s1Res, Resolver(), "resolver was not rebuilt on SetConfig (unpinned)")

	b.mu.Lock()
	got := b.lastCfg
	prevReg, prevRes := b.lastPrevRegID, b.lastPrevResID
	b.mu.Unlock()
	assert.Equal(t, 4, got.MaxDepth)
	assert.True(t, got.ModuleVersions)
	assert.Equal(t, apis.CloneDeep, got.Clone)
	assert.Equal(t, "reg#1", prevReg, "builder should migrate from the previous registry")
	assert.Equal(t, "res#1", prevRes, "builder should see the previous resolver")
	assert.Equal(t, 4, Config().MaxDepth)
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	custom := newMockRegistry("custom")
	SetRegistry(custom)
	require.True(t, IsRegistryPinned())

	before := Resolver()
	SetConfig(apis.Config{MaxDepth: 8, Clone: apis.CloneShallow})

	assert.Same(t, custom, Registry(), "pinned registry was rebuilt unexpectedly")
	assert.NotSame(t, before, Resolver(), "resolver was not rebuilt when cfg changed and res not pinned")
}

func TestSetRegistry_Nil_Ignored(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	reg := Registry()
	SetRegistry(nil)
	SetResolver(nil)
	SetBuilder(nil)

	assert.Same(t, reg, Registry())
	assert.False(t, IsRegistryPinned())
	assert.False(t, IsResolverPinned())
	assert.Same(t, b, Builder())
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	custom := &mockResolver{id: "custom"}
	SetResolver(custom)
	require.True(t, IsResolverPinned())

	regBefore := Registry()
	SetConfig(apis.Config{MaxDepth: 8, ModuleVersions: true})

	assert.Same(t, custom, Resolver(), "pinned resolver was rebuilt unexpectedly")
	assert.NotSame(t, regBefore, Registry(), "registry was not rebuilt on SetConfig when resolver is pinned")
	type resolvedByCustom struct{}
	assert.Equal(t, "custom", TypeOf[resolvedByCustom]().Module)
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, apis.Config{MaxDepth: 8}, nil)

	SetResolver(&mockResolver{id: "pinned"})
	regBefore, resBefore := Registry(), Resolver()

	b := &mockBuilder{}
	SetBuilder(b)
	assert.Same(t, b, Builder())

	SetConfig(apis.Config{MaxDepth: 6, Clone: apis.CloneShallow})

	assert.NotSame(t, regBefore, Registry(), "registry did not rebuild after SetBuilder + SetConfig (unpinned)")
	assert.Same(t, resBefore, Resolver(), "pinned resolver was rebuilt after SetBuilder + SetConfig")

	regs, ress := b.counters()
	assert.Positive(t, regs)
	assert.Zero(t, ress)
}

func TestSetExt_Rebuilds_Unpinned_and_PassesValue(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	ec, ok := got.(extCfg)
	require.True(t, ok, "builder did not receive ext: %#v", got)
	assert.Equal(t, 42, ec.X)

	ext, ok := ExtAs[extCfg]()
	require.True(t, ok)
	assert.Equal(t, 42, ext.X)
	_, ok = ExtAs[string]()
	assert.False(t, ok)

	SetRegistry(Registry())
	SetResolver(Resolver())
	rBefore, sBefore := b.counters()
	SetExt(extCfg{X: 7})
	rAfter, sAfter := b.counters()
	assert.Equal(t, rBefore, rAfter, "SetExt should not rebuild a pinned registry")
	assert.Equal(t, sBefore, sAfter, "SetExt should not rebuild a pinned resolver")
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	PinRegistry()
	PinResolver()

	reg1, res1 := Registry(), Resolver()
	SetConfig(apis.Config{MaxDepth: 4, ModuleVersions: true})
	require.Same(t, reg1, Registry(), "pinned layers should not rebuild on SetConfig")
	require.Same(t, res1, Resolver(), "pinned layers should not rebuild on SetConfig")

	UnpinRegistry()
	UnpinResolver()
	SetConfig(apis.Config{MaxDepth: 6})
	assert.NotSame(t, reg1, Registry(), "registry should rebuild after UnpinRegistry+SetConfig")
	assert.NotSame(t, res1, Resolver(), "resolver should rebuild after UnpinResolver+SetConfig")
}

func TestSetAll_PinsExplicitLayers(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, "ext")

	reg := newMockRegistry("given")
	res := &mockResolver{id: "given"}
	cfg := apis.Config{MaxDepth: 3}
	SetAll(&cfg, nil, reg, res, nil)

	assert.Same(t, reg, Registry())
	assert.Same(t, res, Resolver())
	assert.True(t, IsRegistryPinned())
	assert.True(t, IsResolverPinned())
	assert.Same(t, b, Builder(), "nil builder keeps the current one")
	assert.Equal(t, 3, Config().MaxDepth)
	_, ok := ExtAs[string]()
	assert.False(t, ok, "ext is always replaced")
}

func TestPublish_NilRegistry_Panics(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, apis.Config{MaxDepth: 8}, nil)

	assert.PanicsWithValue(t, ErrNilRegistry, func() {
		SetBuilder(&nilRegistryBuilder{})
	})
	assert.NotNil(t, Registry(), "failed publish must keep the previous snapshot")
}

func TestRegister_UsesGlobalRegistry(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	type widget struct{}
	info := typeinfo.New("example.com/w", "v1.0.0", "example.com/w", "Widget")
	require.NoError(t, Register[widget](info))

	got, ok := Registry().Lookup(reflect.TypeFor[widget]())
	require.True(t, ok)
	assert.True(t, got.Equal(info))
}

func TestIdentity_FixedOnFirstResolution(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	type fixedT struct{}
	first := TypeOf[fixedT]()
	require.Equal(t, "res#1", first.Module)

	SetConfig(apis.Config{MaxDepth: 4})
	require.NotEqual(t, "res#1", Resolver().ResolveType(reflect.TypeFor[fixedT](), Config()).Module)
	assert.True(t, TypeOf[fixedT]().Equal(first), "rebuilt resolver must not change a fixed identity")
	assert.True(t, TypeOfValue(fixedT{}).Equal(first))

	err := Register[fixedT](typeinfo.New("example.com/f", "v1.0.0", "example.com/f", "Fixed"))
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Zero(t, Registry().Count(), "a rejected registration must not reach the registry")
	assert.NoError(t, Register[fixedT](first), "registering the fixed identity is allowed")
}

func TestRegister_FixesIdentity(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	type declared struct{}
	info := typeinfo.New("example.com/d", "v1.0.0", "example.com/d", "Declared")
	require.NoError(t, Register[declared](info))

	// The mock resolver ignores the registry; the fixed identity still wins.
	assert.True(t, TypeOf[declared]().Equal(info))
	assert.NoError(t, RegisterType(nil, info), "nil types are left to the registry")
}

func TestPublish_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	resetWithBuilder(t, &mockBuilder{}, apis.Config{MaxDepth: 8, Logger: zap.New(core)}, nil)

	PinRegistry()

	entries := logs.FilterMessage("published state").All()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1].ContextMap()
	assert.Equal(t, true, last["registry_pinned"])
	assert.Equal(t, false, last["resolver_pinned"])
}

func TestTypeOf_Concurrent_With_SetConfig(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	type token struct{}
	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = TypeOfValue(token{})
				_ = TypeOf[token]()
				_ = New(token{})
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(apis.Config{
				ModuleVersions: i%2 == 0,
				Clone:          apis.CloneMode(i % 2),
				MaxDepth:       4 + (i % 5),
			})
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}
