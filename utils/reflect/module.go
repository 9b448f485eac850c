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

package reflect

import (
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// Module is a module path and the version it was built from.
type Module struct {
	Path    string
	Version string
}

// StdModule is the module path reported for standard library packages.
const StdModule = "std"

// Modules maps package import paths to the modules that provide them.
type Modules struct {
	mods  []Module
	cache sync.Map // map[string]Module
}

// NewModules indexes the main module and dependencies listed in bi.
// Replaced dependencies report the replacement's version when it has one.
func NewModules(bi *debug.BuildInfo) *Modules {
	m := &Modules{}
	if bi == nil {
		return m
	}
	if bi.Main.Path != "" {
		m.mods = append(m.mods, Module{Path: bi.Main.Path, Version: bi.Main.Version})
	}
	for _, d := range bi.Deps {
		if d == nil {
			continue
		}
		v := d.Version
		if d.Replace != nil && d.Replace.Version != "" {
			v = d.Replace.Version
		}
		m.mods = append(m.mods, Module{Path: d.Path, Version: v})
	}
	return m
}

// Lookup returns the module that provides pkgPath, choosing the longest
// matching module path. Standard library packages report StdModule with
// the Go toolchain version.
func (m *Modules) Lookup(pkgPath string) (Module, bool) {
	if pkgPath == "" {
		return Module{}, false
	}
	if v, ok := m.cache.Load(pkgPath); ok {
		mod := v.(Module)
		return mod, mod.Path != ""
	}

	// External test packages ("p_test") belong to the module of p.
	path := strings.TrimSuffix(pkgPath, "_test")

	var best Module
	for _, mod := range m.mods {
		if len(mod.Path) <= len(best.Path) {
			continue
		}
		if path == mod.Path || strings.HasPrefix(path, mod.Path+"/") {
			best = mod
		}
	}
	if best.Path == "" && isStd(path) {
		best = Module{Path: StdModule, Version: runtime.Version()}
	}

	m.cache.Store(pkgPath, best)
	return best, best.Path != ""
}

// isStd reports whether pkgPath looks like a standard library package:
// its first element has no dot. "main" is never std.
func isStd(pkgPath string) bool {
	if pkgPath == "main" {
		return false
	}
	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}

// buildModules indexes the running binary's build information once.
var buildModules = sync.OnceValue(func() *Modules {
	bi, _ := debug.ReadBuildInfo()
	return NewModules(bi)
})

// ModuleOf returns the module of the running binary that provides pkgPath.
func ModuleOf(pkgPath string) (Module, bool) {
	return buildModules().Lookup(pkgPath)
}
