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

package apis

import "go.uber.org/zap"

// Config carries read-only knobs that influence identity derivation and
// value duplication. It is passed by value and should be treated as
// immutable by implementations.
type Config struct {
	// MaxDepth limits how deep composite types (pointers, slices, maps,
	// type arguments) are decomposed when deriving a descriptor by
	// reflection. Anything deeper is described by its Go spelling alone.
	MaxDepth int

	// ModuleVersions controls whether reflect-derived descriptors carry the
	// defining module path and version from the binary's build information.
	// If false, Module and Version are left empty.
	ModuleVersions bool

	// Clone controls how values whose type has no Clone method are
	// duplicated. The zero value deep-copies.
	Clone CloneMode

	// Logger receives diagnostics. A nil Logger discards them.
	Logger *zap.Logger
}

// Log returns the configured logger, or a no-op logger if none is set.
func (c Config) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
