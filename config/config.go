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

package config

import (
	"go.uber.org/zap"

	"dirpx.dev/dynamic/apis"
)

const (
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 16 should be sufficient for all practical purposes.
	DefaultMaxDepth = 16
	// DefaultModuleVersions represents the default for ModuleVersions.
	// When true, derived descriptors carry the module path and version.
	DefaultModuleVersions = true
	// DefaultClone represents the default for Clone.
	DefaultClone = apis.CloneDeep
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxDepth:       DefaultMaxDepth,
		ModuleVersions: DefaultModuleVersions,
		Clone:          DefaultClone,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}

// WithModuleVersions sets the ModuleVersions option.
func WithModuleVersions(enabled bool) Option {
	return func(c *apis.Config) {
		c.ModuleVersions = enabled
	}
}

// WithClone sets the Clone option.
func WithClone(mode apis.CloneMode) Option {
	return func(c *apis.Config) {
		c.Clone = mode
	}
}

// WithLogger sets the Logger option.
func WithLogger(l *zap.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}
