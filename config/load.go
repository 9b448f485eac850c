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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/dynamic/apis"
)

// Keys recognized by Load. Environment overrides use the EnvPrefix and
// upper-case the key with dots replaced by underscores
// (e.g. DYNAMIC_LOG_LEVEL).
const (
	KeyMaxDepth       = "max_depth"
	KeyModuleVersions = "module_versions"
	KeyClone          = "clone"
	KeyLogLevel       = "log.level"
	KeyLogDevelopment = "log.development"

	// EnvPrefix is the prefix of environment overrides.
	EnvPrefix = "DYNAMIC"
)

var (
	// ErrInvalidLogLevel is returned when the configured log level is unknown.
	ErrInvalidLogLevel = errors.New("dynamic(config): invalid log level")
	// ErrInvalidClone is returned when the configured clone mode is unknown.
	ErrInvalidClone = errors.New("dynamic(config): invalid clone mode")
)

// Load reads configuration from the file at path (any format viper
// understands) and from DYNAMIC_* environment variables. An empty path
// reads the environment only. Unset keys keep their defaults.
// If log.level is set, a zap logger is built and attached to the result.
func Load(path string) (apis.Config, error) {
	v := viper.New()

	v.SetDefault(KeyMaxDepth, DefaultMaxDepth)
	v.SetDefault(KeyModuleVersions, DefaultModuleVersions)
	v.SetDefault(KeyClone, DefaultClone.String())
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogDevelopment, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return apis.Config{}, fmt.Errorf("dynamic(config): read %s: %w", path, err)
		}
	}

	mode, err := apis.ParseCloneMode(v.GetString(KeyClone))
	if err != nil {
		return apis.Config{}, fmt.Errorf("%w: %w", ErrInvalidClone, err)
	}

	cfg := NewConfig(
		WithMaxDepth(v.GetInt(KeyMaxDepth)),
		WithModuleVersions(v.GetBool(KeyModuleVersions)),
		WithClone(mode),
	)

	if level := v.GetString(KeyLogLevel); level != "" {
		l, err := NewLogger(level, v.GetBool(KeyLogDevelopment))
		if err != nil {
			return apis.Config{}, err
		}
		cfg.Logger = l
	}
	return cfg, nil
}

// NewLogger builds a zap logger at the given level ("debug", "info", "warn",
// "error"). development selects zap's development encoder and settings.
func NewLogger(level string, development bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}

	zc := zap.NewProductionConfig()
	if development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("dynamic(config): build logger: %w", err)
	}
	return l.Named("dynamic"), nil
}
