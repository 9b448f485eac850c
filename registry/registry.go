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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/dynamic/apis"
	"dirpx.dev/dynamic/typeinfo"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("dynamic(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when a descriptor without a type name is provided.
	ErrEmptyName = errors.New("dynamic(registry): descriptor has no type name")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different descriptor.
	ErrConflictingRegistration = errors.New("dynamic(registry): conflicting type registration")
	// ErrDuplicateIdentity indicates an attempt to register a descriptor
	// that is already claimed by a different type.
	ErrDuplicateIdentity = errors.New("dynamic(registry): descriptor already claimed by another type")
)

// New constructs a Registry. Only cfg.Logger is used here.
func New(cfg apis.Config) apis.Registry {
	return &registry{log: cfg.Log().Named("registry")}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// log receives registration diagnostics.
	log *zap.Logger
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// byType maps reflect.Type to its declared descriptor.
	byType sync.Map // map[reflect.Type]typeinfo.Type
	// byKey maps descriptor keys back to the declaring type.
	byKey sync.Map // map[string]reflect.Type
	// count tracks the number of registered entries.
	count int
}

// Register declares info as the identity of t.
// It is idempotent for the same (type, descriptor) pair.
func (r *registry) Register(t reflect.Type, info typeinfo.Type) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if err := info.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrEmptyName, err)
	}

	// Fast read path: idempotency / conflict check without locking.
	if done, err := r.check(t, info); done {
		return err
	}

	// Write path: guard with a mutex to keep both indexes and the counter
	// consistent.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if done, err := r.check(t, info); done {
		return err
	}

	r.byType.Store(t, info)
	r.byKey.Store(info.Key(), t)
	r.count++
	r.log.Debug("registered type", zap.Stringer("type", t), zap.Stringer("info", info))
	return nil
}

// check reports whether Register can finish without storing: either the
// same declaration already exists (nil error) or it conflicts.
func (r *registry) check(t reflect.Type, info typeinfo.Type) (bool, error) {
	if old, ok := r.byType.Load(t); ok {
		if old.(typeinfo.Type).Equal(info) {
			return true, nil
		}
		r.log.Debug("conflicting registration",
			zap.Stringer("type", t),
			zap.Stringer("registered", old.(typeinfo.Type)),
			zap.Stringer("requested", info))
		return true, ErrConflictingRegistration
	}
	if owner, ok := r.byKey.Load(info.Key()); ok && owner.(reflect.Type) != t {
		r.log.Debug("duplicate identity",
			zap.Stringer("type", t),
			zap.Stringer("owner", owner.(reflect.Type)),
			zap.Stringer("info", info))
		return true, ErrDuplicateIdentity
	}
	return false, nil
}

// Lookup returns the descriptor declared for t, if any.
func (r *registry) Lookup(t reflect.Type) (typeinfo.Type, bool) {
	if t == nil {
		return typeinfo.Type{}, false
	}
	if v, ok := r.byType.Load(t); ok {
		return v.(typeinfo.Type), true
	}
	return typeinfo.Type{}, false
}

// Find returns the type that declared info, if any.
func (r *registry) Find(info typeinfo.Type) (reflect.Type, bool) {
	if v, ok := r.byKey.Load(info.Key()); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.byType.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Info: value.(typeinfo.Type),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType.Clear()
	r.byKey.Clear()
	r.count = 0
}
