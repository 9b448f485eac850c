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

package typeinfo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// ErrEmptyName is returned by Validate when a descriptor (or one of its
// generic parameters) has no type name.
var ErrEmptyName = errors.New("typeinfo: descriptor has no type name")

// Namespace is the UUID namespace used by Fingerprint.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://dirpx.dev/dynamic/typeinfo"))

// Constructor names used for unnamed composite types. A constructor
// descriptor has an empty Package and carries its element types in Generics.
const (
	Pointer  = "*"
	Slice    = "[]"
	Map      = "map"
	Chan     = "chan"
	RecvChan = "<-chan"
	SendChan = "chan<-"
)

// Type is the structural identity of a concrete Go type.
type Type struct {
	// Module is the path of the module that defines the type
	// (e.g. "dirpx.dev/dynamic"). Empty for builtin and composite types.
	Module string
	// Version is the version of Module the type was compiled from
	// (e.g. "v1.4.0" or "(devel)").
	Version string
	// Package is the import path of the defining package.
	Package string
	// Name is the bare type name, without type arguments.
	Name string
	// Generics lists the descriptors of the type arguments, in order.
	Generics []Type
}

// New returns a descriptor with the given parts.
func New(module, version, pkg, name string, generics ...Type) Type {
	return Type{
		Module:   module,
		Version:  version,
		Package:  pkg,
		Name:     name,
		Generics: generics,
	}
}

// Array returns the constructor name of a fixed-size array of n elements.
func Array(n int) string {
	return "[" + strconv.Itoa(n) + "]"
}

// Equal reports whether t and o describe the same type.
func (t Type) Equal(o Type) bool {
	if t.Name != o.Name ||
		t.Package != o.Package ||
		t.Module != o.Module ||
		t.Version != o.Version ||
		len(t.Generics) != len(o.Generics) {
		return false
	}
	for i := range t.Generics {
		if !t.Generics[i].Equal(o.Generics[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether t is the zero descriptor.
func (t Type) IsZero() bool {
	return t.Name == "" && t.Package == "" && t.Module == "" && t.Version == "" && len(t.Generics) == 0
}

// Validate checks that t and all of its generic parameters are named.
func (t Type) Validate() error {
	if t.Name == "" {
		return ErrEmptyName
	}
	for i, g := range t.Generics {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("typeinfo: generic parameter %d of %s: %w", i, t.Name, err)
		}
	}
	return nil
}

// Key returns the canonical encoding of t. Equal descriptors have equal keys
// and unequal descriptors have unequal keys.
func (t Type) Key() string {
	return string(t.appendKey(nil))
}

// Hash returns a 64-bit hash of the canonical encoding of t.
func (t Type) Hash() uint64 {
	return xxhash.Sum64(t.appendKey(make([]byte, 0, 64)))
}

// Fingerprint returns a name-based UUID derived from the canonical encoding
// of t. It is stable across processes and builds.
func (t Type) Fingerprint() uuid.UUID {
	return uuid.NewSHA1(Namespace, t.appendKey(make([]byte, 0, 64)))
}

// appendKey appends the length-prefixed encoding of t to b.
func (t Type) appendKey(b []byte) []byte {
	for _, s := range [...]string{t.Module, t.Version, t.Package, t.Name} {
		b = strconv.AppendInt(b, int64(len(s)), 10)
		b = append(b, ':')
		b = append(b, s...)
	}
	b = append(b, '<')
	b = strconv.AppendInt(b, int64(len(t.Generics)), 10)
	for _, g := range t.Generics {
		b = append(b, ',')
		b = g.appendKey(b)
	}
	return append(b, '>')
}

// String renders t for diagnostics, e.g.
// "example.com/p.Box[int] (example.com@v1.2.0)".
func (t Type) String() string {
	var sb strings.Builder
	t.render(&sb)
	if t.Module != "" {
		sb.WriteString(" (")
		sb.WriteString(t.Module)
		if t.Version != "" {
			sb.WriteByte('@')
			sb.WriteString(t.Version)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// render writes the Go-like spelling of t without module information.
func (t Type) render(sb *strings.Builder) {
	if t.Package == "" {
		switch {
		case len(t.Generics) == 1 && (t.Name == Pointer || t.Name == Slice || isArray(t.Name)):
			sb.WriteString(t.Name)
			t.Generics[0].render(sb)
			return
		case len(t.Generics) == 1 && (t.Name == Chan || t.Name == RecvChan || t.Name == SendChan):
			sb.WriteString(t.Name)
			sb.WriteByte(' ')
			t.Generics[0].render(sb)
			return
		case len(t.Generics) == 2 && t.Name == Map:
			sb.WriteString("map[")
			t.Generics[0].render(sb)
			sb.WriteByte(']')
			t.Generics[1].render(sb)
			return
		}
	} else {
		sb.WriteString(t.Package)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	if len(t.Generics) == 0 {
		return
	}
	sb.WriteByte('[')
	for i, g := range t.Generics {
		if i > 0 {
			sb.WriteByte(',')
		}
		g.render(sb)
	}
	sb.WriteByte(']')
}

// isArray reports whether name is an array constructor such as "[3]".
func isArray(name string) bool {
	if len(name) < 3 || name[0] != '[' || name[len(name)-1] != ']' {
		return false
	}
	_, err := strconv.Atoi(name[1 : len(name)-1])
	return err == nil
}
