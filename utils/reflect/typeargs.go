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
	"strings"

	"dirpx.dev/dynamic/typeinfo"
)

// SplitTypeArgs splits a generic instantiation name such as
// "Pair[int,example.com/p.X]" into its base name and the spellings of its
// type arguments. Names without type arguments are returned unchanged.
func SplitTypeArgs(name string) (base string, args []string) {
	i := strings.IndexByte(name, '[')
	if i < 0 || !strings.HasSuffix(name, "]") {
		return name, nil
	}
	return name[:i], splitTopLevel(name[i+1 : len(name)-1])
}

// splitTopLevel splits s at commas that are not nested inside brackets,
// parentheses or braces.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// ParseType derives a descriptor from the reflect spelling of a type, as it
// appears inside generic instantiation names (e.g. "*example.com/p.X",
// "map[string][]int", "example.com/p.Box[int]"). Composites become
// constructor descriptors, qualified names are split into package and name.
// Spellings nested deeper than maxDepth, and func/struct/interface literals,
// are kept verbatim as the Name.
func ParseType(s string, versions bool, maxDepth int) typeinfo.Type {
	s = strings.TrimSpace(s)
	if maxDepth <= 0 {
		return typeinfo.Type{Name: s}
	}
	next := maxDepth - 1

	switch {
	case strings.HasPrefix(s, "*"):
		return composite(typeinfo.Pointer, ParseType(s[1:], versions, next))
	case strings.HasPrefix(s, "[]"):
		return composite(typeinfo.Slice, ParseType(s[2:], versions, next))
	case strings.HasPrefix(s, "map["):
		if end := closing(s, len("map")); end > 0 {
			return composite(typeinfo.Map,
				ParseType(s[len("map["):end], versions, next),
				ParseType(s[end+1:], versions, next))
		}
	case strings.HasPrefix(s, "["):
		if end := closing(s, 0); end > 0 {
			return composite(s[:end+1], ParseType(s[end+1:], versions, next))
		}
	case strings.HasPrefix(s, "<-chan "):
		return composite(typeinfo.RecvChan, ParseType(s[len("<-chan "):], versions, next))
	case strings.HasPrefix(s, "chan<- "):
		return composite(typeinfo.SendChan, ParseType(s[len("chan<- "):], versions, next))
	case strings.HasPrefix(s, "chan "):
		return composite(typeinfo.Chan, ParseType(s[len("chan "):], versions, next))
	case strings.HasPrefix(s, "func("), strings.HasPrefix(s, "struct {"), strings.HasPrefix(s, "interface {"):
		return typeinfo.Type{Name: s}
	}

	base, args := SplitTypeArgs(s)
	info := typeinfo.Type{Name: base}
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		info.Package, info.Name = base[:dot], base[dot+1:]
	}
	if versions && info.Package != "" {
		if m, ok := ModuleOf(info.Package); ok {
			info.Module, info.Version = m.Path, m.Version
		}
	}
	if len(args) > 0 {
		info.Generics = make([]typeinfo.Type, len(args))
		for i, a := range args {
			info.Generics[i] = ParseType(a, versions, next)
		}
	}
	return info
}

func composite(ctor string, elems ...typeinfo.Type) typeinfo.Type {
	return typeinfo.Type{Name: ctor, Generics: elems}
}

// closing returns the index of the ']' matching the '[' at s[open], or -1.
func closing(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
