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

import (
	"fmt"
	"strings"
)

// CloneMode selects how a value whose type has no Clone method is
// duplicated.
//
// # Values
//
//   - CloneDeep: reflective deep copy; pointers, slices, maps and
//     interfaces are duplicated so the copy shares no mutable state.
//   - CloneShallow: plain assignment; reference-typed parts stay shared.
//
// Types implementing Cloner are always duplicated through Clone, whatever
// the mode.
//
// # Contract
//
//   - The zero value is CloneDeep.
//   - The textual tokens ("deep", "shallow") are stable; changing them is a
//     breaking change for configuration files.
type CloneMode int

const (
	// CloneDeep duplicates values with a reflective deep copy.
	CloneDeep CloneMode = iota
	// CloneShallow duplicates values by assignment.
	CloneShallow
)

// String returns "deep", "shallow", or "unknown(<n>)" for out-of-range
// values. It never panics.
func (m CloneMode) String() string {
	switch m {
	case CloneDeep:
		return "deep"
	case CloneShallow:
		return "shallow"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseCloneMode parses a CloneMode token, ignoring case and surrounding
// whitespace. On failure it returns CloneDeep and a non-nil error.
func ParseCloneMode(s string) (CloneMode, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CloneDeep, fmt.Errorf("dynamic(apis): empty clone mode")
	}

	switch strings.ToLower(trimmed) {
	case "deep":
		return CloneDeep, nil
	case "shallow":
		return CloneShallow, nil
	default:
		return CloneDeep, fmt.Errorf("dynamic(apis): unknown clone mode %q", s)
	}
}

// MustParseCloneMode is like ParseCloneMode but panics on invalid input.
// Use it for hard-coded values only.
func MustParseCloneMode(s string) CloneMode {
	m, err := ParseCloneMode(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an
// error rather than being written out as "unknown(...)".
func (m CloneMode) MarshalText() ([]byte, error) {
	switch m {
	case CloneDeep, CloneShallow:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("dynamic(apis): cannot marshal unknown clone mode %d", int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *m is left
// unchanged.
func (m *CloneMode) UnmarshalText(text []byte) error {
	v, err := ParseCloneMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
