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

// Package typeinfo defines the structural identity of a Go type.
//
// A Type is a value-comparable fingerprint made of the defining module, the
// module version, the import path of the defining package, the bare type
// name and the ordered list of type arguments. Two descriptors are equal iff
// all five parts are equal, recursively and in order, so C[X] and C[Y] never
// compare equal, and neither do two builds of the same type from different
// module versions.
//
// Descriptors are plain values: cheap to copy, never mutated after
// construction, and safe to share between goroutines.
package typeinfo
