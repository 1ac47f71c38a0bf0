// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"fmt"
	"strings"
)

// Type identifies a codec.
type Type string

// Decoder converts an encoded document into a configuration map.
// Implementations must be safe for concurrent use.
type Decoder interface {
	// Decode parses data into the *map[string]any pointed to by v.
	Decode(data []byte, v any) error
}

// target asserts the decode destination every codec in this package writes to.
func target(name string, v any) (*map[string]any, error) {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected *map[string]any, got %T", name, v)
	}
	return ptr, nil
}

// normalize lower-cases the keys of m at every depth and converts nested
// maps with non-string keys, as some decoders produce, to map[string]any.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalize(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}
		return normalize(m)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
