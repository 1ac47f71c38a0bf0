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
	"bytes"
	"strings"
)

// TypeEnvVar identifies the environment variable codec.
const TypeEnvVar Type = "env_var"

func init() {
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes KEY=VALUE lines into a configuration map.
//
// Keys are lower-cased. A single underscore is part of the key, because
// configuration keys use underscores themselves (MAX_SIZE is max_size); a
// double underscore descends into a nested map (FILE__FILENAME is
// file.filename).
type EnvVarCodec struct{}

// Decode implements [Decoder].
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, err := target("EnvVarCodec.Decode", v)
	if err != nil {
		return err
	}

	conf := make(map[string]any)
	for _, line := range bytes.Split(data, []byte("\n")) {
		key, value, ok := strings.Cut(string(line), "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}

		var parts []string
		for _, part := range strings.Split(key, "__") {
			if part = strings.Trim(part, "_"); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*ptr = conf
	return nil
}
