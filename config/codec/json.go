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
	"encoding/json"
)

// TypeJSON identifies the JSON codec.
const TypeJSON Type = "json"

func init() {
	RegisterDecoder(TypeJSON, JSONCodec{})
	RegisterExtension(".json", TypeJSON)
}

// JSONCodec decodes JSON objects. Numbers are kept as json.Number so
// integers survive without a float round trip.
type JSONCodec struct{}

// Decode implements [Decoder].
func (JSONCodec) Decode(data []byte, v any) error {
	ptr, err := target("JSONCodec.Decode", v)
	if err != nil {
		return err
	}
	var m map[string]any
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&m); err != nil {
			return err
		}
	}
	*ptr = normalize(m)
	return nil
}
