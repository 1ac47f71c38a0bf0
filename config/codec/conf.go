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
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// TypeConf identifies the flat key/value codec.
const TypeConf Type = "conf"

func init() {
	RegisterDecoder(TypeConf, ConfCodec{})
	for _, ext := range []string{".conf", ".cfg", ".ini", ".properties", ".env"} {
		RegisterExtension(ext, TypeConf)
	}
}

// ConfCodec decodes flat configuration files:
//
//	# comment
//	level = debug
//	filename = "logs/app.log"
//
//	[file]
//	rotation_strategy = size
//
// Keys after a [section] header are nested under the section name. Values
// are kept as strings; typed conversion happens when the map is decoded
// into a struct. Comments take whole lines, so '#' and ';' inside values
// survive. A leading "export " is ignored, so shell-style .env files
// decode as well.
type ConfCodec struct{}

var confOptions = ini.LoadOptions{
	Insensitive:         true,
	IgnoreInlineComment: true,
	IgnoreContinuation:  true,
	KeyValueDelimiters:  "=",
}

// Decode implements [Decoder].
func (ConfCodec) Decode(data []byte, v any) error {
	ptr, err := target("ConfCodec.Decode", v)
	if err != nil {
		return err
	}

	f, err := ini.LoadSources(confOptions, stripExport(data))
	if err != nil {
		return fmt.Errorf("failed to parse conf: %w", err)
	}

	conf := make(map[string]any)
	for _, sec := range f.Sections() {
		dst := conf
		if !strings.EqualFold(sec.Name(), ini.DefaultSection) {
			sub, ok := conf[sec.Name()].(map[string]any)
			if !ok {
				sub = make(map[string]any)
				conf[sec.Name()] = sub
			}
			dst = sub
		}
		for _, key := range sec.Keys() {
			if strings.TrimSpace(key.Name()) == "" {
				return fmt.Errorf("failed to parse conf: empty key in section %q", sec.Name())
			}
			dst[key.Name()] = key.Value()
		}
	}

	*ptr = conf
	return nil
}

var exportPrefix = []byte("export ")

func stripExport(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		if trimmed := bytes.TrimLeft(line, " \t"); bytes.HasPrefix(trimmed, exportPrefix) {
			lines[i] = trimmed[len(exportPrefix):]
		}
	}
	return bytes.Join(lines, []byte("\n"))
}
