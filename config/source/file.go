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

package source

import (
	"context"
	"fmt"
	"os"

	"rivaas.dev/rotlog/config/codec"
)

// File loads configuration from a file or from in-memory content.
type File struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

// NewFile returns a source reading path with decoder.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewFileAuto returns a source reading path with the decoder registered
// for its extension.
func NewFileAuto(path string) (*File, error) {
	decoder, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	return NewFile(path, decoder), nil
}

// NewFileContent returns a source decoding data, for embedded or generated
// configuration.
func NewFileContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Name describes the source in errors.
func (f *File) Name() string {
	if f.path != "" {
		return "file " + f.path
	}
	return "content"
}

// Load reads and decodes the configuration.
//
// Errors:
//   - Returns error if the file cannot be read
//   - Returns error if decoding fails
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var conf map[string]any
	if err := f.decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}
	return conf, nil
}
