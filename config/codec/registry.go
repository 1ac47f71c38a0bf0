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
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned when no decoder matches a type or extension.
var ErrUnknownFormat = errors.New("unknown configuration format")

// registry holds the decoders by type and the file extensions mapped to them.
type registry struct {
	mu         sync.RWMutex
	decoders   map[Type]Decoder
	extensions map[string]Type
}

var defaultRegistry = &registry{
	decoders:   make(map[Type]Decoder),
	extensions: make(map[string]Type),
}

// RegisterDecoder registers decoder under name, replacing any previous one.
func RegisterDecoder(name Type, decoder Decoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.decoders[name] = decoder
}

// RegisterExtension maps a file extension such as ".yml" to a codec type.
func RegisterExtension(ext string, name Type) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.extensions[strings.ToLower(ext)] = name
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	decoder, ok := defaultRegistry.decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: decoder not found for type: %s", ErrUnknownFormat, name)
	}
	return decoder, nil
}

// DetectType returns the codec type for path's extension.
func DetectType(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	defaultRegistry.mu.RLock()
	name, ok := defaultRegistry.extensions[ext]
	defaultRegistry.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: cannot detect format from extension %q", ErrUnknownFormat, ext)
	}
	return name, nil
}

// ForPath returns the decoder for path's extension.
func ForPath(path string) (Decoder, error) {
	name, err := DetectType(path)
	if err != nil {
		return nil, err
	}
	return GetDecoder(name)
}
