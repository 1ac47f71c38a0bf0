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

package config

import (
	"context"
	"fmt"

	"dario.cat/mergo"

	"rivaas.dev/rotlog/config/source"
)

// EnvPrefix is the prefix of the environment variables [LoadFile] applies.
const EnvPrefix = "ROTLOG_"

// Source produces a configuration map. Implementations live in the source
// package.
//
// Load must be safe to call concurrently.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

type namer interface {
	Name() string
}

// Load merges the maps of sources in order, later sources overriding
// earlier ones key by key, then decodes and validates the result.
func Load(ctx context.Context, sources ...Source) (*Config, error) {
	merged := make(map[string]any)
	for i, src := range sources {
		name := fmt.Sprintf("source[%d]", i)
		if n, ok := src.(namer); ok {
			name = n.Name()
		}

		m, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(name, "load", err)
		}
		if err := mergo.Merge(&merged, m, mergo.WithOverride); err != nil {
			return nil, NewError(name, "merge", err)
		}
	}

	cfg, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile loads the configuration file at path, choosing the decoder by
// extension: .yaml/.yml, .toml, .json, or a flat .conf/.ini/.properties/.env.
func ReadFile(path string) (*Config, error) {
	src, err := fileSource(path)
	if err != nil {
		return nil, err
	}
	return Load(context.Background(), src)
}

// LoadFile loads path and overlays the ROTLOG_ environment variables, so
// ROTLOG_LEVEL=debug overrides the file's level.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	src, err := fileSource(path)
	if err != nil {
		return nil, err
	}
	return Load(ctx, src, source.NewOSEnvVar(EnvPrefix))
}

func fileSource(path string) (*source.File, error) {
	src, err := source.NewFileAuto(path)
	if err != nil {
		return nil, NewError("file "+path, "load", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err))
	}
	return src, nil
}
