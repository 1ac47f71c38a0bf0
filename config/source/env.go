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
	"strings"

	"rivaas.dev/rotlog/config/codec"
)

// OSEnvVar loads configuration from environment variables sharing a prefix.
// The prefix is stripped and the remainder decoded by [codec.EnvVarCodec]:
//
//	ROTLOG_LEVEL=debug           -> level = "debug"
//	ROTLOG_MAX_SIZE=10MB         -> max_size = "10MB"
//	ROTLOG_FILE__FILENAME=a.log  -> file.filename = "a.log"
type OSEnvVar struct {
	prefix  string
	environ func() []string
	decoder codec.Decoder
}

// NewOSEnvVar returns a source reading variables that start with prefix.
func NewOSEnvVar(prefix string) *OSEnvVar {
	return &OSEnvVar{prefix: prefix, environ: os.Environ, decoder: codec.EnvVarCodec{}}
}

// Name describes the source in errors.
func (e *OSEnvVar) Name() string {
	return "env " + e.prefix + "*"
}

// Load implements the config source contract.
func (e *OSEnvVar) Load(context.Context) (map[string]any, error) {
	env := e.environ()
	matched := make([]string, 0, len(env))
	for _, kv := range env {
		if rest, ok := strings.CutPrefix(kv, e.prefix); ok {
			matched = append(matched, rest)
		}
	}

	var conf map[string]any
	if err := e.decoder.Decode([]byte(strings.Join(matched, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	return conf, nil
}
