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

// Package codec decodes logging configuration documents into generic maps.
//
// Every decoder turns its input into a map[string]any with lower-case keys,
// which the config package then layers and decodes into a Config.
//
// # Built-in Codecs
//
//   - JSON: .json
//   - YAML: .yaml, .yml
//   - TOML: .toml
//   - Conf: flat "key = value" files (.conf, .ini, .properties, .env)
//   - EnvVar: KEY=VALUE lines as produced by os.Environ
//
// # Custom Codecs
//
// Register additional formats with [RegisterDecoder] and map file extensions
// to them with [RegisterExtension]:
//
//	codec.RegisterDecoder("hcl", MyHCLDecoder{})
//	codec.RegisterExtension(".hcl", "hcl")
package codec
