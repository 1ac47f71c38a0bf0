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

// Package source provides the local configuration sources: files and
// process environment variables. Each source produces a map that the
// config package layers in order, later sources overriding earlier ones.
//
//	cfg, err := config.Load(ctx,
//	    source.NewFile("logging.yaml", codec.YAMLCodec{}),
//	    source.NewOSEnvVar("ROTLOG_"),
//	)
package source
