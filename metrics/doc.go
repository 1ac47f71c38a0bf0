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

// Package metrics counts sink activity with OpenTelemetry.
//
// A [Recorder] is a sink.Observer. Attach it to sinks directly or through
// the config package:
//
//	recorder := metrics.MustNew(metrics.WithPrometheus())
//	defer recorder.Shutdown(context.Background())
//
//	logger, err := config.Build(cfg, config.WithObserver(recorder))
//
//	h, _ := recorder.Handler()
//	http.Handle("/metrics", h)
//
// # Instruments
//
//	rotlog.sink.records    records written            sink
//	rotlog.sink.bytes      bytes written              sink
//	rotlog.sink.rotations  completed rotations        sink
//	rotlog.sink.errors     failed operations          sink, op
//	rotlog.sink.dropped    records lost while failing sink
//
// # Global State
//
// By default the recorder uses otel.GetMeterProvider() and never changes
// the global provider. Use [WithGlobalMeterProvider] to register a provider
// the recorder creates.
package metrics
