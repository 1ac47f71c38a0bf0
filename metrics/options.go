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

package metrics

import (
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithMeterProvider records into provider. The caller keeps ownership:
// [Recorder.Shutdown] does not shut it down.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(...)
//	recorder := metrics.MustNew(metrics.WithMeterProvider(mp))
//	defer mp.Shutdown(context.Background())
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.provider = CustomProvider
		r.providerSet++
	}
}

// WithPrometheus creates a provider backed by a private Prometheus registry,
// served by [Recorder.Handler]. Mount the handler on the application's own
// server:
//
//	h, _ := recorder.Handler()
//	mux.Handle("/metrics", h)
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSet++
	}
}

// WithStdout creates a provider that prints the counters to w every 30
// seconds and on [Recorder.Shutdown]. A nil w means os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.stdout = w
		r.providerSet++
	}
}

// WithGlobalMeterProvider registers a provider the recorder creates
// ([WithPrometheus], [WithStdout]) as the global OpenTelemetry provider.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithAttributes adds attrs to every measurement, for example the service
// name.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(r *Recorder) {
		r.attributes = append(r.attributes, attrs...)
	}
}
