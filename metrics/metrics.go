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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/rotlog/sink"
)

// Instrument names.
const (
	RecordsName   = "rotlog.sink.records"
	BytesName     = "rotlog.sink.bytes"
	RotationsName = "rotlog.sink.rotations"
	ErrorsName    = "rotlog.sink.errors"
	DroppedName   = "rotlog.sink.dropped"
)

const meterName = "rivaas.dev/rotlog/metrics"

// Provider represents the available meter providers.
type Provider string

const (
	// GlobalProvider uses otel.GetMeterProvider(); the application owns it.
	GlobalProvider Provider = "global"
	// CustomProvider uses the provider given to [WithMeterProvider].
	CustomProvider Provider = "custom"
	// PrometheusProvider exposes the counters on [Recorder.Handler].
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider prints the counters periodically, for development.
	StdoutProvider Provider = "stdout"
)

// Recorder counts sink activity with OpenTelemetry counters. It implements
// [sink.Observer]; pass it to sink.WithObserver or config.WithObserver.
//
// Every measurement carries a "sink" attribute with the sink's name, and
// errors an "op" attribute with the failed operation ("write", "rotate", ...).
// All methods are safe for concurrent use.
type Recorder struct {
	meter         metric.Meter
	meterProvider metric.MeterProvider
	shutdown      func(context.Context) error
	handler       http.Handler

	records   metric.Int64Counter
	bytes     metric.Int64Counter
	rotations metric.Int64Counter
	errors    metric.Int64Counter
	dropped   metric.Int64Counter

	// sink name -> metric.MeasurementOption with the sink attribute
	sinkAttrs sync.Map

	provider       Provider
	providerSet    int
	stdout         io.Writer
	attributes     []attribute.KeyValue
	registerGlobal bool
}

var _ sink.Observer = (*Recorder)(nil)

// New creates a [Recorder]. Without a provider option the counters go to
// the global meter provider.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{provider: GlobalProvider}
	for _, opt := range opts {
		opt(r)
	}
	if r.providerSet > 1 {
		return nil, errors.New("metrics: only one provider option may be used")
	}
	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

func (r *Recorder) initializeMetrics() error {
	r.meter = r.meterProvider.Meter(meterName)

	var err error
	counter := func(name, desc, unit string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		var c metric.Int64Counter
		c, err = r.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			err = fmt.Errorf("failed to create %s counter: %w", name, err)
		}
		return c
	}
	r.records = counter(RecordsName, "Records written by a sink", "{record}")
	r.bytes = counter(BytesName, "Bytes written by a sink", "By")
	r.rotations = counter(RotationsName, "Completed file rotations", "{rotation}")
	r.errors = counter(ErrorsName, "Failed sink operations", "{error}")
	r.dropped = counter(DroppedName, "Records lost while a sink was degraded", "{record}")
	return err
}

// Provider returns the provider in use.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// Handler returns the Prometheus scrape handler. It fails unless the
// recorder was created with [WithPrometheus].
func (r *Recorder) Handler() (http.Handler, error) {
	if r.handler == nil {
		return nil, fmt.Errorf("metrics handler is only available with the %s provider, using %s",
			PrometheusProvider, r.provider)
	}
	return r.handler, nil
}

// Shutdown flushes and stops a provider the recorder created. Global and
// custom providers belong to the caller and are left alone.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.shutdown == nil {
		return nil
	}
	return r.shutdown(ctx)
}

func (r *Recorder) sinkOption(name string) metric.MeasurementOption {
	if opt, ok := r.sinkAttrs.Load(name); ok {
		return opt.(metric.MeasurementOption)
	}
	attrs := append([]attribute.KeyValue{attribute.String("sink", name)}, r.attributes...)
	opt, _ := r.sinkAttrs.LoadOrStore(name, metric.WithAttributeSet(attribute.NewSet(attrs...)))
	return opt.(metric.MeasurementOption)
}

// RecordWritten implements [sink.Observer].
func (r *Recorder) RecordWritten(name string, n int) {
	ctx := context.Background()
	opt := r.sinkOption(name)
	r.records.Add(ctx, 1, opt)
	r.bytes.Add(ctx, int64(n), opt)
}

// RecordDropped implements [sink.Observer].
func (r *Recorder) RecordDropped(name string) {
	r.dropped.Add(context.Background(), 1, r.sinkOption(name))
}

// Rotated implements [sink.Observer].
func (r *Recorder) Rotated(name string) {
	r.rotations.Add(context.Background(), 1, r.sinkOption(name))
}

// Failed implements [sink.Observer].
func (r *Recorder) Failed(name, op string) {
	attrs := append([]attribute.KeyValue{
		attribute.String("sink", name),
		attribute.String("op", op),
	}, r.attributes...)
	r.errors.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
