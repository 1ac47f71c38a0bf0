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
	"errors"
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// initializeProvider initializes the meter provider based on configuration.
func (r *Recorder) initializeProvider() error {
	switch r.provider {
	case GlobalProvider:
		r.meterProvider = otel.GetMeterProvider()
	case CustomProvider:
		if r.meterProvider == nil {
			return errors.New("custom meter provider is nil")
		}
	case PrometheusProvider:
		if err := r.initPrometheusProvider(); err != nil {
			return err
		}
	case StdoutProvider:
		if err := r.initStdoutProvider(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
	return r.initializeMetrics()
}

// initPrometheusProvider uses a private registry so several recorders, or
// an application's own collectors, do not collide.
func (r *Recorder) initPrometheusProvider() error {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.own(mp)
	r.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return nil
}

func (r *Recorder) initStdoutProvider() error {
	var opts []stdoutmetric.Option
	if r.stdout != nil {
		opts = append(opts, stdoutmetric.WithWriter(r.stdout))
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	r.own(mp)
	return nil
}

func (r *Recorder) own(mp *sdkmetric.MeterProvider) {
	r.meterProvider = mp
	r.shutdown = mp.Shutdown
	if r.registerGlobal {
		otel.SetMeterProvider(mp)
	}
}
