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
	"errors"
	"io"
	"time"

	"rivaas.dev/rotlog/logging"
	"rivaas.dev/rotlog/sink"
)

// BuildOption configures [Build] and [Install].
type BuildOption func(*buildOptions)

type buildOptions struct {
	observer sink.Observer
	clock    func() time.Time
	stdout   io.Writer
	registry *logging.Registry
}

// WithObserver reports the activity of every built sink to obs, typically
// a metrics.Recorder.
func WithObserver(obs sink.Observer) BuildOption {
	return func(o *buildOptions) { o.observer = obs }
}

// WithClock replaces time.Now in the built sinks.
func WithClock(now func() time.Time) BuildOption {
	return func(o *buildOptions) { o.clock = now }
}

// WithStdout sends console output to w instead of the configured standard stream.
func WithStdout(w io.Writer) BuildOption {
	return func(o *buildOptions) { o.stdout = w }
}

// WithRegistry makes [Install] use r instead of the process-wide registry.
func WithRegistry(r *logging.Registry) BuildOption {
	return func(o *buildOptions) { o.registry = r }
}

// Build validates cfg and assembles its logger: an optional console sink
// followed by an optional file sink, in that order.
//
// Nothing is created when validation fails. The file sink creates its
// parent directories; existing directories are fine. If a later step fails,
// sinks already created are closed again.
//
// Errors are *[Error] values; a file that cannot be opened also matches
// *[logging.IOError] with errors.As.
func Build(cfg *Config, opts ...BuildOption) (*logging.Logger, error) {
	if cfg == nil {
		cfg = Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var sinks []logging.Sink
	fail := func(field string, err error) (*logging.Logger, error) {
		errs := []error{NewFieldError("config", field, "build", err)}
		for _, s := range sinks {
			errs = append(errs, s.Close())
		}
		return nil, errors.Join(errs...)
	}

	if cfg.ConsoleEnabled {
		s, err := buildConsole(cfg, o)
		if err != nil {
			return fail("console_target", err)
		}
		sinks = append(sinks, s)
	}
	if cfg.HasFile() {
		s, err := buildFile(cfg, o)
		if err != nil {
			return fail("filename", err)
		}
		sinks = append(sinks, s)
	}

	loggerOpts := []logging.Option{
		logging.WithSinks(sinks...),
		logging.WithLevel(cfg.Level),
		logging.WithSource(cfg.Source),
		logging.WithBacktrace(cfg.Backtrace),
	}
	if cfg.ImmediateFlush {
		loggerOpts = append(loggerOpts, logging.WithImmediateFlush())
	}
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}
	l, err := logging.New(name, loggerOpts...)
	if err != nil {
		return fail("", err)
	}
	return l, nil
}

func commonSinkOptions(cfg *Config, o *buildOptions, level *logging.Level, p string) []sink.Option {
	if p == "" {
		p = cfg.Pattern
	}
	opts := []sink.Option{
		sink.WithPattern(p),
		sink.WithUTC(cfg.UTC),
		sink.WithObserver(o.observer),
		sink.WithClock(o.clock),
	}
	if level != nil {
		opts = append(opts, sink.WithLevel(*level))
	}
	return opts
}

func buildConsole(cfg *Config, o *buildOptions) (logging.Sink, error) {
	target, err := sink.ParseTarget(cfg.ConsoleTarget)
	if err != nil {
		return nil, err
	}
	mode, err := sink.ParseColorMode(cfg.Color)
	if err != nil {
		return nil, err
	}
	opts := append(commonSinkOptions(cfg, o, cfg.ConsoleLevel, cfg.ConsolePattern),
		sink.WithColorMode(mode))
	if o.stdout != nil {
		return sink.NewConsoleWriter(o.stdout, opts...), nil
	}
	return sink.NewConsole(target, opts...), nil
}

func buildFile(cfg *Config, o *buildOptions) (logging.Sink, error) {
	opts := append(commonSinkOptions(cfg, o, cfg.FileLevel, cfg.FilePattern),
		sink.WithTruncate(cfg.Truncate))

	switch cfg.RotationStrategy {
	case StrategySize:
		opts = append(opts, sink.WithRotateOnOpen(cfg.RotateOnOpen))
		return sink.NewRotating(cfg.Filename, cfg.EffectiveMaxSize(), cfg.EffectiveMaxFiles(), opts...)
	case StrategyTime:
		opts = append(opts, sink.WithMaxFiles(cfg.EffectiveMaxFiles()))
		return sink.NewDaily(cfg.Filename, *cfg.Hour, *cfg.Minute, opts...)
	default:
		return sink.NewFile(cfg.Filename, opts...)
	}
}

// Install builds cfg's logger and makes it the default logger of the
// process-wide registry (or of [WithRegistry]'s). It also starts periodic
// flushing when flush_interval is set and, with slog_default, routes the
// standard library's slog default logger into it. The previous default
// logger, if any, is returned and left open.
func Install(cfg *Config, opts ...BuildOption) (logger, previous *logging.Logger, err error) {
	l, err := Build(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}
	reg := o.registry
	if reg == nil {
		reg = logging.Global()
	}

	prev := reg.SetDefault(l)
	if cfg != nil && cfg.FlushInterval > 0 {
		reg.FlushEvery(cfg.FlushInterval)
	}
	if cfg != nil && cfg.SlogDefault {
		logging.InstallSlog(l)
	}
	return l, prev, nil
}
