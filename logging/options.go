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

package logging

// Option is a functional option for configuring a [Logger].
type Option func(*Logger)

// WithSinks appends sinks to the logger. Dispatch order is insertion order.
func WithSinks(sinks ...Sink) Option {
	return func(l *Logger) { l.sinks = append(l.sinks, sinks...) }
}

// WithLevel sets the minimum level the logger accepts. The default is info.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.initLevel = level }
}

// WithDebugLevel enables debug logging.
func WithDebugLevel() Option {
	return WithLevel(LevelDebug)
}

// WithFlushOn flushes every sink after a record at or above level is dispatched.
// The default is [LevelOff], i.e. never.
func WithFlushOn(level Level) Option {
	return func(l *Logger) { l.initFlushLevel = level }
}

// WithImmediateFlush flushes every sink after each record.
func WithImmediateFlush() Option {
	return WithFlushOn(LevelTrace)
}

// WithSource captures the caller of each log call for the %@ %s %g %# %! pattern flags.
func WithSource(enabled bool) Option {
	return func(l *Logger) { l.addSource = enabled }
}

// WithBacktrace keeps the last n records, of any level, for [Logger.DumpBacktrace].
func WithBacktrace(n int) Option {
	return func(l *Logger) { l.backtraceSize = n }
}
