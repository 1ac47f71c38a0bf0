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

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Package-level cached context reused by the non-context log methods.
var bgCtx = context.Background()

// Logger dispatches records to an ordered list of sinks.
//
// Thread-safety: All public methods are safe for concurrent use.
// The sink list is fixed at construction; level and flush level are atomics,
// so the hot path takes no lock of its own. Each sink serializes its own writes.
type Logger struct {
	name  string
	sinks []Sink

	level      atomic.Int32
	flushLevel atomic.Int32
	addSource  bool

	bt     *backtracer
	closed atomic.Bool

	// Construction-time values, applied by New
	initLevel      Level
	initFlushLevel Level
	backtraceSize  int
}

// New creates a Logger named name.
// The logger starts at [LevelInfo] unless [WithLevel] says otherwise.
func New(name string, opts ...Option) (*Logger, error) {
	l := &Logger{
		name:           name,
		initLevel:      LevelInfo,
		initFlushLevel: LevelOff,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l.level.Store(int32(l.initLevel))
	l.flushLevel.Store(int32(l.initFlushLevel))
	l.bt = newBacktracer()
	if l.backtraceSize > 0 {
		l.bt.enable(l.backtraceSize)
	}
	retain(l.sinks)
	return l, nil
}

// MustNew creates a Logger or panics on error.
func MustNew(name string, opts ...Option) *Logger {
	l, err := New(name, opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

// Validate checks the construction parameters.
func (l *Logger) Validate() error {
	for i, s := range l.sinks {
		if s == nil {
			return fmt.Errorf("sink %d: %w", i, ErrNilSink)
		}
	}
	if !l.initLevel.Valid() {
		return fmt.Errorf("level: %w", ErrInvalidLevel)
	}
	if !l.initFlushLevel.Valid() {
		return fmt.Errorf("flush level: %w", ErrInvalidLevel)
	}
	if l.backtraceSize < 0 {
		return errors.New("backtrace size must be non-negative")
	}
	return nil
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

// Sinks returns a copy of the logger's sink list in dispatch order.
func (l *Logger) Sinks() []Sink {
	return append([]Sink(nil), l.sinks...)
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int32(level))
	}
	l.level.Store(int32(level))
	return nil
}

// FlushOn sets the level at or above which every record triggers a flush.
func (l *Logger) FlushOn(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int32(level))
	}
	l.flushLevel.Store(int32(level))
	return nil
}

// FlushLevel returns the level set by [Logger.FlushOn].
func (l *Logger) FlushLevel() Level {
	return Level(l.flushLevel.Load())
}

// ShouldLog reports whether a record at level passes the logger's filter.
func (l *Logger) ShouldLog(level Level) bool {
	return level >= Level(l.level.Load()) && level < LevelOff && level >= LevelTrace
}

// SetPattern sets pattern on every sink.
func (l *Logger) SetPattern(pattern string) {
	for _, s := range l.sinks {
		s.SetPattern(pattern)
	}
}

// IsEnabled returns true until the logger is closed.
func (l *Logger) IsEnabled() bool {
	return !l.closed.Load()
}

// log is the single path every public log method funnels into.
//
// It returns before building a record when neither the level filter nor the
// backtrace ring wants it; past that point it formats the message once and
// hands the same record to each sink.
func (l *Logger) log(ctx context.Context, level Level, tmpl string, args []any) {
	if l.closed.Load() {
		return
	}
	enabled := l.ShouldLog(level)
	tracing := l.bt.active() && level < LevelOff && level >= LevelTrace
	if !enabled && !tracing {
		return
	}

	r := &Record{
		LoggerName: l.name,
		Level:      level,
		Time:       time.Now(),
		ThreadID:   goroutineID(),
		Template:   tmpl,
		Args:       args,
	}
	r.Message, _ = FormatMessage(tmpl, args...)
	if ctx != nil {
		r.TraceID, r.SpanID = spanIDs(ctx)
	}
	if l.addSource {
		r.PC = callerPC(2)
	}
	l.emit(r, enabled, tracing)
}

// emit stores r in the backtrace ring and sends it to the sinks as requested.
func (l *Logger) emit(r *Record, enabled, tracing bool) {
	if tracing {
		l.bt.push(r)
	}
	if enabled {
		l.dispatch(r)
	}
}

// dispatch hands r to every sink in order and then applies the flush policy.
func (l *Logger) dispatch(r *Record) {
	for _, s := range l.sinks {
		l.sinkLog(s, r)
	}
	if r.Level >= Level(l.flushLevel.Load()) {
		l.Flush()
	}
}

// sinkLog isolates one sink: a panic inside it is reported and the
// remaining sinks still receive the record.
func (l *Logger) sinkLog(s Sink, r *Record) {
	defer func() {
		if p := recover(); p != nil {
			HandleError(fmt.Sprintf("logger %q: sink panicked: %v", l.name, p))
		}
	}()
	s.Log(r)
}

// Log logs a message at level. tmpl may contain {} replacement fields, see [FormatMessage].
func (l *Logger) Log(level Level, tmpl string, args ...any) {
	l.log(bgCtx, level, tmpl, args)
}

// Trace logs at [LevelTrace].
func (l *Logger) Trace(tmpl string, args ...any) {
	l.log(bgCtx, LevelTrace, tmpl, args)
}

// Debug logs at [LevelDebug].
func (l *Logger) Debug(tmpl string, args ...any) {
	l.log(bgCtx, LevelDebug, tmpl, args)
}

// Info logs at [LevelInfo].
func (l *Logger) Info(tmpl string, args ...any) {
	l.log(bgCtx, LevelInfo, tmpl, args)
}

// Warn logs at [LevelWarn].
func (l *Logger) Warn(tmpl string, args ...any) {
	l.log(bgCtx, LevelWarn, tmpl, args)
}

// Error logs at [LevelError].
func (l *Logger) Error(tmpl string, args ...any) {
	l.log(bgCtx, LevelError, tmpl, args)
}

// Critical logs at [LevelCritical].
func (l *Logger) Critical(tmpl string, args ...any) {
	l.log(bgCtx, LevelCritical, tmpl, args)
}

// Flush flushes every sink.
func (l *Logger) Flush() {
	for _, s := range l.sinks {
		l.sinkFlush(s)
	}
}

func (l *Logger) sinkFlush(s Sink) {
	defer func() {
		if p := recover(); p != nil {
			HandleError(fmt.Sprintf("logger %q: sink panicked during flush: %v", l.name, p))
		}
	}()
	s.Flush()
}

// Clone returns a new logger named name that shares this logger's sinks,
// level, flush level and source setting. Shared sinks stay open until every
// logger holding them is closed.
func (l *Logger) Clone(name string) *Logger {
	c := &Logger{
		name:      name,
		sinks:     append([]Sink(nil), l.sinks...),
		addSource: l.addSource,
		bt:        newBacktracer(),
	}
	c.level.Store(l.level.Load())
	c.flushLevel.Store(l.flushLevel.Load())
	retain(c.sinks)
	return c
}

// Close flushes the sinks and releases this logger's hold on them.
// Further log calls are dropped. Close is idempotent.
func (l *Logger) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	l.Flush()

	var errs []error
	for _, s := range l.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DebugInfo returns diagnostic information about the logger.
func (l *Logger) DebugInfo() map[string]any {
	sinks := make([]map[string]any, 0, len(l.sinks))
	for _, s := range l.sinks {
		sinks = append(sinks, map[string]any{
			"type":  fmt.Sprintf("%T", s),
			"level": s.Level().String(),
		})
	}
	return map[string]any{
		"name":        l.name,
		"level":       l.Level().String(),
		"flush_level": l.FlushLevel().String(),
		"add_source":  l.addSource,
		"backtrace":   l.bt.capacity(),
		"is_closed":   l.closed.Load(),
		"sinks":       sinks,
	}
}
