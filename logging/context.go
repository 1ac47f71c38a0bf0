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

	"go.opentelemetry.io/otel/trace"
)

// spanIDs extracts the trace and span ids of the active span in ctx, if any.
func spanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

// LogContext logs at level like [Logger.Log]. When ctx carries a valid
// OpenTelemetry span, its trace and span ids are stored on the record and
// can be rendered with the %j and %J pattern flags.
func (l *Logger) LogContext(ctx context.Context, level Level, tmpl string, args ...any) {
	l.log(ctx, level, tmpl, args)
}

// ContextLogger provides context-aware logging with automatic trace correlation.
//
// When to use:
//
//	✓ Request handlers with OpenTelemetry tracing enabled
//	✓ Background jobs that propagate context
//	✗ Package-level loggers (no request context available)
//
// Thread-safe: Safe to use concurrently. Each instance is typically
// created per-request and used by a single goroutine.
type ContextLogger struct {
	logger  *Logger
	ctx     context.Context
	traceID string
	spanID  string
}

// NewContextLogger binds logger to ctx.
func NewContextLogger(ctx context.Context, logger *Logger) *ContextLogger {
	traceID, spanID := spanIDs(ctx)
	return &ContextLogger{
		logger:  logger,
		ctx:     ctx,
		traceID: traceID,
		spanID:  spanID,
	}
}

// Logger returns the wrapped [Logger].
func (cl *ContextLogger) Logger() *Logger {
	return cl.logger
}

// TraceID returns the trace ID if available.
func (cl *ContextLogger) TraceID() string {
	return cl.traceID
}

// SpanID returns the span ID if available.
func (cl *ContextLogger) SpanID() string {
	return cl.spanID
}

// Trace logs a trace message with context.
func (cl *ContextLogger) Trace(tmpl string, args ...any) {
	cl.logger.log(cl.ctx, LevelTrace, tmpl, args)
}

// Debug logs a debug message with context.
func (cl *ContextLogger) Debug(tmpl string, args ...any) {
	cl.logger.log(cl.ctx, LevelDebug, tmpl, args)
}

// Info logs an info message with context.
func (cl *ContextLogger) Info(tmpl string, args ...any) {
	cl.logger.log(cl.ctx, LevelInfo, tmpl, args)
}

// Warn logs a warning message with context.
func (cl *ContextLogger) Warn(tmpl string, args ...any) {
	cl.logger.log(cl.ctx, LevelWarn, tmpl, args)
}

// Error logs an error message with context.
func (cl *ContextLogger) Error(tmpl string, args ...any) {
	cl.logger.log(cl.ctx, LevelError, tmpl, args)
}

// Critical logs a critical message with context.
func (cl *ContextLogger) Critical(tmpl string, args ...any) {
	cl.logger.log(cl.ctx, LevelCritical, tmpl, args)
}
