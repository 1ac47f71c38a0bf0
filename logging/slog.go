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
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const redacted = "***REDACTED***"

// handlerBuilderPool provides reusable [strings.Builder] instances for
// rendering slog attributes into the message text.
var handlerBuilderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

// Handler adapts a [Logger] to [slog.Handler] so code written against
// log/slog reaches the same sinks.
//
// Attributes are appended to the message as key=value pairs, groups become
// dotted key prefixes. Values of the keys password, token, secret, api_key
// and authorization are replaced with ***REDACTED***.
//
// Thread-safe: Safe for concurrent use by multiple goroutines.
type Handler struct {
	logger *Logger
	attrs  []slog.Attr
	prefix string
}

// NewHandler returns a [slog.Handler] that logs through l.
func NewHandler(l *Logger) *Handler {
	return &Handler{logger: l}
}

// Handler returns a [slog.Handler] backed by the logger.
func (l *Logger) Handler() *Handler {
	return NewHandler(l)
}

// Slog returns a [slog.Logger] backed by the logger.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(NewHandler(l))
}

// InstallSlog makes l the target of [slog.Default] and the log package.
func InstallSlog(l *Logger) {
	slog.SetDefault(l.Slog())
}

// Enabled reports whether the logger would keep a record at level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.ShouldLog(LevelFromSlog(level)) || h.logger.bt.active()
}

// Handle converts r into a [Record] and dispatches it.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	l := h.logger
	if l.closed.Load() {
		return ErrLoggerClosed
	}
	level := LevelFromSlog(r.Level)
	enabled := l.ShouldLog(level)
	tracing := l.bt.active()
	if !enabled && !tracing {
		return nil
	}

	b := handlerBuilderPool.Get().(*strings.Builder)
	b.Reset()
	defer handlerBuilderPool.Put(b)

	b.WriteString(r.Message)
	for _, a := range h.attrs {
		h.appendAttr(b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(b, h.prefix, a)
		return true
	})

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	msg := b.String()
	rec := &Record{
		LoggerName: l.name,
		Level:      level,
		Time:       t,
		ThreadID:   goroutineID(),
		Template:   msg,
		Message:    msg,
	}
	if ctx != nil {
		rec.TraceID, rec.SpanID = spanIDs(ctx)
	}
	if l.addSource {
		rec.PC = r.PC
	}
	l.emit(rec, enabled, tracing)
	return nil
}

// WithAttrs returns a new handler with additional attributes.
// Implements [slog.Handler.WithAttrs].
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		newAttrs = append(newAttrs, a)
	}
	return &Handler{logger: h.logger, attrs: newAttrs, prefix: h.prefix}
}

// WithGroup returns a new handler that qualifies later keys with name.
// Implements [slog.Handler.WithGroup].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{logger: h.logger, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// appendAttr formats and appends " key=value" to b.
//
// fmt.Sprint is used as a catch-all for types without specialized formatting.
func (h *Handler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			h.appendAttr(b, prefix, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')

	switch a.Key {
	case "password", "token", "secret", "api_key", "authorization":
		b.WriteString(redacted)
		return
	}

	switch v := a.Value.Any().(type) {
	case string:
		b.WriteString(v)
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case time.Duration:
		b.WriteString(v.String())
	case time.Time:
		b.WriteString(v.Format(time.RFC3339))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case error:
		b.WriteString(v.Error())
	default:
		b.WriteString(fmt.Sprint(v))
	}
}
