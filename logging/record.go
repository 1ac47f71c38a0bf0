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
	"bytes"
	"runtime"
	"strconv"
	"time"
)

// Record is a single log event.
//
// A Record is built once per accepted call and handed to every sink of the
// logger in turn. Sinks must treat it as read-only and must not retain it
// after [Sink.Log] returns; use [Record.Clone] to keep a copy.
type Record struct {
	LoggerName string
	Level      Level
	Time       time.Time

	// ThreadID is the id of the goroutine that produced the record.
	ThreadID uint64

	// Template and Args are the raw call arguments.
	Template string
	Args     []any

	// Message is Template expanded with Args.
	Message string

	// TraceID and SpanID are set when the record was logged with a context
	// carrying a valid OpenTelemetry span.
	TraceID string
	SpanID  string

	// PC is the caller program counter, or 0 when source capture is off.
	PC uintptr
}

// Source identifies the code location that produced a record.
type Source struct {
	Function string
	File     string
	Line     int
}

// Source resolves r.PC. It returns the zero Source when no caller was captured.
func (r *Record) Source() Source {
	if r.PC == 0 {
		return Source{}
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := frames.Next()
	return Source{Function: f.Function, File: f.File, Line: f.Line}
}

// Clone returns a copy of r whose Args slice is not shared with r.
func (r *Record) Clone() *Record {
	c := *r
	if r.Args != nil {
		c.Args = append([]any(nil), r.Args...)
	}
	return &c
}

// goroutineID returns the id of the calling goroutine.
// The runtime does not expose it; it is parsed from the first stack line,
// which always reads "goroutine N [".
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// callerPC returns the program counter skip frames above its caller.
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return 0
	}
	return pcs[0]
}
