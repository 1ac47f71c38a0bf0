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
	"fmt"
	"runtime"
	"strings"
	"time"
)

// LogError logs err at [LevelError] after the expanded message, as "<msg>: <err>".
//
// Example:
//
//	if err := db.Insert(user); err != nil {
//	    logger.LogError(err, "insert into {} failed after {} retries", "users", 3)
//	    return err
//	}
func (l *Logger) LogError(err error, tmpl string, args ...any) {
	if !l.ShouldLog(LevelError) && !l.bt.active() {
		return
	}
	msg, _ := FormatMessage(tmpl, args...)
	l.log(bgCtx, LevelError, "{}: {}", []any{msg, errString(err)})
}

// LogDuration logs at [LevelInfo] how long has passed since start,
// as "<msg> (took 1.5s)".
//
// Example:
//
//	start := time.Now()
//	n := processData(data)
//	logger.LogDuration(start, "processed {} rows", n)
func (l *Logger) LogDuration(start time.Time, tmpl string, args ...any) {
	if !l.ShouldLog(LevelInfo) && !l.bt.active() {
		return
	}
	msg, _ := FormatMessage(tmpl, args...)
	l.log(bgCtx, LevelInfo, "{} (took {})", []any{msg, time.Since(start)})
}

// CriticalWithStack logs err at [LevelCritical] followed by the caller's stack.
//
// When to use stack traces:
//
//	✓ Critical errors that require debugging
//	✓ Unexpected error conditions (panics, invariant violations)
//	✗ Expected errors (validation failures, not found)
//	✗ High-frequency errors where stack capture cost is undesirable
func (l *Logger) CriticalWithStack(err error, tmpl string, args ...any) {
	if !l.ShouldLog(LevelCritical) && !l.bt.active() {
		return
	}
	msg, _ := FormatMessage(tmpl, args...)
	l.log(bgCtx, LevelCritical, "{}: {}\n{}", []any{msg, errString(err), captureStack(3)})
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

// captureStack captures a stack trace.
//
// Skip parameter: Number of stack frames to skip.
//   - 0: includes captureStack itself
//   - 3: typical value to skip captureStack, CriticalWithStack, and caller's caller
func captureStack(skip int) string {
	var buf strings.Builder
	pcs := make([]uintptr, 10)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
