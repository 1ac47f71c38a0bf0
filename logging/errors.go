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
	"errors"
	"fmt"
)

// Sentinel errors for use with [errors.Is].
//
// Usage pattern:
//
//	if err := logger.SetLevel(level); err != nil {
//	    if errors.Is(err, logging.ErrInvalidLevel) {
//	        // Handle bad input
//	    }
//	}
var (
	// ErrInvalidLevel indicates a level outside trace..off, or an unknown level name.
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrNilSink indicates a nil [Sink] was passed to [WithSinks].
	// This is a programmer error and should be caught during initialization.
	ErrNilSink = errors.New("sink is nil")

	// ErrLoggerExists is returned by [Registry.Register] when the name is taken.
	ErrLoggerExists = errors.New("logger with this name already exists")

	// ErrLoggerClosed indicates the logger has been closed via [Logger.Close].
	// Log calls on a closed logger are silently dropped; this error is returned
	// by operations that need live sinks.
	ErrLoggerClosed = errors.New("logger is closed")
)

// IOError describes an open, write, flush, rename or close failure in a sink.
// Sinks never return it to callers of [Sink.Log]; it is delivered to the
// process-wide error handler instead.
type IOError struct {
	Sink string // Sink name, e.g. "rotating"
	Op   string // Operation, e.g. "open", "write", "rename"
	Path string // File involved, if any
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s sink: %s %s: %v", e.Sink, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s sink: %s: %v", e.Sink, e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError describes a message template that could not be expanded.
// The record is still emitted, as the raw template behind a visible marker.
type FormatError struct {
	Template string
	Reason   string
}

func (e *FormatError) Error() string {
	return "format error: " + e.Reason
}
