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
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// ErrorHandler receives diagnostics about failures inside the logging core.
// It is invoked synchronously on the goroutine that hit the failure.
type ErrorHandler func(msg string)

var (
	errorHandler atomic.Pointer[ErrorHandler]

	// fallbackMu serializes writes of the default handler.
	fallbackMu     sync.Mutex
	fallbackOutput io.Writer = os.Stderr
)

// SetErrorHandler replaces the process-wide error handler.
// Passing nil restores the default, which writes each message to stderr.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		errorHandler.Store(nil)
		return
	}
	errorHandler.Store(&h)
}

// HandleError delivers msg to the current error handler.
// A panicking handler is recovered and the message falls back to stderr,
// so HandleError itself never panics.
func HandleError(msg string) {
	p := errorHandler.Load()
	if p == nil {
		writeFallback(msg)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			writeFallback(fmt.Sprintf("error handler panicked (%v) while handling: %s", r, msg))
		}
	}()
	(*p)(msg)
}

// ReportError delivers err to the current error handler.
func ReportError(err error) {
	if err == nil {
		return
	}
	HandleError(err.Error())
}

func writeFallback(msg string) {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	_, _ = fmt.Fprintf(fallbackOutput, "[rotlog] %s %s\n", time.Now().Format(time.RFC3339), msg)
}
