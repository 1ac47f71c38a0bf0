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

// Package sink provides the output destinations of a [logging.Logger]:
// a console sink, a plain file sink, a size-rotating file sink and a
// daily time-rotating file sink.
//
// Every sink implements [logging.Sink] and [logging.Retainer]. A sink guards
// its file handle, byte count and rotation deadline with one mutex, so the
// check-rotate-write sequence of a record is atomic with respect to other
// records, to SetLevel and to SetPattern.
//
// # Failure handling
//
// Sinks never return I/O errors from Log. An open, write, rename or flush
// failure is delivered to [logging.ReportError] as a *[logging.IOError] and
// the sink enters degraded mode: records that cannot be written are dropped,
// every later record retries the failed resource, and repeated failures are
// reported at most once per second. The first successful write leaves
// degraded mode.
package sink

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"rivaas.dev/rotlog/logging"
	"rivaas.dev/rotlog/pattern"
)

// Sentinel errors for use with [errors.Is].
var (
	// ErrInvalidMaxSize indicates a size-rotating sink was given max_size <= 0.
	ErrInvalidMaxSize = errors.New("max size must be positive")

	// ErrInvalidMaxFiles indicates a negative or excessive backup count.
	ErrInvalidMaxFiles = errors.New("max files out of range")

	// ErrInvalidRotationTime indicates an hour outside 0..23 or a minute outside 0..59.
	ErrInvalidRotationTime = errors.New("invalid rotation time")

	// ErrEmptyFilename indicates a file sink was created without a path.
	ErrEmptyFilename = errors.New("filename is empty")

	// ErrClosed is returned by manual rotation of a closed sink.
	ErrClosed = errors.New("sink is closed")
)

// reportInterval bounds how often a degraded sink reports repeated failures.
const reportInterval = time.Second

// Observer receives sink activity. Implementations must be safe for
// concurrent use and must not call back into the sink.
//
// The metrics package provides an OpenTelemetry implementation.
type Observer interface {
	// RecordWritten is called after n bytes of one record were written.
	RecordWritten(sink string, n int)
	// RecordDropped is called for a record lost to an I/O failure.
	RecordDropped(sink string)
	// Rotated is called after a completed rotation.
	Rotated(sink string)
	// Failed is called for every I/O failure; op is open, write, flush, rename or close.
	Failed(sink, op string)
}

type nopObserver struct{}

func (nopObserver) RecordWritten(string, int) {}
func (nopObserver) RecordDropped(string)      {}
func (nopObserver) Rotated(string)            {}
func (nopObserver) Failed(string, string)     {}

// base holds the state every sink shares: level, formatter, scratch buffer,
// reference count and degraded-mode bookkeeping. Fields below mu are guarded by it.
type base struct {
	name     string
	level    atomic.Int32
	refs     atomic.Int64
	observer Observer
	clock    func() time.Time
	utc      bool
	eol      string

	mu        sync.Mutex
	formatter *pattern.Formatter
	buf       bytes.Buffer
	closed    bool

	degraded   bool
	lastReport time.Time
	suppressed int
}

func (b *base) init(o *options) {
	b.name = o.name
	b.level.Store(int32(o.level))
	b.observer = o.observer
	b.clock = o.clock
	b.utc = o.utc
	b.eol = o.eol
	b.formatter = pattern.New(o.pattern, pattern.WithUTC(o.utc), pattern.WithEOL(o.eol))
}

// Name returns the name the sink reports to its observer.
func (b *base) Name() string {
	return b.name
}

// Level returns the sink's minimum level.
func (b *base) Level() logging.Level {
	return logging.Level(b.level.Load())
}

// SetLevel changes the sink's minimum level. The level is an atomic read
// outside the write lock, so a record that passed the old level while
// SetLevel runs may still be written.
func (b *base) SetLevel(level logging.Level) {
	b.level.Store(int32(level))
}

// SetPattern recompiles the sink's pattern. Records already being written
// keep the old pattern.
func (b *base) SetPattern(p string) {
	f := pattern.New(p, pattern.WithUTC(b.utc), pattern.WithEOL(b.eol))
	b.mu.Lock()
	b.formatter = f
	b.mu.Unlock()
}

// Pattern returns the sink's current pattern.
func (b *base) Pattern() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.formatter.Pattern()
}

// Retain registers one more holder of the sink.
func (b *base) Retain() {
	b.refs.Add(1)
}

// accepts applies the sink's level filter.
func (b *base) accepts(r *logging.Record) bool {
	level := b.Level()
	return level < logging.LevelOff && r.Level >= level
}

// release drops one holder and reports whether the sink should now be closed.
// A sink nobody retained closes on its first Close.
func (b *base) release() bool {
	for {
		n := b.refs.Load()
		if n <= 0 {
			return true
		}
		if b.refs.CompareAndSwap(n, n-1) {
			return n == 1
		}
	}
}

// format renders r into the scratch buffer. Caller holds mu.
func (b *base) format(r *logging.Record) (p []byte, colorStart, colorEnd int) {
	b.buf.Reset()
	colorStart, colorEnd = b.formatter.Format(r, &b.buf)
	return b.buf.Bytes(), colorStart, colorEnd
}

// fail records an I/O failure and reports it, rate limited while degraded.
// Caller holds mu.
func (b *base) fail(op, path string, err error) {
	b.observer.Failed(b.name, op)

	ioErr := &logging.IOError{Sink: b.name, Op: op, Path: path, Err: err}
	now := b.clock()
	if !b.degraded {
		b.degraded = true
		b.lastReport = now
		b.suppressed = 0
		logging.ReportError(ioErr)
		return
	}
	if now.Sub(b.lastReport) < reportInterval {
		b.suppressed++
		return
	}
	if b.suppressed > 0 {
		logging.HandleError(fmt.Sprintf("%v (%d similar errors suppressed)", ioErr, b.suppressed))
	} else {
		logging.ReportError(ioErr)
	}
	b.lastReport = now
	b.suppressed = 0
}

// recovered leaves degraded mode after a successful write. Caller holds mu.
func (b *base) recovered() {
	if !b.degraded {
		return
	}
	b.degraded = false
	msg := fmt.Sprintf("%s sink: recovered", b.name)
	if b.suppressed > 0 {
		msg += fmt.Sprintf(" (%d errors suppressed)", b.suppressed)
	}
	b.suppressed = 0
	logging.HandleError(msg)
}

// Degraded reports whether the sink is currently failing.
func (b *base) Degraded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.degraded
}

func (b *base) wrote(n int) {
	b.recovered()
	b.observer.RecordWritten(b.name, n)
}

func (b *base) dropped() {
	b.observer.RecordDropped(b.name)
}
