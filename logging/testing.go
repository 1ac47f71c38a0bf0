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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSink is an in-memory [Sink] that keeps a copy of every accepted record.
//
// Use cases:
//   - Assert which records a logger dispatched, and in what order
//   - Verify level filtering and flush policies without touching the filesystem
//   - Count Flush and Close calls made by the logger or registry
//
// Example:
//
//	ts := logging.NewTestSink()
//	logger := logging.MustNew("app", logging.WithSinks(ts))
//	logger.Info("hello {}", "world")
//
//	if ts.Messages()[0] != "hello world" {
//	    t.Error("unexpected message")
//	}
type TestSink struct {
	mu      sync.Mutex
	records []*Record
	pattern string

	level   atomic.Int32
	flushes atomic.Int64
	refs    atomic.Int64
	closed  atomic.Bool
}

// NewTestSink returns a [TestSink] that accepts every level.
func NewTestSink() *TestSink {
	ts := &TestSink{}
	ts.level.Store(int32(LevelTrace))
	return ts
}

// Log implements [Sink].
func (ts *TestSink) Log(r *Record) {
	if r.Level < ts.Level() || ts.closed.Load() {
		return
	}
	ts.mu.Lock()
	ts.records = append(ts.records, r.Clone())
	ts.mu.Unlock()
}

// Flush implements [Sink].
func (ts *TestSink) Flush() {
	ts.flushes.Add(1)
}

// Level implements [Sink].
func (ts *TestSink) Level() Level {
	return Level(ts.level.Load())
}

// SetLevel implements [Sink].
func (ts *TestSink) SetLevel(level Level) {
	ts.level.Store(int32(level))
}

// SetPattern implements [Sink]. The pattern is recorded, not applied.
func (ts *TestSink) SetPattern(pattern string) {
	ts.mu.Lock()
	ts.pattern = pattern
	ts.mu.Unlock()
}

// Pattern returns the last pattern passed to SetPattern.
func (ts *TestSink) Pattern() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.pattern
}

// Retain implements [Retainer].
func (ts *TestSink) Retain() {
	ts.refs.Add(1)
}

// Close implements [Sink]. The sink is marked closed after its last holder closes it.
func (ts *TestSink) Close() error {
	if ts.closed.Load() {
		return errors.New("test sink already closed")
	}
	if ts.refs.Add(-1) <= 0 {
		ts.closed.Store(true)
	}
	return nil
}

// Closed reports whether the last holder has closed the sink.
func (ts *TestSink) Closed() bool {
	return ts.closed.Load()
}

// Flushes returns the number of Flush calls.
func (ts *TestSink) Flushes() int {
	return int(ts.flushes.Load())
}

// Records returns copies of the accepted records, oldest first.
func (ts *TestSink) Records() []*Record {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]*Record(nil), ts.records...)
}

// Messages returns the expanded message of every accepted record.
func (ts *TestSink) Messages() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]string, len(ts.records))
	for i, r := range ts.records {
		out[i] = r.Message
	}
	return out
}

// Last returns the most recent record, or nil.
func (ts *TestSink) Last() *Record {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.records) == 0 {
		return nil
	}
	return ts.records[len(ts.records)-1]
}

// CountLevel returns the number of accepted records at level.
func (ts *TestSink) CountLevel(level Level) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	n := 0
	for _, r := range ts.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// Reset discards the accepted records.
func (ts *TestSink) Reset() {
	ts.mu.Lock()
	ts.records = nil
	ts.mu.Unlock()
}

// NewTestLogger creates a [Logger] at [LevelTrace] writing to a fresh [TestSink].
// Additional [Option] values are applied after the defaults.
func NewTestLogger(name string, opts ...Option) (*Logger, *TestSink) {
	ts := NewTestSink()
	defaultOpts := []Option{
		WithSinks(ts),
		WithLevel(LevelTrace),
	}
	logger := MustNew(name, append(defaultOpts, opts...)...)
	return logger, ts
}

// AssertLogged fails t unless ts holds a record at level with message msg.
func AssertLogged(t *testing.T, ts *TestSink, level Level, msg string) {
	t.Helper()

	for _, r := range ts.Records() {
		if r.Level == level && r.Message == msg {
			return
		}
	}
	require.Fail(t, "log record not found", "level=%s msg=%q records=%v", level, msg, ts.Messages())
}

// MockWriter is an io.Writer that records all writes for test assertions.
//
// Use cases:
//   - Verify number of write calls (buffering behavior)
//   - Inspect write contents (pattern validation)
//   - Simulate write errors (degraded mode tests)
//
// Thread-safe: Safe for concurrent use.
type MockWriter struct {
	mu         sync.Mutex
	writes     [][]byte
	writeError error
	bytesTotal int
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (n int, err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.writeError != nil {
		return 0, mw.writeError
	}

	mw.writes = append(mw.writes, append([]byte(nil), p...))
	mw.bytesTotal += len(p)

	return len(p), nil
}

// SetError makes every later Write fail with err. nil restores normal writes.
func (mw *MockWriter) SetError(err error) {
	mw.mu.Lock()
	mw.writeError = err
	mw.mu.Unlock()
}

// WriteCount returns the number of successful write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return len(mw.writes)
}

// BytesWritten returns total bytes written.
func (mw *MockWriter) BytesWritten() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.bytesTotal
}

// String returns everything written so far.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	var n int
	for _, w := range mw.writes {
		n += len(w)
	}
	out := make([]byte, 0, n)
	for _, w := range mw.writes {
		out = append(out, w...)
	}
	return string(out)
}

// LastWrite returns the most recent write.
func (mw *MockWriter) LastWrite() []byte {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if len(mw.writes) == 0 {
		return nil
	}

	return mw.writes[len(mw.writes)-1]
}

// Reset clears all recorded writes.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writes = nil
	mw.bytesTotal = 0
}
