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
	"sync"
	"sync/atomic"
	"time"
)

const (
	backtraceStart = "****************** Backtrace Start ******************"
	backtraceEnd   = "****************** Backtrace End ********************"
)

// backtracer keeps the most recent records in a fixed-size ring.
type backtracer struct {
	on      atomic.Bool
	mu      sync.Mutex
	records []*Record
	next    int
	full    bool
}

func newBacktracer() *backtracer {
	return &backtracer{}
}

func (b *backtracer) active() bool {
	return b.on.Load()
}

func (b *backtracer) enable(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = make([]*Record, n)
	b.next = 0
	b.full = false
	b.on.Store(n > 0)
}

func (b *backtracer) disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.on.Store(false)
	b.records = nil
	b.next = 0
	b.full = false
}

func (b *backtracer) capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// push stores a copy of r, overwriting the oldest entry when full.
func (b *backtracer) push(r *Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) == 0 {
		return
	}
	b.records[b.next] = r.Clone()
	b.next = (b.next + 1) % len(b.records)
	if b.next == 0 {
		b.full = true
	}
}

// drain returns the stored records oldest first and empties the ring.
func (b *backtracer) drain() []*Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*Record
	if b.full {
		out = append(out, b.records[b.next:]...)
	}
	out = append(out, b.records[:b.next]...)

	for i := range b.records {
		b.records[i] = nil
	}
	b.next = 0
	b.full = false
	return out
}

// EnableBacktrace starts keeping the last n records of every level,
// including records below the logger's level. n <= 0 disables it.
func (l *Logger) EnableBacktrace(n int) {
	if n <= 0 {
		l.bt.disable()
		return
	}
	l.bt.enable(n)
}

// DisableBacktrace stops keeping records and discards the stored ones.
func (l *Logger) DisableBacktrace() {
	l.bt.disable()
}

// DumpBacktrace writes the stored records to every sink between start and
// end marker lines, bypassing the logger's level, and empties the ring.
// Sinks still apply their own level filter.
func (l *Logger) DumpBacktrace() {
	if !l.bt.active() || l.closed.Load() {
		return
	}
	records := l.bt.drain()
	if len(records) == 0 {
		return
	}

	l.dispatchMarker(backtraceStart)
	for _, r := range records {
		for _, s := range l.sinks {
			l.sinkLog(s, r)
		}
	}
	l.dispatchMarker(backtraceEnd)
}

func (l *Logger) dispatchMarker(msg string) {
	r := &Record{
		LoggerName: l.name,
		Level:      LevelInfo,
		Time:       time.Now(),
		ThreadID:   goroutineID(),
		Template:   msg,
		Message:    msg,
	}
	for _, s := range l.sinks {
		l.sinkLog(s, r)
	}
}
