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
	"sync"
	"sync/atomic"
	"time"
)

// Registry holds a default logger and any number of named loggers.
//
// Lifecycle: a new Registry is uninitialized ([Registry.Default] returns nil);
// [Registry.SetDefault] installs a logger, possibly replacing an earlier one;
// [Registry.Shutdown] flushes and closes every logger it can reach and returns
// the registry to the uninitialized state. Nothing is ever created implicitly.
//
// Thread-safety: All methods are safe for concurrent use. Readers of the
// default logger observe either the old or the new logger, never a partial one.
type Registry struct {
	def atomic.Pointer[Logger]

	mu      sync.Mutex
	loggers map[string]*Logger
	flusher *periodicFlusher
}

// NewRegistry returns an empty, uninitialized registry.
func NewRegistry() *Registry {
	return &Registry{loggers: make(map[string]*Logger)}
}

// SetDefault installs l as the default logger. The previous default, if any,
// is returned and left open; close it when no goroutine uses it anymore.
func (r *Registry) SetDefault(l *Logger) *Logger {
	return r.def.Swap(l)
}

// Default returns the default logger, or nil when none is installed.
func (r *Registry) Default() *Logger {
	return r.def.Load()
}

// Register adds l under its name.
func (r *Registry) Register(l *Logger) error {
	if l == nil {
		return errors.New("logger is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loggers[l.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrLoggerExists, l.Name())
	}
	r.loggers[l.Name()] = l
	return nil
}

// Get returns the logger registered under name, or nil.
func (r *Registry) Get(name string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loggers[name]
}

// Drop removes the logger registered under name without closing it.
func (r *Registry) Drop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loggers, name)
}

// Apply calls fn for the default logger and every registered logger, once each.
func (r *Registry) Apply(fn func(*Logger)) {
	for _, l := range r.all() {
		fn(l)
	}
}

// FlushAll flushes every logger in the registry.
func (r *Registry) FlushAll() {
	r.Apply((*Logger).Flush)
}

// SetLevelAll sets level on every logger in the registry.
func (r *Registry) SetLevelAll(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int32(level))
	}
	r.Apply(func(l *Logger) { _ = l.SetLevel(level) })
	return nil
}

// FlushEvery starts a background goroutine that calls [Registry.FlushAll]
// every interval, replacing any flusher started earlier. interval <= 0 stops it.
// [Registry.Shutdown] stops the flusher as well.
func (r *Registry) FlushEvery(interval time.Duration) {
	r.mu.Lock()
	old := r.flusher
	r.flusher = nil
	if interval > 0 {
		r.flusher = startFlusher(r, interval)
	}
	r.mu.Unlock()

	// A tick in progress needs r.mu for FlushAll, so wait outside the lock.
	if old != nil {
		old.stop()
	}
}

// Shutdown stops the periodic flusher, flushes and closes the default logger
// and every registered logger, and leaves the registry uninitialized.
// Sinks shared between loggers are closed once their last holder closes.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	old := r.flusher
	r.flusher = nil
	r.mu.Unlock()
	if old != nil {
		old.stop()
	}

	loggers := r.all()

	r.mu.Lock()
	r.loggers = make(map[string]*Logger)
	r.mu.Unlock()
	r.def.Store(nil)

	var errs []error
	for _, l := range loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("logger %q: %w", l.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// all returns the default logger followed by the registered loggers, deduplicated.
func (r *Registry) all() []*Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[*Logger]struct{}, len(r.loggers)+1)
	out := make([]*Logger, 0, len(r.loggers)+1)
	if d := r.def.Load(); d != nil {
		seen[d] = struct{}{}
		out = append(out, d)
	}
	for _, l := range r.loggers {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// periodicFlusher flushes a registry on a ticker until stopped.
type periodicFlusher struct {
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

func startFlusher(r *Registry, interval time.Duration) *periodicFlusher {
	pf := &periodicFlusher{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	pf.wg.Add(1)
	go func() {
		defer pf.wg.Done()
		for {
			select {
			case <-pf.ticker.C:
				r.FlushAll()
			case <-pf.done:
				return
			}
		}
	}()
	return pf
}

// stop ends the flusher and waits for an in-flight flush to finish.
func (pf *periodicFlusher) stop() {
	pf.ticker.Stop()
	close(pf.done)
	pf.wg.Wait()
}
