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

import "time"

// global is the process-wide registry behind the package-level functions.
var global = NewRegistry()

// Global returns the process-wide registry.
func Global() *Registry {
	return global
}

// SetDefault installs l as the process-wide default logger and returns the previous one.
func SetDefault(l *Logger) *Logger {
	return global.SetDefault(l)
}

// Default returns the process-wide default logger, or nil before [SetDefault].
func Default() *Logger {
	return global.Default()
}

// Register adds l to the process-wide registry.
func Register(l *Logger) error {
	return global.Register(l)
}

// Get returns a logger from the process-wide registry.
func Get(name string) *Logger {
	return global.Get(name)
}

// Drop removes a logger from the process-wide registry.
func Drop(name string) {
	global.Drop(name)
}

// FlushAll flushes every logger in the process-wide registry.
func FlushAll() {
	global.FlushAll()
}

// FlushEvery flushes the process-wide registry periodically.
func FlushEvery(interval time.Duration) {
	global.FlushEvery(interval)
}

// Shutdown flushes and closes every process-wide logger.
// Logging through the package-level functions afterwards is a no-op.
func Shutdown() error {
	return global.Shutdown()
}

// The free functions below log through the default logger and do nothing
// when none is installed. They call log directly so %@ reports the caller.

// Log logs at level through the default logger.
func Log(level Level, tmpl string, args ...any) {
	if l := global.Default(); l != nil {
		l.log(bgCtx, level, tmpl, args)
	}
}

// Trace logs at [LevelTrace] through the default logger.
func Trace(tmpl string, args ...any) {
	if l := global.Default(); l != nil {
		l.log(bgCtx, LevelTrace, tmpl, args)
	}
}

// Debug logs at [LevelDebug] through the default logger.
func Debug(tmpl string, args ...any) {
	if l := global.Default(); l != nil {
		l.log(bgCtx, LevelDebug, tmpl, args)
	}
}

// Info logs at [LevelInfo] through the default logger.
func Info(tmpl string, args ...any) {
	if l := global.Default(); l != nil {
		l.log(bgCtx, LevelInfo, tmpl, args)
	}
}

// Warn logs at [LevelWarn] through the default logger.
func Warn(tmpl string, args ...any) {
	if l := global.Default(); l != nil {
		l.log(bgCtx, LevelWarn, tmpl, args)
	}
}

// Error logs at [LevelError] through the default logger.
func Error(tmpl string, args ...any) {
	if l := global.Default(); l != nil {
		l.log(bgCtx, LevelError, tmpl, args)
	}
}

// Critical logs at [LevelCritical] through the default logger.
func Critical(tmpl string, args ...any) {
	if l := global.Default(); l != nil {
		l.log(bgCtx, LevelCritical, tmpl, args)
	}
}
