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

package sink

import (
	"time"

	"rivaas.dev/rotlog/logging"
	"rivaas.dev/rotlog/pattern"
)

// Option is a functional option shared by all sink constructors.
// Options that do not apply to a sink type are ignored by it.
type Option func(*options)

type options struct {
	name     string
	level    logging.Level
	pattern  string
	utc      bool
	eol      string
	observer Observer
	clock    func() time.Time

	// file sinks
	truncate     bool
	rotateOnOpen bool
	maxFiles     int

	// console
	colorMode ColorMode
	colors    map[logging.Level]string
}

func newOptions(name string, opts []Option) *options {
	o := &options{
		name:      name,
		level:     logging.LevelTrace,
		pattern:   pattern.Default,
		eol:       "\n",
		observer:  nopObserver{},
		clock:     time.Now,
		colorMode: ColorAuto,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithName sets the name the sink reports to its [Observer] and in errors.
// Defaults are "console", "file", "rotating" and "daily".
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLevel sets the sink's minimum level. The default is trace, i.e. the
// sink accepts everything its logger passes on.
func WithLevel(level logging.Level) Option {
	return func(o *options) { o.level = level }
}

// WithPattern sets the sink's pattern. The default is [pattern.Default].
func WithPattern(p string) Option {
	return func(o *options) {
		if p != "" {
			o.pattern = p
		}
	}
}

// WithUTC renders pattern timestamps in UTC.
func WithUTC(enabled bool) Option {
	return func(o *options) { o.utc = enabled }
}

// WithEOL sets the end-of-line string appended to each record.
func WithEOL(eol string) Option {
	return func(o *options) { o.eol = eol }
}

// WithObserver reports sink activity to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock replaces time.Now for rotation deadlines and error rate limiting.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithTruncate empties the file on open instead of appending to it.
func WithTruncate(enabled bool) Option {
	return func(o *options) { o.truncate = enabled }
}

// WithRotateOnOpen rotates a non-empty file when a size-rotating sink opens it.
func WithRotateOnOpen(enabled bool) Option {
	return func(o *options) { o.rotateOnOpen = enabled }
}

// WithMaxFiles bounds the number of archives a daily sink keeps.
// 0, the default, keeps every archive.
func WithMaxFiles(n int) Option {
	return func(o *options) { o.maxFiles = n }
}

// WithColorMode selects whether the console sink emits colour.
func WithColorMode(mode ColorMode) Option {
	return func(o *options) { o.colorMode = mode }
}

// WithColor overrides the escape sequence used for level.
func WithColor(level logging.Level, escape string) Option {
	return func(o *options) {
		if o.colors == nil {
			o.colors = make(map[logging.Level]string)
		}
		o.colors[level] = escape
	}
}
