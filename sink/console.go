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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/colorprofile"

	"rivaas.dev/rotlog/logging"
)

// ErrUnknownTarget and ErrUnknownColorMode are returned by [ParseTarget]
// and [ParseColorMode].
var (
	ErrUnknownTarget    = errors.New("unknown console target")
	ErrUnknownColorMode = errors.New("unknown color mode")
)

// Target selects the standard stream a console sink writes to.
type Target int

const (
	Stdout Target = iota
	Stderr
)

// String returns "stdout" or "stderr".
func (t Target) String() string {
	if t == Stderr {
		return "stderr"
	}
	return "stdout"
}

// ParseTarget parses "stdout" or "stderr", ignoring case.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stdout", "":
		return Stdout, nil
	case "stderr":
		return Stderr, nil
	}
	return Stdout, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// ColorMode controls colour output of a console sink.
type ColorMode int

const (
	// ColorAuto colours output only when the stream is a colour-capable
	// terminal, honouring NO_COLOR and related environment variables.
	ColorAuto ColorMode = iota
	// ColorAlways emits escape sequences unconditionally.
	ColorAlways
	// ColorNever emits no escape sequences.
	ColorNever
)

// String returns "auto", "always" or "never".
func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseColorMode parses "auto", "always" or "never", ignoring case.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
}

const colorReset = "\033[0m"

// DefaultColors are the escape sequences applied to the %^...%$ range of each level.
var DefaultColors = map[logging.Level]string{
	logging.LevelTrace:    "\033[37m",
	logging.LevelDebug:    "\033[36m",
	logging.LevelInfo:     "\033[32m",
	logging.LevelWarn:     "\033[33m\033[1m",
	logging.LevelError:    "\033[31m\033[1m",
	logging.LevelCritical: "\033[1m\033[41m",
}

// stdMu serializes writes to the process's standard streams so lines from
// stdout and stderr sinks never interleave on a shared terminal.
var stdMu sync.Mutex

type flusher interface {
	Flush() error
}

// Console writes records to a standard stream or any io.Writer, colouring
// the part of each line its pattern marks with %^ and %$.
//
// Thread-safe: Safe for concurrent use by multiple goroutines.
type Console struct {
	base
	target  string
	w       io.Writer
	wmu     *sync.Mutex
	colored bool
	colors  [logging.LevelCritical + 1]string
	out     bytes.Buffer
}

var _ logging.Sink = (*Console)(nil)

// NewConsole returns a sink writing to stdout or stderr. All console sinks on
// standard streams share one lock.
func NewConsole(target Target, opts ...Option) *Console {
	var f *os.File
	if target == Stderr {
		f = os.Stderr
	} else {
		f = os.Stdout
	}
	return newConsole(f, target.String(), &stdMu, opts)
}

// NewConsoleWriter returns a console sink writing to w. The sink never
// closes w.
func NewConsoleWriter(w io.Writer, opts ...Option) *Console {
	return newConsole(w, "writer", new(sync.Mutex), opts)
}

func newConsole(w io.Writer, target string, wmu *sync.Mutex, opts []Option) *Console {
	o := newOptions("console", opts)
	s := &Console{target: target, w: w, wmu: wmu}
	s.init(o)

	switch o.colorMode {
	case ColorAlways:
		s.colored = true
	case ColorAuto:
		cpw := colorprofile.NewWriter(w, os.Environ())
		if cpw.Profile != colorprofile.NoTTY && cpw.Profile != colorprofile.Ascii {
			s.colored = true
			s.w = cpw
		}
	}
	for level, esc := range DefaultColors {
		s.colors[level] = esc
	}
	for level, esc := range o.colors {
		if level >= logging.LevelTrace && level <= logging.LevelCritical {
			s.colors[level] = esc
		}
	}
	return s
}

// Colored reports whether the sink emits escape sequences.
func (s *Console) Colored() bool {
	return s.colored
}

// Log implements [logging.Sink].
func (s *Console) Log(r *logging.Record) {
	if !s.accepts(r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	p, cs, ce := s.format(r)
	if s.colored && ce > cs && r.Level >= logging.LevelTrace && r.Level <= logging.LevelCritical {
		s.out.Reset()
		s.out.Write(p[:cs])
		s.out.WriteString(s.colors[r.Level])
		s.out.Write(p[cs:ce])
		s.out.WriteString(colorReset)
		s.out.Write(p[ce:])
		p = s.out.Bytes()
	}

	s.wmu.Lock()
	_, err := s.w.Write(p)
	s.wmu.Unlock()
	if err != nil {
		s.fail("write", s.target, err)
		s.dropped()
		return
	}
	s.wrote(len(p))
}

// Flush implements [logging.Sink]. Writers without a Flush method need none.
func (s *Console) Flush() {
	f, ok := s.w.(flusher)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wmu.Lock()
	err := f.Flush()
	s.wmu.Unlock()
	if err != nil {
		s.fail("flush", s.target, err)
	}
}

// Close implements [logging.Sink]. It flushes the writer and stops the sink;
// the underlying stream stays open.
func (s *Console) Close() error {
	if !s.release() {
		return nil
	}
	s.Flush()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
