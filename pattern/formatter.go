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

// Package pattern renders log records to text according to a pattern string.
//
// A pattern mixes literal text with %-flags:
//
//	%v  message               %n  logger name          %l  level (warning)
//	%L  short level (W)       %t  goroutine id         %P  process id
//	%Y  year (2024)           %C  year (24)            %m  month 01-12
//	%d  day 01-31             %H  hour 00-23           %I  hour 01-12
//	%M  minute                %S  second               %e  milliseconds
//	%f  microseconds          %F  nanoseconds          %p  AM/PM
//	%z  UTC offset (+02:00)   %E  seconds since epoch  %a  weekday (Mon)
//	%A  weekday (Monday)      %b  month (Jan), or %h   %B  month (January)
//	%c  date and time         %D  date (01/02/24), or %x
//	%r  12-hour clock         %R  HH:MM                %T  HH:MM:SS, or %X
//	%@  file:line             %s  file base name       %g  file path
//	%#  line                  %!  function             %j  trace id
//	%J  span id               %^  colour range start   %$  colour range end
//	%%  percent sign          %+  default format
//
// Source flags render empty unless the logger captures callers. Trace flags
// render empty unless the record was logged with a span context.
//
// A flag may carry padding: %8l pads on the left, %-8l pads on the right,
// %=8l centres, and a trailing ! (%3!l) truncates to the width. Unknown flags
// are written literally.
package pattern

import (
	"bytes"
	"os"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"rivaas.dev/rotlog/logging"
)

// Default is the pattern used when none is configured.
const Default = "%+"

// maxPadding bounds the width a flag may request.
const maxPadding = 128

var pid = os.Getpid()

// scratchPool holds buffers used to render padded flags.
var scratchPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// Formatter renders records per a compiled pattern.
//
// Thread-safety: A Formatter is immutable after [New]; Format may be called
// from any number of goroutines. To change the pattern, build a new Formatter.
type Formatter struct {
	pattern string
	items   []item
	utc     bool
	eol     string
}

// Option configures a [Formatter].
type Option func(*Formatter)

// WithUTC renders timestamps in UTC instead of local time.
func WithUTC(enabled bool) Option {
	return func(f *Formatter) { f.utc = enabled }
}

// WithEOL sets the string appended to every formatted record. The default is "\n".
func WithEOL(eol string) Option {
	return func(f *Formatter) { f.eol = eol }
}

type align uint8

const (
	alignNone align = iota
	alignLeft
	alignRight
	alignCenter
)

type padding struct {
	width    int
	align    align
	truncate bool
}

type item struct {
	literal string
	flag    byte // 0 for literal text
	pad     padding
}

// New compiles pattern. An empty pattern means [Default].
// Compilation never fails: malformed or unknown flags become literal text.
func New(pattern string, opts ...Option) *Formatter {
	if pattern == "" {
		pattern = Default
	}
	f := &Formatter{pattern: pattern, eol: "\n"}
	for _, opt := range opts {
		opt(f)
	}
	f.items = compile(pattern)
	return f
}

// Pattern returns the pattern the formatter was compiled from.
func (f *Formatter) Pattern() string {
	return f.pattern
}

// EOL returns the end-of-line string.
func (f *Formatter) EOL() string {
	return f.eol
}

// UTC reports whether timestamps are rendered in UTC.
func (f *Formatter) UTC() bool {
	return f.utc
}

func compile(p string) []item {
	var (
		items []item
		lit   []byte
	)
	flushLit := func() {
		if len(lit) > 0 {
			items = append(items, item{literal: string(lit)})
			lit = lit[:0]
		}
	}

	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			lit = append(lit, p[i])
			continue
		}
		start := i
		i++
		pad, next := parsePadding(p, i)
		i = next
		if i >= len(p) {
			// Dangling % or padding without a flag.
			lit = append(lit, p[start:]...)
			break
		}
		c := p[i]
		switch {
		case c == '%':
			lit = append(lit, '%')
		case isFlag(c):
			flushLit()
			items = append(items, item{flag: c, pad: pad})
		default:
			lit = append(lit, p[start:i+1]...)
		}
	}
	flushLit()
	return items
}

// parsePadding reads [-=]width[!] starting at p[i].
func parsePadding(p string, i int) (padding, int) {
	var pad padding
	if i >= len(p) {
		return pad, i
	}
	al := alignRight
	switch p[i] {
	case '-':
		al = alignLeft
		i++
	case '=':
		al = alignCenter
		i++
	}
	n := i
	for n < len(p) && p[n] >= '0' && p[n] <= '9' {
		n++
	}
	if n == i {
		// Alignment without width is ignored.
		return padding{}, n
	}
	w, _ := strconv.Atoi(p[i:n])
	pad = padding{width: min(w, maxPadding), align: al}
	if n < len(p) && p[n] == '!' {
		pad.truncate = true
		n++
	}
	return pad, n
}

func isFlag(c byte) bool {
	switch c {
	case 'v', 'n', 'l', 'L', 't', 'P',
		'Y', 'C', 'm', 'd', 'H', 'I', 'M', 'S', 'e', 'f', 'F', 'p', 'z', 'E',
		'a', 'A', 'b', 'h', 'B', 'c', 'D', 'x', 'r', 'R', 'T', 'X',
		'@', 's', 'g', '#', '!', 'j', 'J', '^', '$', '+':
		return true
	}
	return false
}

// Format appends the rendering of r, including the end-of-line string, to buf.
// It returns the byte offsets, relative to the first byte appended, of the
// colour range delimited by %^ and %$. start == end means no range.
func (f *Formatter) Format(r *logging.Record, buf *bytes.Buffer) (colorStart, colorEnd int) {
	base := buf.Len()
	rc := renderContext{rec: r, t: r.Time, base: base}
	if f.utc {
		rc.t = rc.t.UTC()
	} else {
		rc.t = rc.t.Local()
	}

	for i := range f.items {
		it := &f.items[i]
		if it.flag == 0 {
			buf.WriteString(it.literal)
			continue
		}
		if it.pad.width == 0 || it.flag == '^' || it.flag == '$' || it.flag == '+' {
			rc.render(buf, it.flag)
			continue
		}
		scratch := scratchPool.Get().(*bytes.Buffer)
		scratch.Reset()
		rc.render(scratch, it.flag)
		writePadded(buf, scratch.Bytes(), it.pad)
		scratchPool.Put(scratch)
	}
	buf.WriteString(f.eol)

	if rc.colorEnd <= rc.colorStart || !rc.hasStart || !rc.hasEnd {
		return 0, 0
	}
	return rc.colorStart, rc.colorEnd
}

// FormatString renders r and returns the text without the colour range.
func (f *Formatter) FormatString(r *logging.Record) string {
	var buf bytes.Buffer
	f.Format(r, &buf)
	return buf.String()
}

func writePadded(buf *bytes.Buffer, s []byte, pad padding) {
	n := utf8.RuneCount(s)
	if n >= pad.width {
		if pad.truncate && n > pad.width {
			s = truncateRunes(s, pad.width)
		}
		buf.Write(s)
		return
	}
	gap := pad.width - n
	switch pad.align {
	case alignLeft:
		buf.Write(s)
		writeSpaces(buf, gap)
	case alignCenter:
		left := gap / 2
		writeSpaces(buf, left)
		buf.Write(s)
		writeSpaces(buf, gap-left)
	default:
		writeSpaces(buf, gap)
		buf.Write(s)
	}
}

func truncateRunes(s []byte, n int) []byte {
	for i := range string(s) {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func writeSpaces(buf *bytes.Buffer, n int) {
	for range n {
		buf.WriteByte(' ')
	}
}

// renderContext carries per-call state; the Formatter itself is never mutated.
type renderContext struct {
	rec  *logging.Record
	t    time.Time
	base int

	src    logging.Source
	srcSet bool

	colorStart, colorEnd int
	hasStart, hasEnd     bool
}

func (rc *renderContext) source() logging.Source {
	if !rc.srcSet {
		rc.src = rc.rec.Source()
		rc.srcSet = true
	}
	return rc.src
}
