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

package pattern

import (
	"bytes"
	"path"
	"path/filepath"
	"strconv"
)

var (
	shortDays   = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	longDays    = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	longMonths  = [...]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
)

func (rc *renderContext) render(buf *bytes.Buffer, flag byte) {
	r, t := rc.rec, rc.t
	switch flag {
	case 'v':
		buf.WriteString(r.Message)
	case 'n':
		buf.WriteString(r.LoggerName)
	case 'l':
		buf.WriteString(r.Level.String())
	case 'L':
		buf.WriteString(r.Level.ShortString())
	case 't':
		writeUint(buf, r.ThreadID)
	case 'P':
		writeInt(buf, int64(pid))

	case 'Y':
		writeInt(buf, int64(t.Year()))
	case 'C':
		pad2(buf, t.Year()%100)
	case 'm':
		pad2(buf, int(t.Month()))
	case 'd':
		pad2(buf, t.Day())
	case 'H':
		pad2(buf, t.Hour())
	case 'I':
		pad2(buf, hour12(t.Hour()))
	case 'M':
		pad2(buf, t.Minute())
	case 'S':
		pad2(buf, t.Second())
	case 'e':
		padN(buf, t.Nanosecond()/1e6, 3)
	case 'f':
		padN(buf, t.Nanosecond()/1e3, 6)
	case 'F':
		padN(buf, t.Nanosecond(), 9)
	case 'p':
		buf.WriteString(ampm(t.Hour()))
	case 'z':
		_, offset := t.Zone()
		sign := byte('+')
		if offset < 0 {
			sign = '-'
			offset = -offset
		}
		buf.WriteByte(sign)
		pad2(buf, offset/3600)
		buf.WriteByte(':')
		pad2(buf, offset%3600/60)
	case 'E':
		writeInt(buf, t.Unix())
	case 'a':
		buf.WriteString(shortDays[t.Weekday()])
	case 'A':
		buf.WriteString(longDays[t.Weekday()])
	case 'b', 'h':
		buf.WriteString(shortMonths[t.Month()-1])
	case 'B':
		buf.WriteString(longMonths[t.Month()-1])
	case 'c':
		// Thu Aug 23 15:35:46 2014
		buf.WriteString(shortDays[t.Weekday()])
		buf.WriteByte(' ')
		buf.WriteString(shortMonths[t.Month()-1])
		buf.WriteByte(' ')
		writeInt(buf, int64(t.Day()))
		buf.WriteByte(' ')
		writeClock(buf, t.Hour(), t.Minute(), t.Second())
		buf.WriteByte(' ')
		writeInt(buf, int64(t.Year()))
	case 'D', 'x':
		pad2(buf, int(t.Month()))
		buf.WriteByte('/')
		pad2(buf, t.Day())
		buf.WriteByte('/')
		pad2(buf, t.Year()%100)
	case 'r':
		writeClock(buf, hour12(t.Hour()), t.Minute(), t.Second())
		buf.WriteByte(' ')
		buf.WriteString(ampm(t.Hour()))
	case 'R':
		pad2(buf, t.Hour())
		buf.WriteByte(':')
		pad2(buf, t.Minute())
	case 'T', 'X':
		writeClock(buf, t.Hour(), t.Minute(), t.Second())

	case '@':
		if src := rc.source(); src.File != "" {
			buf.WriteString(src.File)
			buf.WriteByte(':')
			writeInt(buf, int64(src.Line))
		}
	case 's':
		if src := rc.source(); src.File != "" {
			buf.WriteString(filepath.Base(src.File))
		}
	case 'g':
		buf.WriteString(rc.source().File)
	case '#':
		if src := rc.source(); src.Line > 0 {
			writeInt(buf, int64(src.Line))
		}
	case '!':
		if src := rc.source(); src.Function != "" {
			buf.WriteString(path.Base(src.Function))
		}

	case 'j':
		buf.WriteString(r.TraceID)
	case 'J':
		buf.WriteString(r.SpanID)

	case '^':
		rc.colorStart = buf.Len() - rc.base
		rc.hasStart = true
	case '$':
		rc.colorEnd = buf.Len() - rc.base
		rc.hasEnd = true

	case '+':
		rc.renderDefault(buf)
	}
}

// renderDefault writes
//
//	[2024-03-01 12:00:00.123] [name] [level] [file.go:42] message
//
// omitting the name and source sections when they are empty. The level name
// is the colour range.
func (rc *renderContext) renderDefault(buf *bytes.Buffer) {
	r, t := rc.rec, rc.t

	buf.WriteByte('[')
	writeInt(buf, int64(t.Year()))
	buf.WriteByte('-')
	pad2(buf, int(t.Month()))
	buf.WriteByte('-')
	pad2(buf, t.Day())
	buf.WriteByte(' ')
	writeClock(buf, t.Hour(), t.Minute(), t.Second())
	buf.WriteByte('.')
	padN(buf, t.Nanosecond()/1e6, 3)
	buf.WriteString("] ")

	if r.LoggerName != "" {
		buf.WriteByte('[')
		buf.WriteString(r.LoggerName)
		buf.WriteString("] ")
	}

	buf.WriteByte('[')
	rc.render(buf, '^')
	buf.WriteString(r.Level.String())
	rc.render(buf, '$')
	buf.WriteString("] ")

	if src := rc.source(); src.File != "" {
		buf.WriteByte('[')
		buf.WriteString(filepath.Base(src.File))
		buf.WriteByte(':')
		writeInt(buf, int64(src.Line))
		buf.WriteString("] ")
	}

	buf.WriteString(r.Message)
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func ampm(h int) string {
	if h >= 12 {
		return "PM"
	}
	return "AM"
}

func writeClock(buf *bytes.Buffer, h, m, s int) {
	pad2(buf, h)
	buf.WriteByte(':')
	pad2(buf, m)
	buf.WriteByte(':')
	pad2(buf, s)
}

func pad2(buf *bytes.Buffer, n int) {
	buf.WriteByte(byte('0' + n/10%10))
	buf.WriteByte(byte('0' + n%10))
}

func padN(buf *bytes.Buffer, n, width int) {
	var tmp [20]byte
	b := strconv.AppendInt(tmp[:0], int64(n), 10)
	for i := len(b); i < width; i++ {
		buf.WriteByte('0')
	}
	buf.Write(b)
}

func writeInt(buf *bytes.Buffer, n int64) {
	var tmp [20]byte
	buf.Write(strconv.AppendInt(tmp[:0], n, 10))
}

func writeUint(buf *bytes.Buffer, n uint64) {
	var tmp [20]byte
	buf.Write(strconv.AppendUint(tmp[:0], n, 10))
}
