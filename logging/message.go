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
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// defaultFloatPrecision is used by the f, F, e, E, g and G presentation
// types when the replacement field gives no precision.
const defaultFloatPrecision = 6

// maxSpecValue bounds the width and precision a replacement field may request.
const maxSpecValue = 1024

// formatErrorMarker prefixes the raw template of a message that failed to expand.
const formatErrorMarker = "[format error: "

var messageBuilderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

// FormatMessage expands the replacement fields of tmpl with args.
//
// Replacement fields:
//
//	{}        next argument
//	{1}       argument by position (cannot be mixed with {})
//	{:.2f}    argument with a format spec
//	{{ }}     literal braces
//
// A spec is [[fill]align][sign][#][0][width][.precision][type], where align is
// one of < > ^ and type is one of d x X o b c s f F e E g G.
//
// A template with no args is returned unchanged. Surplus args are ignored.
// When expansion fails the result is the raw template behind a
// "[format error: reason]" marker, and the *[FormatError] is returned as well.
func FormatMessage(tmpl string, args ...any) (string, error) {
	if len(args) == 0 {
		return tmpl, nil
	}

	b := messageBuilderPool.Get().(*strings.Builder)
	b.Reset()
	defer messageBuilderPool.Put(b)

	if reason := expand(b, tmpl, args); reason != "" {
		return formatErrorMarker + reason + "] " + tmpl, &FormatError{Template: tmpl, Reason: reason}
	}
	return b.String(), nil
}

// expand writes the expansion of tmpl to b and returns a non-empty reason on failure.
func expand(b *strings.Builder, tmpl string, args []any) string {
	next := 0
	manual := false
	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "unmatched '{'"
			}
			field := tmpl[i+1 : i+1+end]
			i += end + 2

			index, spec, hasSpec := strings.Cut(field, ":")
			var argIdx int
			if index == "" {
				if manual {
					return "cannot switch from manual to automatic argument indexing"
				}
				argIdx = next
				next++
			} else {
				n, err := strconv.Atoi(index)
				if err != nil || n < 0 {
					return fmt.Sprintf("invalid argument index %q", index)
				}
				if next > 0 {
					return "cannot switch from automatic to manual argument indexing"
				}
				manual = true
				argIdx = n
			}
			if argIdx >= len(args) {
				return fmt.Sprintf("argument %d not found", argIdx)
			}

			fs := fieldSpec{align: 0, fill: ' ', precision: -1}
			if hasSpec {
				var ok bool
				if fs, ok = parseFieldSpec(spec); !ok {
					return fmt.Sprintf("invalid format spec %q", spec)
				}
			}
			if reason := formatArg(b, args[argIdx], fs); reason != "" {
				return reason
			}
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "unmatched '}'"
		default:
			j := strings.IndexAny(tmpl[i:], "{}")
			if j < 0 {
				b.WriteString(tmpl[i:])
				return ""
			}
			b.WriteString(tmpl[i : i+j])
			i += j
		}
	}
	return ""
}

type fieldSpec struct {
	fill      rune
	align     byte // '<', '>', '^' or 0 for the type default
	sign      byte // '+', '-', ' ' or 0
	alternate bool
	zero      bool
	width     int
	precision int // -1 when absent
	verb      byte
}

func parseFieldSpec(s string) (fieldSpec, bool) {
	fs := fieldSpec{fill: ' ', precision: -1}
	if s == "" {
		return fs, true
	}

	// [[fill]align]
	if r, size := utf8.DecodeRuneInString(s); size < len(s) && isAlign(s[size]) {
		fs.fill = r
		fs.align = s[size]
		s = s[size+1:]
	} else if isAlign(s[0]) {
		fs.align = s[0]
		s = s[1:]
	}

	if s != "" && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		fs.sign = s[0]
		s = s[1:]
	}
	if s != "" && s[0] == '#' {
		fs.alternate = true
		s = s[1:]
	}
	if s != "" && s[0] == '0' {
		fs.zero = true
		s = s[1:]
	}

	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n > 0 {
		w, err := strconv.Atoi(s[:n])
		if err != nil || w > maxSpecValue {
			return fs, false
		}
		fs.width = w
		s = s[n:]
	}

	if s != "" && s[0] == '.' {
		s = s[1:]
		n = 0
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n == 0 {
			return fs, false
		}
		p, err := strconv.Atoi(s[:n])
		if err != nil || p > maxSpecValue {
			return fs, false
		}
		fs.precision = p
		s = s[n:]
	}

	switch len(s) {
	case 0:
	case 1:
		if !strings.ContainsRune("dxXobcsfFeEgG", rune(s[0])) {
			return fs, false
		}
		fs.verb = s[0]
	default:
		return fs, false
	}
	return fs, true
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^'
}

// formatArg renders v per fs and writes it, padded, to b.
func formatArg(b *strings.Builder, v any, fs fieldSpec) string {
	var (
		s       string
		numeric bool
	)

	switch x := v.(type) {
	case nil:
		s = "<nil>"
	case bool:
		if fs.verb != 0 && fs.verb != 's' {
			return fmt.Sprintf("invalid type %q for bool", fs.verb)
		}
		s = strconv.FormatBool(x)
	case string:
		if fs.verb != 0 && fs.verb != 's' {
			return fmt.Sprintf("invalid type %q for string", fs.verb)
		}
		s = truncate(x, fs.precision)
	case []byte:
		if fs.verb != 0 && fs.verb != 's' {
			return fmt.Sprintf("invalid type %q for bytes", fs.verb)
		}
		s = truncate(string(x), fs.precision)
	case float64:
		var ok bool
		if s, ok = formatFloat(x, 64, fs); !ok {
			return fmt.Sprintf("invalid type %q for float", fs.verb)
		}
		numeric = true
	case float32:
		var ok bool
		if s, ok = formatFloat(float64(x), 32, fs); !ok {
			return fmt.Sprintf("invalid type %q for float", fs.verb)
		}
		numeric = true
	case time.Duration:
		s = x.String()
	case error:
		s = x.Error()
	case fmt.Stringer:
		s = x.String()
	default:
		if i, u, signed, ok := asInteger(v); ok {
			var okFmt bool
			if s, okFmt = formatInteger(i, u, signed, fs); !okFmt {
				return fmt.Sprintf("invalid type %q for integer", fs.verb)
			}
			numeric = true
			break
		}
		if fs.verb != 0 && fs.verb != 's' {
			return fmt.Sprintf("invalid type %q for %T", fs.verb, v)
		}
		s = fmt.Sprint(v)
	}

	pad(b, s, fs, numeric)
	return ""
}

func truncate(s string, precision int) string {
	if precision < 0 || utf8.RuneCountInString(s) <= precision {
		return s
	}
	n := 0
	for i := range s {
		if n == precision {
			return s[:i]
		}
		n++
	}
	return s
}

func asInteger(v any) (i int64, u uint64, signed, ok bool) {
	switch x := v.(type) {
	case int:
		return int64(x), 0, true, true
	case int8:
		return int64(x), 0, true, true
	case int16:
		return int64(x), 0, true, true
	case int32:
		return int64(x), 0, true, true
	case int64:
		return x, 0, true, true
	case uint:
		return 0, uint64(x), false, true
	case uint8:
		return 0, uint64(x), false, true
	case uint16:
		return 0, uint64(x), false, true
	case uint32:
		return 0, uint64(x), false, true
	case uint64:
		return 0, x, false, true
	case uintptr:
		return 0, uint64(x), false, true
	}
	return 0, 0, false, false
}

func formatInteger(i int64, u uint64, signed bool, fs fieldSpec) (string, bool) {
	neg := signed && i < 0
	mag := u
	if signed {
		if neg {
			mag = uint64(-(i + 1)) + 1
		} else {
			mag = uint64(i)
		}
	}

	var digits, prefix string
	switch fs.verb {
	case 0, 'd':
		digits = strconv.FormatUint(mag, 10)
	case 'x':
		digits, prefix = strconv.FormatUint(mag, 16), "0x"
	case 'X':
		digits, prefix = strings.ToUpper(strconv.FormatUint(mag, 16)), "0X"
	case 'o':
		digits, prefix = strconv.FormatUint(mag, 8), "0"
	case 'b':
		digits, prefix = strconv.FormatUint(mag, 2), "0b"
	case 'c':
		return string(rune(mag)), true
	case 'f', 'F', 'e', 'E', 'g', 'G':
		f := float64(mag)
		if neg {
			f = -f
		}
		return formatFloat(f, 64, fs)
	default:
		return "", false
	}
	if !fs.alternate {
		prefix = ""
	}
	return signPrefix(neg, fs.sign) + prefix + digits, true
}

func formatFloat(f float64, bitSize int, fs fieldSpec) (string, bool) {
	prec := fs.precision
	var verb byte
	switch fs.verb {
	case 0:
		verb = 'g'
		if prec < 0 {
			// Shortest representation that round-trips, without exponent
			// for ordinary magnitudes.
			verb = 'f'
			if a := math.Abs(f); a != 0 && (a < 1e-5 || a >= 1e16) {
				verb = 'g'
			}
		}
	case 'f', 'F':
		verb = 'f'
		if prec < 0 {
			prec = defaultFloatPrecision
		}
	case 'e', 'E', 'g', 'G':
		verb = fs.verb
		if prec < 0 {
			prec = defaultFloatPrecision
		}
	default:
		return "", false
	}

	neg := math.Signbit(f) && !math.IsNaN(f)
	s := strconv.FormatFloat(math.Abs(f), verb, prec, bitSize)
	if fs.verb == 'F' {
		s = strings.ToUpper(s)
	}
	return signPrefix(neg, fs.sign) + s, true
}

func signPrefix(neg bool, sign byte) string {
	switch {
	case neg:
		return "-"
	case sign == '+':
		return "+"
	case sign == ' ':
		return " "
	}
	return ""
}

// pad writes s to b honouring width, fill and alignment.
// Numbers align right by default and honour the zero flag; everything else aligns left.
func pad(b *strings.Builder, s string, fs fieldSpec, numeric bool) {
	n := utf8.RuneCountInString(s)
	if fs.width <= n {
		b.WriteString(s)
		return
	}
	gap := fs.width - n

	if numeric && fs.zero && fs.align == 0 {
		sign := ""
		if s != "" && (s[0] == '-' || s[0] == '+' || s[0] == ' ') {
			sign, s = s[:1], s[1:]
		}
		b.WriteString(sign)
		b.WriteString(strings.Repeat("0", gap))
		b.WriteString(s)
		return
	}

	align := fs.align
	if align == 0 {
		align = '<'
		if numeric {
			align = '>'
		}
	}
	fill := string(fs.fill)
	switch align {
	case '>':
		b.WriteString(strings.Repeat(fill, gap))
		b.WriteString(s)
	case '^':
		left := gap / 2
		b.WriteString(strings.Repeat(fill, left))
		b.WriteString(s)
		b.WriteString(strings.Repeat(fill, gap-left))
	default:
		b.WriteString(s)
		b.WriteString(strings.Repeat(fill, gap))
	}
}
