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
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/rotlog/logging"
)

func TestParseTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{in: "stdout", want: Stdout},
		{in: "STDERR", want: Stderr},
		{in: "", want: Stdout},
		{in: "syslog", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{in: "auto", want: ColorAuto},
		{in: "Always", want: ColorAlways},
		{in: "never", want: ColorNever},
		{in: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseColorMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownColorMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestConsole_ColorModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mode  ColorMode
		level logging.Level
		opts  []Option
		want  string
	}{
		{name: "always info", mode: ColorAlways, level: logging.LevelInfo, want: "[\033[32minfo\033[0m] hi\n"},
		{name: "always critical", mode: ColorAlways, level: logging.LevelCritical, want: "[\033[1m\033[41mcritical\033[0m] hi\n"},
		{name: "never", mode: ColorNever, level: logging.LevelError, want: "[error] hi\n"},
		{name: "auto on a buffer", mode: ColorAuto, level: logging.LevelWarn, want: "[warning] hi\n"},
		{
			name:  "custom color",
			mode:  ColorAlways,
			level: logging.LevelDebug,
			opts:  []Option{WithColor(logging.LevelDebug, "\033[35m")},
			want:  "[\033[35mdebug\033[0m] hi\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			opts := append([]Option{WithPattern("[%^%l%$] %v"), WithColorMode(tt.mode)}, tt.opts...)
			s := NewConsoleWriter(&buf, opts...)
			s.Log(record(tt.level, "hi"))

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsole_NoColorRangeMeansNoEscapes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewConsoleWriter(&buf, WithPattern("%l %v"), WithColorMode(ColorAlways))
	assert.True(t, s.Colored())

	s.Log(record(logging.LevelInfo, "plain"))
	assert.Equal(t, "info plain\n", buf.String())
}

func TestConsole_OneWritePerRecord(t *testing.T) {
	t.Parallel()

	mw := &logging.MockWriter{}
	s := NewConsoleWriter(mw, WithPattern("[%^%l%$] %v"), WithColorMode(ColorAlways))
	s.Log(record(logging.LevelInfo, "a"))
	s.Log(record(logging.LevelWarn, "b"))
	s.Log(record(logging.LevelTrace, "c"))

	assert.Equal(t, 3, mw.WriteCount())
	assert.Contains(t, string(mw.LastWrite()), "\033[37mtrace\033[0m")
}

func TestConsole_SinkLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewConsoleWriter(&buf, WithPattern("%v"), WithLevel(logging.LevelError))
	s.Log(record(logging.LevelWarn, "no"))
	s.Log(record(logging.LevelError, "yes"))

	assert.Equal(t, "yes\n", buf.String())
}

//nolint:paralleltest // Replaces the process-wide error handler.
func TestConsole_WriteErrorIsReported(t *testing.T) {
	errs := captureErrors(t)
	obs := &countingObserver{}

	mw := &logging.MockWriter{}
	mw.SetError(errors.New("pipe closed"))
	s := NewConsoleWriter(mw, WithPattern("%v"), WithObserver(obs))
	s.Log(record(logging.LevelInfo, "lost"))

	require.Len(t, errs(), 1)
	assert.Equal(t, "console sink: write writer: pipe closed", errs()[0])
	assert.Equal(t, 1, obs.snapshot().dropped)
	assert.True(t, s.Degraded())

	mw.SetError(nil)
	s.Log(record(logging.LevelInfo, "ok"))
	assert.False(t, s.Degraded())
	assert.Equal(t, "ok\n", mw.String())
}

func TestConsole_FlushAndClose(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	bw := bufio.NewWriter(&out)
	s := NewConsoleWriter(bw, WithPattern("%v"))

	s.Log(record(logging.LevelInfo, "buffered"))
	assert.Empty(t, out.String())
	s.Flush()
	assert.Equal(t, "buffered\n", out.String())

	s.Log(record(logging.LevelInfo, "flushed on close"))
	require.NoError(t, s.Close())
	assert.Equal(t, "buffered\nflushed on close\n", out.String())

	s.Log(record(logging.LevelInfo, "ignored"))
	require.NoError(t, bw.Flush())
	assert.Equal(t, "buffered\nflushed on close\n", out.String())
}

func TestNewConsole_StandardStreams(t *testing.T) {
	t.Parallel()

	out := NewConsole(Stdout, WithColorMode(ColorNever))
	errOut := NewConsole(Stderr, WithColorMode(ColorNever), WithName("errors"))

	assert.Equal(t, "console", out.Name())
	assert.Equal(t, "errors", errOut.Name())
	assert.Same(t, out.wmu, errOut.wmu, "standard streams share one lock")
	assert.False(t, out.Colored())
	require.NoError(t, out.Close())
	require.NoError(t, errOut.Close())
}
