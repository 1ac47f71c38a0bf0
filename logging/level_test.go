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
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "trace", want: LevelTrace},
		{in: "DEBUG", want: LevelDebug},
		{in: " info ", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: "err", want: LevelError},
		{in: "Error", want: LevelError},
		{in: "critical", want: LevelCritical},
		{in: "off", want: LevelOff},
		{in: "verbose", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_Ordering(t *testing.T) {
	t.Parallel()

	levels := []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical, LevelOff}
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i])
	}
}

func TestLevel_Strings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "warning", LevelWarn.String())
	assert.Equal(t, "W", LevelWarn.ShortString())
	assert.Equal(t, "critical", LevelCritical.String())
	assert.Equal(t, "C", LevelCritical.ShortString())
	assert.Equal(t, "level(42)", Level(42).String())
	assert.Equal(t, "?", Level(-1).ShortString())
	assert.False(t, Level(7).Valid())
}

func TestLevel_TextRoundTrip(t *testing.T) {
	t.Parallel()

	for l := LevelTrace; l <= LevelOff; l++ {
		text, err := l.MarshalText()
		require.NoError(t, err)

		var got Level
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, l, got)
	}

	_, err := Level(99).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLevel_Slog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slog slog.Level
		want Level
	}{
		{slog.LevelDebug - 4, LevelTrace},
		{slog.LevelDebug, LevelDebug},
		{slog.LevelInfo, LevelInfo},
		{slog.LevelWarn, LevelWarn},
		{slog.LevelError, LevelError},
		{slog.LevelError + 4, LevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromSlog(tt.slog), "slog level %v", tt.slog)
		assert.Equal(t, tt.want, LevelFromSlog(tt.want.Slog()), "round trip of %v", tt.want)
	}
}
