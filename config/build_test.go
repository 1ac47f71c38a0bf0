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

package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/rotlog/logging"
	"rivaas.dev/rotlog/sink"
)

func TestBuild_TimeStrategyWithoutMinute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Defaults()
	cfg.RotationStrategy = StrategyTime
	cfg.Filename = filepath.Join(dir, "logs", "app.log")
	cfg.Hour = ptr(3)

	l, err := Build(cfg)
	require.Nil(t, l)
	require.ErrorIs(t, err, ErrMissingParameter)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "minute", cfgErr.Field)

	_, statErr := os.Stat(filepath.Join(dir, "logs"))
	assert.ErrorIs(t, statErr, os.ErrNotExist, "nothing is created for an invalid configuration")
}

func TestBuild_Nil(t *testing.T) {
	t.Parallel()

	l, err := Build(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, DefaultName, l.Name())
	assert.Equal(t, logging.LevelInfo, l.Level())
	assert.Empty(t, l.Sinks())
}

func TestBuild_ConsoleAndFile(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	cfg := Defaults()
	cfg.Name = "svc"
	cfg.Level = logging.LevelDebug
	cfg.ConsoleEnabled = true
	cfg.Color = "never"
	cfg.ConsoleLevel = ptr(logging.LevelWarn)
	cfg.ConsolePattern = "console: %v"
	cfg.Pattern = "%l %v"
	cfg.Filename = path

	l, err := Build(cfg, WithStdout(&out))
	require.NoError(t, err)

	sinks := l.Sinks()
	require.Len(t, sinks, 2)
	assert.IsType(t, &sink.Console{}, sinks[0], "console comes first")
	assert.IsType(t, &sink.File{}, sinks[1])

	l.Debug("details")
	l.Warn("disk at {}%", 91)
	require.NoError(t, l.Close())

	assert.Equal(t, "console: disk at 91%\n", out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug details\nwarning disk at 91%\n", string(data))
}

func TestBuild_FileStrategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		check  func(t *testing.T, s logging.Sink)
	}{
		{
			name: "plain file",
			check: func(t *testing.T, s logging.Sink) {
				assert.IsType(t, &sink.File{}, s)
			},
		},
		{
			name: "size with defaults",
			modify: func(c *Config) {
				c.RotationStrategy = StrategySize
			},
			check: func(t *testing.T, s logging.Sink) {
				r, ok := s.(*sink.Rotating)
				require.True(t, ok)
				assert.Equal(t, int64(DefaultMaxSize), r.MaxSize())
				assert.Equal(t, DefaultMaxFiles, r.MaxFiles())
			},
		},
		{
			name: "size with limits",
			modify: func(c *Config) {
				c.RotationStrategy, c.MaxSize, c.MaxFiles = StrategySize, ptr(64*KiB), ptr(0)
			},
			check: func(t *testing.T, s logging.Sink) {
				r, ok := s.(*sink.Rotating)
				require.True(t, ok)
				assert.Equal(t, int64(64*1024), r.MaxSize())
				assert.Equal(t, 0, r.MaxFiles())
			},
		},
		{
			name: "time",
			modify: func(c *Config) {
				c.RotationStrategy, c.Hour, c.Minute = StrategyTime, ptr(5), ptr(30)
			},
			check: func(t *testing.T, s logging.Sink) {
				d, ok := s.(*sink.Daily)
				require.True(t, ok)
				next := d.NextRotationAt()
				assert.Equal(t, 5, next.Hour())
				assert.Equal(t, 30, next.Minute())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Defaults()
			cfg.Filename = filepath.Join(t.TempDir(), "app.log")
			if tt.modify != nil {
				tt.modify(cfg)
			}
			l, err := Build(cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = l.Close() })

			require.Len(t, l.Sinks(), 1)
			tt.check(t, l.Sinks()[0])
		})
	}
}

func TestBuild_FileOpenFailure(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := Defaults()
	cfg.ConsoleEnabled = true
	cfg.Filename = filepath.Join(blocker, "app.log")

	var out bytes.Buffer
	l, err := Build(cfg, WithStdout(&out))
	require.Nil(t, l)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "filename", cfgErr.Field)
	assert.Equal(t, "build", cfgErr.Operation)

	var ioErr *logging.IOError
	assert.ErrorAs(t, err, &ioErr)
}

type recordCounter struct {
	mu      sync.Mutex
	written map[string]int
}

func (c *recordCounter) RecordWritten(name string, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.written == nil {
		c.written = make(map[string]int)
	}
	c.written[name]++
}

func (c *recordCounter) RecordDropped(string)  {}
func (c *recordCounter) Rotated(string)        {}
func (c *recordCounter) Failed(string, string) {}

func TestBuild_ObserverAndClock(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 3, 9, 23, 59, 58, 0, time.UTC)
	obs := &recordCounter{}
	var out bytes.Buffer

	cfg := Defaults()
	cfg.ConsoleEnabled = true
	cfg.Color = "never"
	cfg.Pattern = "%v"
	cfg.Filename = filepath.Join(t.TempDir(), "app.log")
	cfg.RotationStrategy, cfg.Hour, cfg.Minute = StrategyTime, ptr(0), ptr(0)

	l, err := Build(cfg, WithStdout(&out), WithObserver(obs), WithClock(func() time.Time { return stamp }))
	require.NoError(t, err)

	d, ok := l.Sinks()[1].(*sink.Daily)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), d.NextRotationAt())

	l.Info("tick")
	require.NoError(t, l.Close())

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, map[string]int{"console": 1, "daily": 1}, obs.written)
	assert.Equal(t, "tick\n", out.String())
}

func TestInstall(t *testing.T) {
	t.Parallel()

	reg := logging.NewRegistry()
	t.Cleanup(func() { _ = reg.Shutdown() })

	var out bytes.Buffer
	cfg := Defaults()
	cfg.ConsoleEnabled = true
	cfg.Color = "never"
	cfg.Pattern = "%v"
	cfg.FlushInterval = 10 * time.Millisecond

	first, prev, err := Install(cfg, WithRegistry(reg), WithStdout(&out))
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.Same(t, first, reg.Default())

	cfg.Name = "second"
	second, prev, err := Install(cfg, WithRegistry(reg), WithStdout(&out))
	require.NoError(t, err)
	assert.Same(t, first, prev, "the previous default is returned")
	assert.Same(t, second, reg.Default())
	require.NoError(t, first.Close())
}

func TestInstall_InvalidConfig(t *testing.T) {
	t.Parallel()

	reg := logging.NewRegistry()
	cfg := Defaults()
	cfg.RotationStrategy = StrategySize

	l, prev, err := Install(cfg, WithRegistry(reg))
	require.ErrorIs(t, err, ErrMissingParameter)
	assert.Nil(t, l)
	assert.Nil(t, prev)
	assert.Nil(t, reg.Default())
}

//nolint:paralleltest // Replaces the slog default logger.
func TestInstall_SlogDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	reg := logging.NewRegistry()
	t.Cleanup(func() { _ = reg.Shutdown() })

	var out bytes.Buffer
	cfg := Defaults()
	cfg.ConsoleEnabled = true
	cfg.Color = "never"
	cfg.Pattern = "%l %v"
	cfg.SlogDefault = true

	_, _, err := Install(cfg, WithRegistry(reg), WithStdout(&out))
	require.NoError(t, err)

	slog.Warn("from slog")
	assert.Contains(t, out.String(), "warning from slog")
}

func ExampleBuild() {
	cfg, err := Load(context.Background(), staticSource{
		"level":           "debug",
		"console_enabled": true,
		"color":           "never",
		"pattern":         "[%l] %v",
	})
	if err != nil {
		panic(err)
	}

	logger, err := Build(cfg, WithStdout(os.Stdout))
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Debug("loaded {} keys", 4)
	logger.Trace("not shown")
	// Output:
	// [debug] loaded 4 keys
}

type staticSource map[string]any

func (s staticSource) Load(context.Context) (map[string]any, error) {
	return s, nil
}
