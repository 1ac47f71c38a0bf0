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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/rotlog/config/codec"
	"rivaas.dev/rotlog/config/source"
	"rivaas.dev/rotlog/logging"
)

func ptr[T any](v T) *T { return &v }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "none", want: StrategyNone},
		{in: "", want: StrategyNone},
		{in: "Size", want: StrategySize},
		{in: "1", want: StrategySize},
		{in: "time", want: StrategyTime},
		{in: "2", want: StrategyTime},
		{in: "daily", want: StrategyTime},
		{in: "weekly", wantErr: true},
		{in: "3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseByteSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ByteSize
		wantErr bool
	}{
		{in: "1024", want: 1024},
		{in: "512B", want: 512},
		{in: "64KB", want: 64 * KiB},
		{in: "64kib", want: 64 * KiB},
		{in: "5 MiB", want: 5 * MiB},
		{in: "5M", want: 5 * MiB},
		{in: "1.5G", want: GiB + 512*MiB},
		{in: "", wantErr: true},
		{in: "MB", wantErr: true},
		{in: "12 parsecs", wantErr: true},
		{in: "1.2.3K", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseByteSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByteSize_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5MiB", (5 * MiB).String())
	assert.Equal(t, "3KiB", (3 * KiB).String())
	assert.Equal(t, "1000B", ByteSize(1000).String())
	assert.Equal(t, "0B", ByteSize(0).String())
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, "main", cfg.Name)
	assert.Equal(t, logging.LevelInfo, cfg.Level)
	assert.Equal(t, "%+", cfg.Pattern)
	assert.Equal(t, StrategyNone, cfg.RotationStrategy)
	assert.Equal(t, int64(5*1024*1024), cfg.EffectiveMaxSize())
	assert.Equal(t, 5, cfg.EffectiveMaxFiles())
	assert.False(t, cfg.HasFile())
	require.NoError(t, cfg.Validate())

	cfg.RotationStrategy = StrategyTime
	assert.Equal(t, 0, cfg.EffectiveMaxFiles(), "time rotation keeps every archive by default")
}

// The same configuration in every supported format, including the older
// nested and numeric layouts, decodes to the same Config.
func TestReadFile_FormatsAgree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"logging.yaml": `
level: debug
console_enabled: true
pattern: "[%l] %v"
filename: logs/app.log
rotation_strategy: size
max_size: 1048576
max_files: 3
flush_interval: 2s
`,
		"logging.toml": `
level = "debug"
console_enabled = true
pattern = "[%l] %v"
filename = "logs/app.log"
rotation_strategy = "size"
max_size = "1MiB"
max_files = 3
flush_interval = "2s"
`,
		"logging.json": `{
  "level": "debug",
  "console_enabled": true,
  "pattern": "[%l] %v",
  "filename": "logs/app.log",
  "rotation_strategy": "size",
  "max_size": 1048576,
  "max_files": 3,
  "flush_interval": 2
}`,
		"logging.conf": `
# flat layout with the numeric strategy
log_console = yes
level = debug
pattern = "[%l] %v"
filename = logs/app.log
rotation_strategy = 1
max_size = 1MB
max_files = 3
flush_interval = 2
`,
		"legacy.yml": `
log_console: true
level: debug
pattern: "[%l] %v"
flush_interval: 2s
file:
  enabled: true
  filename: logs/app.log
  rotation_strategy: size
  size_config:
    max_size: 1048576
    max_files: 3
`,
	}

	want := Defaults()
	want.Level = logging.LevelDebug
	want.ConsoleEnabled = true
	want.Pattern = "[%l] %v"
	want.Filename = "logs/app.log"
	want.RotationStrategy = StrategySize
	want.MaxSize = ptr(MiB)
	want.MaxFiles = ptr(3)
	want.FlushInterval = 2 * time.Second

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, err := ReadFile(writeFile(t, dir, name, content))
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(writeFile(t, dir, "logging.xml", "<level>info</level>"))
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.ErrorIs(t, err, codec.ErrUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(filepath.Join(dir, "absent.yaml"))
		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "load", cfgErr.Operation)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(writeFile(t, dir, "level.yaml", "level: loud\n"))
		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "decode", cfgErr.Operation)
		assert.Contains(t, err.Error(), "loud")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(writeFile(t, dir, "strategy.yaml", "filename: a.log\nrotation_strategy: weekly\n"))
		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "unknown rotation strategy")
	})

	t.Run("numeric strategy out of range", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(writeFile(t, dir, "strategy7.yaml", "filename: a.log\nrotation_strategy: 7\n"))
		assert.ErrorIs(t, err, ErrUnknownStrategy)
	})
}

func TestDecode_FileSection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   map[string]any
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "append false truncates",
			raw:  map[string]any{"file": map[string]any{"filename": "a.log", "append": false}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "a.log", cfg.Filename)
				assert.True(t, cfg.Truncate)
			},
		},
		{
			name: "level and pattern become file overrides",
			raw: map[string]any{"file": map[string]any{
				"filename": "a.log", "level": "warn", "pattern": "%v",
			}},
			check: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.FileLevel)
				assert.Equal(t, logging.LevelWarn, *cfg.FileLevel)
				assert.Equal(t, "%v", cfg.FilePattern)
				assert.Equal(t, "%+", cfg.Pattern)
			},
		},
		{
			name: "disabled section is ignored",
			raw:  map[string]any{"file": map[string]any{"enabled": false, "filename": "a.log"}},
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Filename)
				assert.False(t, cfg.HasFile())
			},
		},
		{
			name: "time config",
			raw: map[string]any{"file": map[string]any{
				"filename": "a.log", "rotation_strategy": "time",
				"time_config": map[string]any{"hour": 2, "minute": 30},
			}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StrategyTime, cfg.RotationStrategy)
				assert.Equal(t, ptr(2), cfg.Hour)
				assert.Equal(t, ptr(30), cfg.Minute)
			},
		},
		{
			name: "top-level keys win",
			raw: map[string]any{
				"filename": "top.log",
				"file":     map[string]any{"filename": "nested.log"},
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "top.log", cfg.Filename)
			},
		},
		{
			name: "keys are case-insensitive",
			raw:  map[string]any{"LEVEL": "error", "Console_Enabled": "on"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, logging.LevelError, cfg.Level)
				assert.True(t, cfg.ConsoleEnabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Decode(tt.raw)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestDecode_LegacyMaxSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
		want ByteSize
	}{
		{
			name: "integer strategy scales a plain size to KiB",
			raw:  map[string]any{"rotation_strategy": "1", "max_size": "5"},
			want: 5 * KiB,
		},
		{
			name: "integer strategy from a typed file",
			raw:  map[string]any{"rotation_strategy": 1, "max_size": 2048},
			want: 2 * MiB,
		},
		{
			name: "size with a unit is not scaled",
			raw:  map[string]any{"rotation_strategy": "1", "max_size": "5MB"},
			want: 5 * MiB,
		},
		{
			name: "named strategy keeps bytes",
			raw:  map[string]any{"rotation_strategy": "size", "max_size": "5"},
			want: 5,
		},
		{
			name: "file section keeps bytes",
			raw: map[string]any{"file": map[string]any{
				"rotation_strategy": 1,
				"size_config":       map[string]any{"max_size": 4096},
			}},
			want: 4 * KiB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := map[string]any{"filename": "a.log"}
			for k, v := range tt.raw {
				raw[k] = v
			}
			cfg, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, StrategySize, cfg.RotationStrategy)
			require.NotNil(t, cfg.MaxSize)
			assert.Equal(t, tt.want, *cfg.MaxSize)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
		errIs  error
	}{
		{
			name:   "size without filename",
			modify: func(c *Config) { c.RotationStrategy = StrategySize },
			field:  "filename",
			errIs:  ErrMissingParameter,
		},
		{
			name: "time without minute",
			modify: func(c *Config) {
				c.RotationStrategy, c.Filename, c.Hour = StrategyTime, "a.log", ptr(1)
			},
			field: "minute",
			errIs: ErrMissingParameter,
		},
		{
			name: "time without hour",
			modify: func(c *Config) {
				c.RotationStrategy, c.Filename, c.Minute = StrategyTime, "a.log", ptr(0)
			},
			field: "hour",
			errIs: ErrMissingParameter,
		},
		{
			name: "hour out of range",
			modify: func(c *Config) {
				c.RotationStrategy, c.Filename, c.Hour, c.Minute = StrategyTime, "a.log", ptr(24), ptr(0)
			},
			field: "hour",
			errIs: ErrOutOfRange,
		},
		{
			name: "minute out of range",
			modify: func(c *Config) {
				c.RotationStrategy, c.Filename, c.Hour, c.Minute = StrategyTime, "a.log", ptr(0), ptr(60)
			},
			field: "minute",
			errIs: ErrOutOfRange,
		},
		{
			name:   "zero max size",
			modify: func(c *Config) { c.RotationStrategy, c.Filename, c.MaxSize = StrategySize, "a.log", ptr(ByteSize(0)) },
			field:  "max_size",
			errIs:  ErrOutOfRange,
		},
		{
			name:   "negative max files",
			modify: func(c *Config) { c.MaxFiles = ptr(-1) },
			field:  "max_files",
			errIs:  ErrOutOfRange,
		},
		{
			name:   "bad console target",
			modify: func(c *Config) { c.ConsoleTarget = "stdlog" },
			field:  "console_target",
			errIs:  ErrOutOfRange,
		},
		{
			name:   "bad color",
			modify: func(c *Config) { c.Color = "rainbow" },
			field:  "color",
			errIs:  ErrOutOfRange,
		},
		{
			name:   "bad level",
			modify: func(c *Config) { c.Level = logging.Level(42) },
			field:  "level",
			errIs:  logging.ErrInvalidLevel,
		},
		{
			name:   "bad file level",
			modify: func(c *Config) { c.FileLevel = ptr(logging.Level(-1)) },
			field:  "file_level",
			errIs:  ErrOutOfRange,
		},
		{
			name:   "negative flush interval",
			modify: func(c *Config) { c.FlushInterval = -time.Second },
			field:  "flush_interval",
			errIs:  ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Defaults()
			tt.modify(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, tt.errIs)

			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Equal(t, "validate", cfgErr.Operation)
		})
	}
}

func TestValidate_ValidTimeConfig(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.RotationStrategy, cfg.Filename, cfg.Hour, cfg.Minute = StrategyTime, "a.log", ptr(0), ptr(0)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_LaterSourcesOverride(t *testing.T) {
	t.Parallel()

	base := source.NewFileContent([]byte("level: info\npattern: \"%v\"\nfile:\n  filename: a.log\n"), codec.YAMLCodec{})
	override := source.NewFileContent([]byte(`{"level": "error", "file": {"append": false}}`), codec.JSONCodec{})

	cfg, err := Load(context.Background(), base, override)
	require.NoError(t, err)
	assert.Equal(t, logging.LevelError, cfg.Level)
	assert.Equal(t, "%v", cfg.Pattern)
	assert.Equal(t, "a.log", cfg.Filename, "nested maps merge key by key")
	assert.True(t, cfg.Truncate)
}

type failingSource struct{}

func (failingSource) Load(context.Context) (map[string]any, error) {
	return nil, os.ErrPermission
}

func TestLoad_SourceError(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), failingSource{})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "source[0]", cfgErr.Source)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, "config error in source[0] during load: permission denied", err.Error())
}

//nolint:paralleltest // Sets process environment variables.
func TestLoadFile_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("ROTLOG_LEVEL", "warn")
	t.Setenv("ROTLOG_MAX_FILES", "9")

	path := writeFile(t, t.TempDir(), "logging.yaml", "level: debug\nmax_files: 2\nname: svc\n")
	cfg, err := LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, logging.LevelWarn, cfg.Level)
	assert.Equal(t, ptr(9), cfg.MaxFiles)
	assert.Equal(t, "svc", cfg.Name)
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	err := NewFieldError("config", "minute", "validate", ErrMissingParameter)
	assert.Equal(t, "config error in config.minute during validate: missing required parameter", err.Error())
	assert.ErrorIs(t, err, ErrMissingParameter)

	err = NewError("file a.yaml", "load", os.ErrNotExist)
	assert.Equal(t, "config error in file a.yaml during load: file does not exist", err.Error())
}
