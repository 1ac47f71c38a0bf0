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
	"fmt"
	"strconv"
	"strings"
	"time"

	"rivaas.dev/rotlog/logging"
	"rivaas.dev/rotlog/pattern"
)

// Default values applied by [Defaults] and by [Build] for unset parameters.
const (
	DefaultName     = "main"
	DefaultMaxSize  = 5 * MiB
	DefaultMaxFiles = 5
)

// Strategy selects how the file sink rotates.
type Strategy int

const (
	// StrategyNone writes a single growing file.
	StrategyNone Strategy = iota
	// StrategySize rotates when the file would exceed max_size.
	StrategySize
	// StrategyTime rotates daily at hour:minute.
	StrategyTime
)

var strategyNames = [...]string{"none", "size", "time"}

// String returns "none", "size" or "time".
func (s Strategy) String() string {
	if s >= 0 && int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "Strategy(" + strconv.Itoa(int(s)) + ")"
}

// ParseStrategy accepts the names none, size and time, ignoring case, and
// the numeric forms 0, 1 and 2.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "", "0":
		return StrategyNone, nil
	case "size", "1":
		return StrategySize, nil
	case "time", "daily", "2":
		return StrategyTime, nil
	}
	return StrategyNone, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Config describes one logger: its level, an optional console sink and an
// optional file sink with its rotation strategy.
//
// Pointer fields distinguish "unset" from the zero value: an unset max_size
// or max_files takes its default, an unset hour or minute is an error for the
// time strategy, and an unset per-sink level lets the sink accept everything
// the logger passes on.
type Config struct {
	Name string `config:"name"`

	ConsoleEnabled bool   `config:"console_enabled"`
	ConsoleTarget  string `config:"console_target" validate:"omitempty,oneof=stdout stderr"`
	Color          string `config:"color" validate:"omitempty,oneof=auto always never"`

	Level          logging.Level  `config:"level" validate:"level"`
	ConsoleLevel   *logging.Level `config:"console_level" validate:"omitnil,level"`
	FileLevel      *logging.Level `config:"file_level" validate:"omitnil,level"`
	Pattern        string         `config:"pattern"`
	ConsolePattern string         `config:"console_pattern"`
	FilePattern    string         `config:"file_pattern"`

	Filename         string    `config:"filename"`
	Truncate         bool      `config:"truncate"`
	RotationStrategy Strategy  `config:"rotation_strategy" validate:"strategy"`
	MaxSize          *ByteSize `config:"max_size" validate:"omitnil,gt=0"`
	MaxFiles         *int      `config:"max_files" validate:"omitnil,min=0,max=200000"`
	RotateOnOpen     bool      `config:"rotate_on_open"`
	Hour             *int      `config:"hour" validate:"omitnil,min=0,max=23"`
	Minute           *int      `config:"minute" validate:"omitnil,min=0,max=59"`

	ImmediateFlush bool          `config:"immediate_flush"`
	FlushInterval  time.Duration `config:"flush_interval" validate:"min=0"`
	UTC            bool          `config:"utc"`
	Source         bool          `config:"source"`
	Backtrace      int           `config:"backtrace" validate:"min=0"`
	SlogDefault    bool          `config:"slog_default"`
}

// Defaults returns a Config with every documented default applied:
// logger "main" at info, pattern [pattern.Default], no sinks.
func Defaults() *Config {
	return &Config{
		Name:          DefaultName,
		ConsoleTarget: "stdout",
		Color:         "auto",
		Level:         logging.LevelInfo,
		Pattern:       pattern.Default,
	}
}

// EffectiveMaxSize returns max_size, or [DefaultMaxSize] when unset.
func (c *Config) EffectiveMaxSize() int64 {
	if c.MaxSize == nil {
		return int64(DefaultMaxSize)
	}
	return int64(*c.MaxSize)
}

// EffectiveMaxFiles returns max_files, or the strategy's default when unset:
// [DefaultMaxFiles] backups for size rotation, unlimited archives for time
// rotation.
func (c *Config) EffectiveMaxFiles() int {
	if c.MaxFiles != nil {
		return *c.MaxFiles
	}
	if c.RotationStrategy == StrategyTime {
		return 0
	}
	return DefaultMaxFiles
}

// HasFile reports whether the configuration produces a file sink.
func (c *Config) HasFile() bool {
	return c.RotationStrategy != StrategyNone || c.Filename != ""
}
