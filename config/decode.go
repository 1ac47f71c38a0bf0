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
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Decode converts a configuration map, as produced by the codecs, into a
// Config on top of [Defaults]. It does not validate; see [Config.Validate].
//
// Besides the keys of [Config], Decode accepts the layouts of older
// configuration files:
//
//	log_console: true                 # console_enabled
//	rotation_strategy: 1              # 0 none, 1 size, 2 time
//	file:
//	  enabled: true
//	  filename: logs/app.log
//	  append: false                   # truncate: true
//	  level: warn                     # file_level
//	  pattern: "%v"                   # file_pattern
//	  rotation_strategy: size
//	  size_config: {max_size: 1048576, max_files: 3}
//	  time_config: {hour: 2, minute: 30}
//
// Top-level keys win over the file section. When the top-level
// rotation_strategy is an integer, the file is read as the flat legacy
// layout and a top-level max_size without a unit counts KiB, not bytes.
func Decode(raw map[string]any) (*Config, error) {
	cfg := Defaults()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			durationHook,
			scalarHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return nil, NewError("config", "decode", err)
	}
	if err := dec.Decode(canonicalize(raw)); err != nil {
		return nil, NewError("config", "decode", err)
	}
	return cfg, nil
}

// canonicalize lower-cases keys, resolves aliases and flattens the file section.
func canonicalize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[strings.ToLower(k)] = v
	}

	if v, ok := out["log_console"]; ok {
		setDefault(out, "console_enabled", v)
		delete(out, "log_console")
	}

	if _, legacy := plainInt(out["rotation_strategy"]); legacy {
		if n, ok := plainInt(out["max_size"]); ok {
			out["max_size"] = n * 1024
		}
	}

	file, ok := out["file"].(map[string]any)
	delete(out, "file")
	if !ok {
		return out
	}
	file = lowerKeys(file)
	if enabled, ok := file["enabled"]; ok && !cast.ToBool(enabled) {
		return out
	}

	rename := map[string]string{
		"filename":          "filename",
		"level":             "file_level",
		"pattern":           "file_pattern",
		"rotation_strategy": "rotation_strategy",
		"rotate_on_open":    "rotate_on_open",
		"truncate":          "truncate",
		"max_size":          "max_size",
		"max_files":         "max_files",
		"hour":              "hour",
		"minute":            "minute",
	}
	for from, to := range rename {
		if v, ok := file[from]; ok {
			setDefault(out, to, v)
		}
	}
	if v, ok := file["append"]; ok {
		setDefault(out, "truncate", !cast.ToBool(v))
	}
	for _, section := range []string{"size_config", "time_config"} {
		if sub, ok := file[section].(map[string]any); ok {
			for k, v := range lowerKeys(sub) {
				setDefault(out, k, v)
			}
		}
	}
	return out
}

// plainInt returns v as an integer when it is a number or a numeric string
// with no unit or name attached.
func plainInt(v any) (int64, bool) {
	switch v.(type) {
	case nil, bool:
		return 0, false
	}
	n, err := cast.ToInt64E(v)
	return n, err == nil
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func setDefault(m map[string]any, key string, v any) {
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

// durationHook reads durations as "500ms"-style strings, or as plain
// numbers of seconds.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	if from.Kind() == reflect.String {
		s := strings.TrimSpace(reflect.ValueOf(data).String())
		if n, err := cast.ToFloat64E(s); err == nil {
			return time.Duration(n * float64(time.Second)), nil
		}
		return cast.ToDurationE(s)
	}
	n, err := cast.ToFloat64E(data)
	if err != nil {
		return nil, err
	}
	return time.Duration(n * float64(time.Second)), nil
}

// scalarHook converts strings from flat files and the environment into
// booleans and integers with cast, which trims and accepts more spellings
// than strconv. Named integer types with their own text form, such as the
// level and the strategy, are left to their UnmarshalText.
func scalarHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.PkgPath() != "" {
		return data, nil
	}
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	switch to.Kind() {
	case reflect.Bool:
		switch strings.ToLower(s) {
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
		return cast.ToBoolE(s)
	case reflect.Int, reflect.Int64, reflect.Int32:
		return cast.ToInt64E(s)
	}
	return data, nil
}
