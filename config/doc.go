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

// Package config assembles loggers from configuration.
//
// A [Config] names the logger, its level and pattern, whether it writes to
// the console, and which file it writes to under which rotation strategy.
// Configuration comes from files, environment variables or code:
//
//	cfg, err := config.LoadFile(ctx, "logging.yaml") // file + ROTLOG_* overrides
//	if err != nil {
//	    return err
//	}
//	logger, err := config.Build(cfg)
//
// # Keys
//
//	name               logger name, default "main"
//	console_enabled    console sink on or off (alias log_console)
//	console_target     stdout or stderr
//	color              auto, always or never
//	level              logger level, default info
//	console_level      console sink level
//	file_level         file sink level
//	pattern            pattern of every sink, default "%+"
//	console_pattern    console sink pattern
//	file_pattern       file sink pattern
//	filename           file sink path
//	truncate           empty the file on open instead of appending
//	rotation_strategy  none, size or time (or 0, 1, 2)
//	max_size           size rotation bound, default 5MiB
//	max_files          backups (size) or archives (time) kept
//	rotate_on_open     rotate a non-empty file at startup (size)
//	hour, minute       daily rotation time (time, required)
//	immediate_flush    flush after every record
//	flush_interval     periodic flush, e.g. "3s" (Install only)
//	utc                timestamps in UTC
//	source             capture the caller for %@ %s %g %# %!
//	backtrace          records kept for Logger.DumpBacktrace
//	slog_default       route slog's default logger here (Install only)
//
// # Errors
//
// Every error is an *[Error]. Missing parameters wrap [ErrMissingParameter],
// out-of-range values [ErrOutOfRange], and unknown strategies
// [ErrUnknownStrategy]:
//
//	if errors.Is(err, config.ErrMissingParameter) {
//	    // e.g. rotation_strategy: time without minute
//	}
//
// [Build] performs no file system change for an invalid configuration.
package config
