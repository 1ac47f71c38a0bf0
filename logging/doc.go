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

// Package logging is the core of rotlog: named loggers that fan each record
// out to an ordered list of sinks.
//
// A [Logger] filters by its own level, formats the message once and hands the
// same [Record] to every [Sink]. Each sink filters again by its own level, so
// a record reaches a sink only when it passes both. Concrete sinks (console,
// plain file, size-rotating and daily-rotating files) live in the sink
// package; the pattern package renders records to text.
//
// # Basic Usage
//
//	console := sink.NewConsole(sink.Stdout)
//	logger := logging.MustNew("app", logging.WithSinks(console))
//	defer logger.Close()
//	logger.Info("listening on {}:{}", "0.0.0.0", 8080)
//
// # Message Templates
//
// Templates use {} replacement fields: {} takes the next argument, {1}
// takes argument 1, and {:>8.2f} applies a format spec. {{ and }} are
// literal braces. A template logged without arguments is written verbatim.
// A malformed template never fails the call; see [FormatMessage].
//
// # The Default Logger
//
// The package keeps a process-wide [Registry]. Nothing is created implicitly:
// until [SetDefault] runs, the package-level Info, Warn and friends do nothing.
//
//	logging.SetDefault(logger)
//	logging.FlushEvery(3 * time.Second)
//	defer logging.Shutdown()
//
//	logging.Warn("disk {}% full", 91)
//
// # Flushing
//
// Sinks buffer writes. A logger flushes its sinks when a record at or above
// its flush level is logged ([WithFlushOn]), when [Logger.Flush] is called,
// and on [Logger.Close]. [Registry.FlushEvery] flushes all registered loggers
// periodically.
//
// # Errors
//
// Logging calls never return errors. I/O failures inside sinks are delivered
// to the process-wide [ErrorHandler], which writes to stderr by default.
//
// # log/slog
//
// [Logger.Slog] returns a [log/slog.Logger] whose records flow through the
// same sinks. Attributes are appended to the message as key=value pairs;
// sensitive keys (password, token, secret, api_key, authorization) are
// redacted.
package logging
