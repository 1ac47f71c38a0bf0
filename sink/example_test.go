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

package sink_test

import (
	"fmt"
	"os"
	"path/filepath"

	"rivaas.dev/rotlog/logging"
	"rivaas.dev/rotlog/sink"
)

// ExampleNewConsoleWriter shows a per-sink level on top of the logger level.
func ExampleNewConsoleWriter() {
	all := sink.NewConsoleWriter(os.Stdout, sink.WithPattern("all:    [%l] %v"), sink.WithColorMode(sink.ColorNever))
	errs := sink.NewConsoleWriter(os.Stdout, sink.WithPattern("errors: [%l] %v"), sink.WithColorMode(sink.ColorNever),
		sink.WithLevel(logging.LevelError))

	logger := logging.MustNew("example", logging.WithSinks(all, errs), logging.WithLevel(logging.LevelDebug))
	defer logger.Close()

	logger.Trace("not shown")
	logger.Info("listening on {}", ":8080")
	logger.Error("request failed: {}", "timeout")

	// Output:
	// all:    [info] listening on :8080
	// all:    [error] request failed: timeout
	// errors: [error] request failed: timeout
}

// ExampleNewRotating shows size-based rotation into numbered backups.
func ExampleNewRotating() {
	dir, err := os.MkdirTemp("", "rotlog-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "app.log")
	s, err := sink.NewRotating(path, 32, 3, sink.WithPattern("%v"))
	if err != nil {
		fmt.Println(err)
		return
	}
	logger := logging.MustNew("app", logging.WithSinks(s))
	for i := range 6 {
		logger.Info("record number {}", i)
	}
	_ = logger.Close()

	for _, name := range []string{path, sink.BackupName(path, 0), sink.BackupName(path, 1)} {
		b, _ := os.ReadFile(name)
		fmt.Printf("%s: %q\n", filepath.Base(name), b)
	}

	// Output:
	// app.log: "record number 4\nrecord number 5\n"
	// app.log.0: "record number 2\nrecord number 3\n"
	// app.log.1: "record number 0\nrecord number 1\n"
}
