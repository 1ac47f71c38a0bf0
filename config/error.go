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
	"errors"
	"fmt"
)

// Sentinel errors wrapped by [Error], for use with [errors.Is].
var (
	// ErrMissingParameter indicates a parameter the rotation strategy needs is absent.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrOutOfRange indicates a parameter outside its permitted range or set.
	ErrOutOfRange = errors.New("parameter out of range")

	// ErrUnknownStrategy indicates a rotation_strategy other than none, size or time.
	ErrUnknownStrategy = errors.New("unknown rotation strategy")

	// ErrUnsupportedFormat indicates a configuration file whose format cannot be detected.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// Error is the configuration error returned by every function of this
// package. It names where the error occurred (source, field), what was
// being done, and the underlying error.
type Error struct {
	Source    string // Where the error occurred, e.g. "file logging.yaml", "config"
	Field     string // The configuration key involved, if any
	Operation string // The operation, e.g. "load", "decode", "validate", "build"
	Err       error  // The underlying error
}

// Error returns a formatted error message with context information.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s.%s during %s: %v",
			e.Source, e.Field, e.Operation, e.Err)
	}
	return fmt.Sprintf("config error in %s during %s: %v",
		e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error without field information.
func NewError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

// NewFieldError creates an Error for one configuration key.
func NewFieldError(source, field, operation string, err error) *Error {
	return &Error{Source: source, Field: field, Operation: operation, Err: err}
}
