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
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/rotlog/logging"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("config"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
			return logging.Level(fl.Field().Int()).Valid()
		})
		_ = v.RegisterValidation("strategy", func(fl validator.FieldLevel) bool {
			s := Strategy(fl.Field().Int())
			return s >= StrategyNone && s <= StrategyTime
		})
		validate = v
	})
	return validate
}

// Validate checks ranges and the parameters each rotation strategy needs.
// It has no side effects; [Build] calls it before creating anything.
//
// Every failure is a *[Error] naming the offending key and wrapping one of
// [ErrMissingParameter], [ErrOutOfRange] or [ErrUnknownStrategy]. Several
// failures are joined.
func (c *Config) Validate() error {
	var errs []error

	if err := structValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return NewError("config", "validate", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, NewFieldError("config", fe.Field(), "validate", describe(fe)))
		}
	}

	missing := func(field, why string) {
		errs = append(errs, NewFieldError("config", field, "validate",
			fmt.Errorf("%w: %s", ErrMissingParameter, why)))
	}
	switch c.RotationStrategy {
	case StrategySize:
		if c.Filename == "" {
			missing("filename", "size rotation needs a filename")
		}
	case StrategyTime:
		if c.Filename == "" {
			missing("filename", "time rotation needs a filename")
		}
		if c.Hour == nil {
			missing("hour", "time rotation needs hour")
		}
		if c.Minute == nil {
			missing("minute", "time rotation needs minute")
		}
	}

	return errors.Join(errs...)
}

func describe(fe validator.FieldError) error {
	switch fe.Tag() {
	case "strategy":
		return fmt.Errorf("%w: %v", ErrUnknownStrategy, fe.Value())
	case "level":
		return fmt.Errorf("%w: %w: %v", ErrOutOfRange, logging.ErrInvalidLevel, fe.Value())
	case "oneof":
		return fmt.Errorf("%w: %v is not one of %s", ErrOutOfRange, fe.Value(), fe.Param())
	case "gt":
		return fmt.Errorf("%w: %v must be greater than %s", ErrOutOfRange, fe.Value(), fe.Param())
	case "min":
		return fmt.Errorf("%w: %v must be at least %s", ErrOutOfRange, fe.Value(), fe.Param())
	case "max":
		return fmt.Errorf("%w: %v must be at most %s", ErrOutOfRange, fe.Value(), fe.Param())
	default:
		return fmt.Errorf("%w: %v fails %s", ErrOutOfRange, fe.Value(), fe.Tag())
	}
}
