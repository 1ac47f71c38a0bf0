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

// Sink is an output destination for log records.
//
// Contract for implementations:
//   - All methods are safe for concurrent use.
//   - Log applies the sink's own level filter; a rejected record has no effect.
//   - Log never returns or panics on I/O failure; failures go to [HandleError]
//     and the sink keeps accepting records on a best-effort basis.
//   - SetLevel and SetPattern apply to every Log call that starts after they return.
//   - Flush must not lose records already accepted by Log.
//
// Concrete sinks live in the sink package.
type Sink interface {
	Log(r *Record)
	Flush()
	Level() Level
	SetLevel(level Level)
	SetPattern(pattern string)
	Close() error
}

// Retainer is implemented by sinks that count the loggers holding them.
//
// [New] calls Retain once per sink and [Logger.Close] calls [Sink.Close]
// once per sink; a retaining sink releases its resources only when the
// last holder closes it. A sink that is never attached to a logger is
// closed by its first Close call.
type Retainer interface {
	Retain()
}

func retain(sinks []Sink) {
	for _, s := range sinks {
		if r, ok := s.(Retainer); ok {
			r.Retain()
		}
	}
}
