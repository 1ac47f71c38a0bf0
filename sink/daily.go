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

package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"rivaas.dev/rotlog/logging"
)

const archiveDateLayout = "2006-01-02"

// NextRotation returns the first instant strictly after now at which the
// wall clock in now's location reads hour:minute.
func NextRotation(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ArchiveName returns the name a daily archive of path dated day would get,
// before collision handling: "logs/app.log" becomes "logs/app_2024-03-09.log".
func ArchiveName(path string, day time.Time) string {
	stem, ext := splitExt(path)
	return stem + "_" + day.Format(archiveDateLayout) + ext
}

func splitExt(path string) (stem, ext string) {
	ext = filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}

// Daily writes to a file and rotates it once a day at a fixed wall-clock time.
//
// The active file always has the configured name. At rotation it is renamed
// to an archive named after the day the closed period started
// (app_2024-03-09.log; app_2024-03-09.1.log and so on if that name is taken)
// and a new empty file is opened. The rotation check runs before each write,
// so a period without records produces no archive. With [WithMaxFiles] the
// oldest archives beyond the bound are deleted after each rotation.
//
// Thread-safe: Safe for concurrent use by multiple goroutines.
type Daily struct {
	fileBase
	hour, minute int
	maxFiles     int
	next         time.Time
}

var _ logging.Sink = (*Daily)(nil)

// NewDaily opens path, creating it and its parent directories as needed,
// and schedules the first rotation at the next hour:minute.
//
// Errors:
//   - [ErrInvalidRotationTime]: hour outside 0..23 or minute outside 0..59
//   - [ErrInvalidMaxFiles]: negative [WithMaxFiles]
//   - *[logging.IOError]: the directory or file cannot be created
func NewDaily(path string, hour, minute int, opts ...Option) (*Daily, error) {
	if path == "" {
		return nil, ErrEmptyFilename
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("%w: %02d:%02d", ErrInvalidRotationTime, hour, minute)
	}
	o := newOptions("daily", opts)
	if o.maxFiles < 0 || o.maxFiles > MaxBackupFiles {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxFiles, o.maxFiles)
	}

	s := &Daily{hour: hour, minute: minute, maxFiles: o.maxFiles}
	if err := s.open(o, path); err != nil {
		return nil, err
	}
	s.next = NextRotation(s.clock(), hour, minute)
	return s, nil
}

// NextRotationAt returns the instant of the next scheduled rotation.
func (s *Daily) NextRotationAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Log implements [logging.Sink].
func (s *Daily) Log(r *logging.Record) {
	if !s.accepts(r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if now := s.clock(); !now.Before(s.next) {
		_ = s.rotate(now)
	}
	p, _, _ := s.format(r)
	if !s.ensureOpen() {
		s.dropped()
		return
	}
	s.writeRecord(p)
}

// Rotate archives the active file now and reschedules the next rotation.
func (s *Daily) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.rotate(s.clock())
}

// rotate archives the active file under the date of the period that just
// closed. The next deadline advances even when the rename fails, in which
// case the active file is reopened for appending. Caller holds mu.
func (s *Daily) rotate(now time.Time) error {
	day := s.next.AddDate(0, 0, -1)
	s.next = NextRotation(now, s.hour, s.minute)

	var errs []error
	if err := s.closeFile(); err != nil {
		s.fail("close", s.path, err)
		errs = append(errs, err)
	}

	truncate := true
	if exists(s.path) {
		archive := s.freeArchiveName(day)
		if err := os.Rename(s.path, archive); err != nil {
			s.fail("rename", s.path, err)
			errs = append(errs, err)
			truncate = false
		}
	}

	fw, err := openFile(s.path, truncate)
	if err != nil {
		s.fail("open", s.path, err)
		return errors.Join(append(errs, err)...)
	}
	s.fw = fw
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.observer.Rotated(s.name)
	if s.maxFiles > 0 {
		s.prune()
	}
	return nil
}

// freeArchiveName returns the first unused archive name for day.
func (s *Daily) freeArchiveName(day time.Time) string {
	name := ArchiveName(s.path, day)
	if !exists(name) {
		return name
	}
	stem, ext := splitExt(name)
	for i := 1; ; i++ {
		candidate := stem + "." + strconv.Itoa(i) + ext
		if !exists(candidate) {
			return candidate
		}
	}
}

type archive struct {
	path string
	day  string
	seq  int
}

// Archives returns the archive files of the sink, oldest first.
func (s *Daily) Archives() ([]string, error) {
	found, err := s.archives()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(found))
	for i, a := range found {
		out[i] = a.path
	}
	return out, nil
}

func (s *Daily) archives() ([]archive, error) {
	stem, ext := splitExt(s.path)
	matches, err := filepath.Glob(escapeGlob(stem) + "_*" + escapeGlob(ext))
	if err != nil {
		return nil, err
	}

	var found []archive
	for _, m := range matches {
		rest := strings.TrimSuffix(strings.TrimPrefix(m, stem+"_"), ext)
		day, seqStr, hasSeq := strings.Cut(rest, ".")
		if _, err := time.Parse(archiveDateLayout, day); err != nil {
			continue
		}
		seq := 0
		if hasSeq {
			n, err := strconv.Atoi(seqStr)
			if err != nil {
				continue
			}
			seq = n
		}
		found = append(found, archive{path: m, day: day, seq: seq})
	}
	slices.SortFunc(found, func(a, b archive) int {
		if c := strings.Compare(a.day, b.day); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
	return found, nil
}

// prune deletes the oldest archives beyond maxFiles. Caller holds mu.
func (s *Daily) prune() {
	found, err := s.archives()
	if err != nil {
		s.fail("prune", s.path, err)
		return
	}
	for len(found) > s.maxFiles {
		if err := os.Remove(found[0].path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.fail("remove", found[0].path, err)
		}
		found = found[1:]
	}
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
