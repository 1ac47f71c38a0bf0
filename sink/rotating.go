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

	"rivaas.dev/rotlog/logging"
)

// MaxBackupFiles is the largest backup count a [Rotating] sink accepts.
const MaxBackupFiles = 200000

// BackupName returns the name of backup i of path: "app.log" becomes "app.log.0".
func BackupName(path string, i int) string {
	return fmt.Sprintf("%s.%d", path, i)
}

// Rotating writes to a file and rotates it before a record would push it
// past a maximum size.
//
// Rotation shifts backup i-1 to i for i from maxFiles-1 down to 1, renames the
// base file to backup 0 and reopens an empty base file. Backup maxFiles-1, if
// present, is overwritten. With maxFiles 0 the base file is truncated instead.
// A record larger than maxSize is written whole into an empty file.
//
// Thread-safe: Safe for concurrent use by multiple goroutines.
type Rotating struct {
	fileBase
	maxSize  int64
	maxFiles int
}

var _ logging.Sink = (*Rotating)(nil)

// NewRotating opens path, creating it and its parent directories as needed.
//
// Errors:
//   - [ErrInvalidMaxSize]: maxSize <= 0
//   - [ErrInvalidMaxFiles]: maxFiles < 0 or > [MaxBackupFiles]
//   - *[logging.IOError]: the directory or file cannot be created
func NewRotating(path string, maxSize int64, maxFiles int, opts ...Option) (*Rotating, error) {
	if path == "" {
		return nil, ErrEmptyFilename
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxSize, maxSize)
	}
	if maxFiles < 0 || maxFiles > MaxBackupFiles {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxFiles, maxFiles)
	}

	o := newOptions("rotating", opts)
	s := &Rotating{maxSize: maxSize, maxFiles: maxFiles}
	if err := s.open(o, path); err != nil {
		return nil, err
	}
	if o.rotateOnOpen && s.fw.size > 0 {
		s.mu.Lock()
		err := s.rotate()
		s.mu.Unlock()
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
	}
	return s, nil
}

// MaxSize returns the size bound in bytes.
func (s *Rotating) MaxSize() int64 {
	return s.maxSize
}

// MaxFiles returns the number of backups kept.
func (s *Rotating) MaxFiles() int {
	return s.maxFiles
}

// Log implements [logging.Sink].
func (s *Rotating) Log(r *logging.Record) {
	if !s.accepts(r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	p, _, _ := s.format(r)
	if !s.ensureOpen() {
		s.dropped()
		return
	}
	if s.fw.size > 0 && s.fw.size+int64(len(p)) > s.maxSize {
		_ = s.rotate()
		if s.fw == nil {
			s.dropped()
			return
		}
	}
	s.writeRecord(p)
}

// Rotate rotates the files now, regardless of size.
func (s *Rotating) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.rotate()
}

// rotate closes the base file, shifts the backups and reopens the base file.
// Failures are reported and returned. A failed shift stops the shifting, so
// no older backup is overwritten, and leaves the base file in place; when
// the base file is not renamed it is reopened for appending. Caller holds mu.
func (s *Rotating) rotate() error {
	var errs []error
	if err := s.closeFile(); err != nil {
		s.fail("close", s.path, err)
		errs = append(errs, err)
	}

	for i := s.maxFiles - 1; i >= 1; i-- {
		src, dst := BackupName(s.path, i-1), BackupName(s.path, i)
		if !exists(src) {
			continue
		}
		if err := renameOver(src, dst); err != nil {
			s.fail("rename", src, err)
			errs = append(errs, err)
			break
		}
	}

	truncate := len(errs) == 0
	if s.maxFiles > 0 && truncate {
		if err := renameOver(s.path, BackupName(s.path, 0)); err != nil {
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
	if len(errs) == 0 {
		s.observer.Rotated(s.name)
	}
	return errors.Join(errs...)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// renameOver renames src to dst, replacing dst.
func renameOver(src, dst string) error {
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
