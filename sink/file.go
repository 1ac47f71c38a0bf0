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
	"bufio"
	"errors"
	"os"
	"path/filepath"

	"rivaas.dev/rotlog/logging"
)

const (
	fileBufferSize = 32 * 1024
	fileMode       = 0o644
	dirMode        = 0o755
)

// fileWriter is a buffered, size-tracking handle on one log file.
type fileWriter struct {
	path string
	f    *os.File
	w    *bufio.Writer
	size int64
}

// openFile opens path for appending, or empties it when truncate is set.
// It does not create missing directories.
func openFile(path string, truncate bool) (*fileWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, fileMode)
	if err != nil {
		return nil, err
	}
	fw := &fileWriter{path: path, f: f, w: bufio.NewWriterSize(f, fileBufferSize)}
	if !truncate {
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		fw.size = st.Size()
	}
	return fw, nil
}

// write buffers p without ever splitting it across two flushes.
func (fw *fileWriter) write(p []byte) error {
	if fw.w.Buffered() > 0 && fw.w.Available() < len(p) {
		if err := fw.w.Flush(); err != nil {
			return err
		}
	}
	n, err := fw.w.Write(p)
	fw.size += int64(n)
	return err
}

// flush pushes buffered bytes to the file and syncs it to stable storage.
func (fw *fileWriter) flush() error {
	if err := fw.w.Flush(); err != nil {
		return err
	}
	return fw.f.Sync()
}

func (fw *fileWriter) close() error {
	return errors.Join(fw.w.Flush(), fw.f.Close())
}

func createParent(sinkName, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return &logging.IOError{Sink: sinkName, Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// fileBase is the state and behaviour shared by the file-backed sinks.
// Fields are guarded by base.mu.
type fileBase struct {
	base
	path string
	fw   *fileWriter
}

func (s *fileBase) open(o *options, path string) error {
	if err := createParent(o.name, path); err != nil {
		return err
	}
	fw, err := openFile(path, o.truncate)
	if err != nil {
		return &logging.IOError{Sink: o.name, Op: "open", Path: path, Err: err}
	}
	s.path = path
	s.fw = fw
	s.init(o)
	return nil
}

// Path returns the file path.
func (s *fileBase) Path() string {
	return s.path
}

// Size returns the number of bytes in the file, including buffered bytes.
func (s *fileBase) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fw == nil {
		return 0
	}
	return s.fw.size
}

// ensureOpen reopens the file for appending after a failure. Caller holds mu.
func (s *fileBase) ensureOpen() bool {
	if s.fw != nil {
		return true
	}
	fw, err := openFile(s.path, false)
	if err != nil {
		s.fail("open", s.path, err)
		return false
	}
	s.fw = fw
	return true
}

// writeRecord writes p, dropping the handle on failure so the next record
// reopens the file. Caller holds mu.
func (s *fileBase) writeRecord(p []byte) {
	if err := s.fw.write(p); err != nil {
		s.fail("write", s.path, err)
		_ = s.fw.f.Close()
		s.fw = nil
		s.dropped()
		return
	}
	s.wrote(len(p))
}

// closeFile closes the handle if one is open. Caller holds mu.
func (s *fileBase) closeFile() error {
	if s.fw == nil {
		return nil
	}
	err := s.fw.close()
	s.fw = nil
	return err
}

// Flush implements [logging.Sink].
func (s *fileBase) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fw == nil {
		return
	}
	if err := s.fw.flush(); err != nil {
		s.fail("flush", s.path, err)
	}
}

// Close implements [logging.Sink]. The file is closed once the last
// logger holding the sink closes it.
func (s *fileBase) Close() error {
	if !s.release() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.closeFile(); err != nil {
		return &logging.IOError{Sink: s.name, Op: "close", Path: s.path, Err: err}
	}
	return nil
}

// File writes every record to a single file that grows without bound.
//
// Thread-safe: Safe for concurrent use by multiple goroutines.
type File struct {
	fileBase
}

var _ logging.Sink = (*File)(nil)

// NewFile opens path, creating it and its parent directories as needed.
// The file is appended to unless [WithTruncate] is given.
func NewFile(path string, opts ...Option) (*File, error) {
	if path == "" {
		return nil, ErrEmptyFilename
	}
	s := &File{}
	if err := s.open(newOptions("file", opts), path); err != nil {
		return nil, err
	}
	return s, nil
}

// Log implements [logging.Sink].
func (s *File) Log(r *logging.Record) {
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
	s.writeRecord(p)
}
