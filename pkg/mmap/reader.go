// Package mmap provides memory-mapped file I/O for zero-copy high-performance
// reading of delimited text files.
package mmap

import (
	"os"

	"github.com/stratumdata/stratum/pkg/errors"
	stringpool "github.com/stratumdata/stratum/pkg/strings"
)

// Reader provides memory-mapped file reading with zero-copy access to the
// file's bytes. The mapping is read-only and advised for sequential access.
type Reader struct {
	file     *os.File
	data     []byte
	fileSize int64
}

// NewReader memory-maps the named file. Empty files cannot be mapped and
// return an error; callers fall back to buffered reading.
func NewReader(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file")
	}

	fileSize := stat.Size()
	if fileSize == 0 {
		file.Close()
		return nil, errors.New(errors.ErrorTypeFile, "file is empty")
	}

	data, err := mmapFile(int(file.Fd()), 0, int(fileSize), ProtRead, MapShared)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to mmap file")
	}

	// Advise the kernel about the access pattern; failure is non-fatal.
	_ = madvise(data, MadvSequential)

	return &Reader{
		file:     file,
		data:     data,
		fileSize: fileSize,
	}, nil
}

// Data returns the entire memory-mapped file contents. The slice is only
// valid until Close; callers that keep data must copy it first.
func (r *Reader) Data() []byte {
	return r.data
}

// Size returns the mapped file size in bytes.
func (r *Reader) Size() int64 {
	return r.fileSize
}

// Close unmaps the file and closes it.
func (r *Reader) Close() error {
	var err error

	if r.data != nil {
		err = munmap(r.data)
		r.data = nil
	}

	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.file = nil
	}

	return err
}

// LineScanner iterates newline-delimited lines over memory-mapped data
// without copying. It mirrors the bufio.Scanner Scan/Text/Err surface so
// ingestion code can treat mapped and buffered sources uniformly.
type LineScanner struct {
	data   []byte
	offset int
	line   []byte
}

// NewLineScanner creates a line scanner over a mapped reader's data.
func NewLineScanner(r *Reader) *LineScanner {
	return &LineScanner{data: r.Data()}
}

// Scan advances to the next line. It returns false at end of data.
func (s *LineScanner) Scan() bool {
	if s.offset >= len(s.data) {
		s.line = nil
		return false
	}

	start := s.offset
	end := start
	for end < len(s.data) && s.data[end] != '\n' {
		end++
	}

	line := s.data[start:end]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	s.line = line

	s.offset = end
	if s.offset < len(s.data) {
		s.offset++ // step over the newline
	}
	return true
}

// Bytes returns the current line without the trailing newline. The slice
// aliases the mapping and is only valid until Close.
func (s *LineScanner) Bytes() []byte {
	return s.line
}

// Text returns the current line as a string without copying.
//
// WARNING: the string aliases the mapping; it is only valid until the
// underlying Reader is closed. Callers that retain line contents must copy
// them first.
func (s *LineScanner) Text() string {
	return stringpool.BytesToString(s.line)
}

// Err reports a scanning error. Mapped data cannot fail mid-scan, so it
// always returns nil; the method exists for bufio.Scanner symmetry.
func (s *LineScanner) Err() error {
	return nil
}
