//go:build !linux && !darwin
// +build !linux,!darwin

package mmap

import (
	"errors"
)

var errUnsupported = errors.New("memory mapping not supported on this platform")

// mmapFile reports memory mapping as unavailable; callers fall back to
// buffered reading.
func mmapFile(fd int, offset int64, length int, prot int, flags int) ([]byte, error) {
	return nil, errUnsupported
}

func munmap(b []byte) error {
	return errUnsupported
}

func madvise(b []byte, advice int) error {
	return errUnsupported
}

const (
	ProtRead       = 0
	MapShared      = 0
	MadvSequential = 0
)
