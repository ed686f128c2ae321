// Package strings provides zero-copy string utilities and pooled builders
// used throughout stratum's hot paths.
package strings

import (
	"fmt"
	"sync"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts a string to a byte slice without allocation.
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Clone copies a string into freshly owned memory. Use it when a string
// produced by BytesToString must outlive its backing buffer.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, StringToBytes(s))
	return BytesToString(b)
}

// TrimSpace removes leading and trailing ASCII whitespace without allocating.
func TrimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// Builder accumulates bytes and hands the result out via zero-copy
// conversion. Unlike strings.Builder it can be reset and pooled.
type Builder struct {
	buf []byte
}

// NewBuilder creates a builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteBytes appends raw bytes to the builder.
func (b *Builder) WriteBytes(data []byte) {
	b.buf = append(b.buf, data...)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) {
	b.buf = append(b.buf, c)
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion. The result is
// invalidated by any further write or Reset; Clone it to keep it.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Bytes returns the underlying byte slice.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset clears the builder for reuse, keeping its capacity.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Grow ensures capacity for at least n more bytes.
func (b *Builder) Grow(n int) {
	if cap(b.buf)-len(b.buf) < n {
		newBuf := make([]byte, len(b.buf), len(b.buf)+2*cap(b.buf)+n)
		copy(newBuf, b.buf)
		b.buf = newBuf
	}
}

// BuilderSize selects a pooled builder size class.
type BuilderSize int

const (
	// Small covers most cell and message formatting (< 1KB).
	Small BuilderSize = iota
	// Medium covers rendered rows and diagnostics (1KB - 16KB).
	Medium
	// Large covers whole rendered tables and export buffers (16KB+).
	Large
)

var (
	smallBuilderPool = &sync.Pool{
		New: func() interface{} { return NewBuilder(1024) },
	}
	mediumBuilderPool = &sync.Pool{
		New: func() interface{} { return NewBuilder(16 * 1024) },
	}
	largeBuilderPool = &sync.Pool{
		New: func() interface{} { return NewBuilder(64 * 1024) },
	}
)

func poolFor(size BuilderSize) *sync.Pool {
	switch size {
	case Medium:
		return mediumBuilderPool
	case Large:
		return largeBuilderPool
	default:
		return smallBuilderPool
	}
}

// GetBuilder retrieves a pooled builder of the given size class.
func GetBuilder(size BuilderSize) *Builder {
	b := poolFor(size).Get().(*Builder)
	b.Reset()
	return b
}

// PutBuilder returns a builder to its pool.
func PutBuilder(b *Builder, size BuilderSize) {
	if b == nil {
		return
	}
	b.Reset()
	poolFor(size).Put(b)
}

// sizeClassFor picks a pool appropriate for an estimated byte count.
func sizeClassFor(n int) BuilderSize {
	switch {
	case n > 16*1024:
		return Large
	case n > 1024:
		return Medium
	default:
		return Small
	}
}

// Sprintf is a pooled alternative to fmt.Sprintf for hot paths.
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	size := sizeClassFor(len(format) + len(args)*16)
	b := GetBuilder(size)
	defer PutBuilder(b, size)
	fmt.Fprintf(b, format, args...)
	return Clone(b.String())
}

// Concat joins strings using a pooled builder.
func Concat(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	total := 0
	for _, s := range parts {
		total += len(s)
	}
	size := sizeClassFor(total)
	b := GetBuilder(size)
	defer PutBuilder(b, size)
	for _, s := range parts {
		b.WriteString(s)
	}
	return Clone(b.String())
}
