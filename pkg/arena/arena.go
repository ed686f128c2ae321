// Package arena provides an append-only text buffer with stable range
// handles. Header names and string cells are interned once and referenced by
// Span, so table storage never holds per-value string allocations.
package arena

import (
	stringpool "github.com/stratumdata/stratum/pkg/strings"
)

// Span is a half-open byte range [Start, End) into an Arena buffer.
// A Span issued by Intern stays valid for the lifetime of the arena:
// the buffer only ever grows, so the bytes below any issued End are
// never rewritten.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Arena is an append-only byte buffer that owns all interned text.
// It is not safe for concurrent interning; concurrent Resolve calls on an
// arena that is no longer being appended to are safe.
type Arena struct {
	buf []byte
}

// New creates an arena with the given initial capacity hint.
func New(capacity int) *Arena {
	return &Arena{buf: make([]byte, 0, capacity)}
}

// Intern appends text to the buffer and returns its span.
func (a *Arena) Intern(s string) Span {
	start := len(a.buf)
	a.buf = append(a.buf, s...)
	return Span{Start: start, End: len(a.buf)}
}

// InternBytes appends raw bytes to the buffer and returns their span.
// The input is copied, so callers may reuse or unmap the source buffer
// afterwards.
func (a *Arena) InternBytes(b []byte) Span {
	start := len(a.buf)
	a.buf = append(a.buf, b...)
	return Span{Start: start, End: len(a.buf)}
}

// Resolve returns the interned text for a span without copying.
//
// WARNING: the returned string aliases the arena's buffer. This is safe
// because the buffer is append-only, but the string is only valid while
// the arena is reachable.
func (a *Arena) Resolve(sp Span) string {
	return stringpool.BytesToString(a.buf[sp.Start:sp.End])
}

// Len returns the number of bytes interned so far.
func (a *Arena) Len() int {
	return len(a.buf)
}
