package table

import (
	"github.com/stratumdata/stratum/pkg/arena"
	"github.com/stratumdata/stratum/pkg/value"
)

// cell is the stored form of a value. String payloads live in the owning
// table's arena and are referenced by span, so a stored row holds no
// per-value string allocations. Scalar payloads are stored inline; lists
// nest recursively.
type cell struct {
	kind value.Kind
	span arena.Span
	i    int32
	f    float32
	b    bool
	ts   value.Timestamp
	pt   value.Point
	list []cell
}

// encodeCell converts a value into its stored form, interning any string
// payloads into the arena. Encoding copies text, so the input value may
// alias transient buffers (a mapped file, a pooled builder).
func encodeCell(v value.Value, a *arena.Arena) cell {
	switch v.Kind() {
	case value.KindString:
		return cell{kind: value.KindString, span: a.Intern(v.MustStr())}
	case value.KindInteger:
		return cell{kind: value.KindInteger, i: v.MustInt()}
	case value.KindFloat:
		return cell{kind: value.KindFloat, f: v.MustFloat()}
	case value.KindBoolean:
		return cell{kind: value.KindBoolean, b: v.MustBool()}
	case value.KindTimestamp:
		return cell{kind: value.KindTimestamp, ts: v.MustTime()}
	case value.KindPoint:
		return cell{kind: value.KindPoint, pt: v.MustXY()}
	case value.KindList:
		elems := v.MustList()
		list := make([]cell, len(elems))
		for i, e := range elems {
			list[i] = encodeCell(e, a)
		}
		return cell{kind: value.KindList, list: list}
	}
	return cell{kind: value.KindString, span: arena.Span{}}
}

// decode converts a stored cell back into a value, resolving string spans
// against the arena without copying.
func (c cell) decode(a *arena.Arena) value.Value {
	switch c.kind {
	case value.KindString:
		return value.Str(a.Resolve(c.span))
	case value.KindInteger:
		return value.Int(c.i)
	case value.KindFloat:
		return value.Float(c.f)
	case value.KindBoolean:
		return value.Bool(c.b)
	case value.KindTimestamp:
		return value.Time(c.ts)
	case value.KindPoint:
		return value.XY(c.pt.X, c.pt.Y)
	case value.KindList:
		elems := make([]value.Value, len(c.list))
		for i, e := range c.list {
			elems[i] = e.decode(a)
		}
		return value.ListOf(elems...)
	}
	return value.Str("")
}

// copyCell transfers a cell between tables, re-interning string payloads
// into the destination arena. Scalar payloads carry no arena references
// and copy directly.
func copyCell(c cell, from, to *arena.Arena) cell {
	switch c.kind {
	case value.KindString:
		return cell{kind: value.KindString, span: to.Intern(from.Resolve(c.span))}
	case value.KindList:
		list := make([]cell, len(c.list))
		for i, e := range c.list {
			list[i] = copyCell(e, from, to)
		}
		return cell{kind: value.KindList, list: list}
	default:
		return c
	}
}
