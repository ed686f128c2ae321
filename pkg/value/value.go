// Package value defines the tagged cell model used by stratum tables:
// scalar and composite values with ordered text inference, structural
// equality, and display formatting.
package value

import (
	"strconv"

	"github.com/stratumdata/stratum/pkg/errors"
	stringpool "github.com/stratumdata/stratum/pkg/strings"
)

// Kind identifies the concrete type carried by a Value.
type Kind uint8

const (
	// KindString is a text value
	KindString Kind = iota
	// KindInteger is a 32-bit signed integer
	KindInteger
	// KindFloat is a 32-bit float
	KindFloat
	// KindBoolean is a boolean
	KindBoolean
	// KindTimestamp is a calendar date-time
	KindTimestamp
	// KindPoint is a 2D float pair
	KindPoint
	// KindList is an ordered, possibly heterogeneous sequence of values
	KindList
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindTimestamp:
		return "timestamp"
	case KindPoint:
		return "point"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Point is a 2D coordinate pair.
type Point struct {
	X float32
	Y float32
}

// String formats the point as "(x | y)".
func (p Point) String() string {
	return stringpool.Concat(
		"(",
		strconv.FormatFloat(float64(p.X), 'f', -1, 32),
		" | ",
		strconv.FormatFloat(float64(p.Y), 'f', -1, 32),
		")",
	)
}

// Value is a closed tagged variant over the seven cell kinds. Values are
// immutable; the zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	i    int32
	f    float32
	b    bool
	ts   Timestamp
	pt   Point
	list []Value
}

// Str creates a string value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Int creates a 32-bit integer value.
func Int(i int32) Value { return Value{kind: KindInteger, i: i} }

// Float creates a 32-bit float value.
func Float(f float32) Value { return Value{kind: KindFloat, f: f} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Time creates a timestamp value.
func Time(ts Timestamp) Value { return Value{kind: KindTimestamp, ts: ts} }

// XY creates a 2D point value.
func XY(x, y float32) Value { return Value{kind: KindPoint, pt: Point{X: x, Y: y}} }

// ListOf creates a list value from the given elements. The elements are
// not copied; callers must not mutate the slice afterwards.
func ListOf(elems ...Value) Value { return Value{kind: KindList, list: elems} }

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) convErr(want Kind) error {
	return errors.Newf(errors.ErrorTypeConversion, "cannot convert %s to %s", v, want)
}

// AsStr narrows the value to its text, or returns a conversion error if the
// value is not a string.
func (v Value) AsStr() (string, error) {
	if v.kind != KindString {
		return "", v.convErr(KindString)
	}
	return v.str, nil
}

// AsInt narrows the value to a 32-bit integer.
func (v Value) AsInt() (int32, error) {
	if v.kind != KindInteger {
		return 0, v.convErr(KindInteger)
	}
	return v.i, nil
}

// AsFloat narrows the value to a 32-bit float.
func (v Value) AsFloat() (float32, error) {
	if v.kind != KindFloat {
		return 0, v.convErr(KindFloat)
	}
	return v.f, nil
}

// AsBool narrows the value to a boolean.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBoolean {
		return false, v.convErr(KindBoolean)
	}
	return v.b, nil
}

// AsTime narrows the value to a timestamp.
func (v Value) AsTime() (Timestamp, error) {
	if v.kind != KindTimestamp {
		return Timestamp{}, v.convErr(KindTimestamp)
	}
	return v.ts, nil
}

// AsXY narrows the value to a 2D point.
func (v Value) AsXY() (Point, error) {
	if v.kind != KindPoint {
		return Point{}, v.convErr(KindPoint)
	}
	return v.pt, nil
}

// AsList narrows the value to its element slice. The returned slice is
// shared; callers must not mutate it.
func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, v.convErr(KindList)
	}
	return v.list, nil
}

// MustStr is like AsStr but panics on kind mismatch. Reserved for callers
// that have already validated the column's type; a panic here is a contract
// violation, not a recoverable condition.
func (v Value) MustStr() string {
	s, err := v.AsStr()
	if err != nil {
		panic(err)
	}
	return s
}

// MustInt is like AsInt but panics on kind mismatch.
func (v Value) MustInt() int32 {
	i, err := v.AsInt()
	if err != nil {
		panic(err)
	}
	return i
}

// MustFloat is like AsFloat but panics on kind mismatch.
func (v Value) MustFloat() float32 {
	f, err := v.AsFloat()
	if err != nil {
		panic(err)
	}
	return f
}

// MustBool is like AsBool but panics on kind mismatch.
func (v Value) MustBool() bool {
	b, err := v.AsBool()
	if err != nil {
		panic(err)
	}
	return b
}

// MustTime is like AsTime but panics on kind mismatch.
func (v Value) MustTime() Timestamp {
	ts, err := v.AsTime()
	if err != nil {
		panic(err)
	}
	return ts
}

// MustXY is like AsXY but panics on kind mismatch.
func (v Value) MustXY() Point {
	pt, err := v.AsXY()
	if err != nil {
		panic(err)
	}
	return pt
}

// MustList is like AsList but panics on kind mismatch.
func (v Value) MustList() []Value {
	l, err := v.AsList()
	if err != nil {
		panic(err)
	}
	return l
}

// Equal reports structural equality. Lists are compared element-wise.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBoolean:
		return v.b == o.b
	case KindTimestamp:
		return v.ts == o.ts
	case KindPoint:
		return v.pt == o.pt
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String formats the value for display. Floats use the shortest
// representation that round-trips at 32-bit precision; lists render as
// "[ a, b, c ]".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(int64(v.i), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.f), 'f', -1, 32)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindTimestamp:
		return v.ts.String()
	case KindPoint:
		return v.pt.String()
	case KindList:
		if len(v.list) == 0 {
			return "[]"
		}
		sb := stringpool.GetBuilder(stringpool.Small)
		defer stringpool.PutBuilder(sb, stringpool.Small)
		sb.WriteString("[ ")
		for i, elem := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(elem.String())
		}
		sb.WriteString(" ]")
		return stringpool.Clone(sb.String())
	}
	return ""
}
