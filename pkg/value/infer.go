package value

import (
	"strconv"
	"strings"
)

// Infer converts raw text into a typed value using ordered inference:
// boolean literal, 32-bit integer, 32-bit float, timestamp, two floats
// separated by a single space (a point), and finally plain string. The
// order is significant: "42" is an integer, never a float or string.
func Infer(text string) Value {
	switch text {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(text, 10, 32); err == nil {
		return Int(int32(i))
	}
	if f, err := strconv.ParseFloat(text, 32); err == nil {
		return Float(float32(f))
	}
	if ts, err := ParseTimestamp(text); err == nil {
		return Time(ts)
	}
	if left, right, ok := strings.Cut(text, " "); ok {
		if x, err := strconv.ParseFloat(left, 32); err == nil {
			if y, err := strconv.ParseFloat(right, 32); err == nil {
				return XY(float32(x), float32(y))
			}
		}
	}
	return Str(text)
}
