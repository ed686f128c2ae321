package value

import (
	"cmp"
	"time"

	"github.com/stratumdata/stratum/pkg/errors"
	stringpool "github.com/stratumdata/stratum/pkg/strings"
)

// Timestamp is a calendar date-time with second precision and no time
// zone. Timestamps are totally ordered by field tuple, year first. The
// struct is comparable, so it can serve directly as a grouping key.
type Timestamp struct {
	Year   int32 `json:"year"`
	Month  uint8 `json:"month"`
	Day    uint8 `json:"day"`
	Hour   uint8 `json:"hour"`
	Minute uint8 `json:"minute"`
	Second uint8 `json:"second"`
}

// Layouts accepted by ParseTimestamp, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// ParseTimestamp parses a timestamp literal. Accepted layouts are
// "2006-01-02 15:04:05", "2006-01-02" and RFC 3339.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Timestamp{}, errors.Newf(errors.ErrorTypeFormat, "invalid timestamp literal %q", s)
}

// FromTime converts a time.Time into a Timestamp, discarding sub-second
// precision and the location.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Year:   int32(t.Year()),
		Month:  uint8(t.Month()),
		Day:    uint8(t.Day()),
		Hour:   uint8(t.Hour()),
		Minute: uint8(t.Minute()),
		Second: uint8(t.Second()),
	}
}

// Now returns the current local time as a Timestamp.
func Now() Timestamp {
	return FromTime(time.Now())
}

// Time converts the timestamp back into a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// Compare orders two timestamps by field tuple, year first. It returns a
// negative number when t is earlier, zero when equal, positive when later.
func (t Timestamp) Compare(o Timestamp) int {
	if c := cmp.Compare(t.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Month, o.Month); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Day, o.Day); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Hour, o.Hour); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Minute, o.Minute); c != 0 {
		return c
	}
	return cmp.Compare(t.Second, o.Second)
}

// Before reports whether t is earlier than o.
func (t Timestamp) Before(o Timestamp) bool {
	return t.Compare(o) < 0
}

// After reports whether t is later than o.
func (t Timestamp) After(o Timestamp) bool {
	return t.Compare(o) > 0
}

// String formats the timestamp as "h:m:s on d.m.y".
func (t Timestamp) String() string {
	return stringpool.Sprintf("%d:%d:%d on %d.%d.%d",
		t.Hour, t.Minute, t.Second, t.Day, t.Month, t.Year)
}
