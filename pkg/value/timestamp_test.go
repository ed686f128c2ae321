package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Timestamp
	}{
		{
			"date only",
			"2021-03-05",
			Timestamp{Year: 2021, Month: 3, Day: 5},
		},
		{
			"date and time",
			"2021-03-05 14:30:15",
			Timestamp{Year: 2021, Month: 3, Day: 5, Hour: 14, Minute: 30, Second: 15},
		},
		{
			"rfc3339",
			"2021-03-05T14:30:15Z",
			Timestamp{Year: 2021, Month: 3, Day: 5, Hour: 14, Minute: 30, Second: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, input := range []string{"", "not a date", "2021-13-40", "05.03.2021"} {
		_, err := ParseTimestamp(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestTimestampCompare(t *testing.T) {
	base := Timestamp{Year: 2021, Month: 6, Day: 15, Hour: 12, Minute: 30, Second: 30}

	tests := []struct {
		name  string
		other Timestamp
		want  int
	}{
		{"equal", base, 0},
		{"earlier year", Timestamp{Year: 2020, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59}, 1},
		{"later year", Timestamp{Year: 2022, Month: 1, Day: 1}, -1},
		{"earlier month", Timestamp{Year: 2021, Month: 5, Day: 31}, 1},
		{"later day", Timestamp{Year: 2021, Month: 6, Day: 16}, -1},
		{"earlier second", Timestamp{Year: 2021, Month: 6, Day: 15, Hour: 12, Minute: 30, Second: 29}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Compare(tt.other))
		})
	}

	assert.True(t, Timestamp{Year: 2020}.Before(base))
	assert.True(t, Timestamp{Year: 2022}.After(base))
	assert.False(t, base.Before(base))
}

func TestTimestampTimeRoundTrip(t *testing.T) {
	ts := Timestamp{Year: 2021, Month: 3, Day: 5, Hour: 14, Minute: 30, Second: 15}
	assert.Equal(t, ts, FromTime(ts.Time()))
}

func TestFromTime(t *testing.T) {
	src := time.Date(1999, time.December, 31, 23, 59, 58, 123456, time.UTC)
	ts := FromTime(src)
	assert.Equal(t, Timestamp{Year: 1999, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 58}, ts)
}
