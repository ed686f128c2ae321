package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
	"github.com/stratumdata/stratum/pkg/view"
)

func TestSprintAlignment(t *testing.T) {
	tbl := table.New("a", "b")
	require.NoError(t, tbl.AppendRows([][]value.Value{
		{value.Int(1), value.Str("x")},
		{value.Int(2), value.Str("yy")},
	}))
	v := view.New(tbl)
	defer v.Release()

	want := "#  a  b   \n" +
		"0  1  x   \n" +
		"1  2  yy  \n"
	assert.Equal(t, want, Sprint(v))
}

func TestSprintShowsPhysicalIndices(t *testing.T) {
	tbl := table.New("n")
	require.NoError(t, tbl.AppendRows([][]value.Value{
		{value.Str("first")},
		{value.Str("second")},
		{value.Str("third")},
	}))
	v := view.New(tbl)
	defer v.Release()
	rev := v.Reverse()
	defer rev.Release()

	want := "#  n       \n" +
		"2  third   \n" +
		"1  second  \n" +
		"0  first   \n"
	assert.Equal(t, want, Sprint(rev))
}

func TestSprintCountsRunes(t *testing.T) {
	tbl := table.New("drink")
	require.NoError(t, tbl.AppendRow(value.Str("café")))
	require.NoError(t, tbl.AppendRow(value.Str("tea")))
	v := view.New(tbl)
	defer v.Release()

	want := "#  drink  \n" +
		"0  café   \n" +
		"1  tea    \n"
	assert.Equal(t, want, Sprint(v))
}

func TestSprintEmptyView(t *testing.T) {
	tbl := table.New("a", "bb")
	v := view.New(tbl)
	defer v.Release()

	assert.Equal(t, "#  a  bb  \n", Sprint(v))
}

func TestFprint(t *testing.T) {
	tbl := table.New("a")
	require.NoError(t, tbl.AppendRow(value.Int(7)))
	v := view.New(tbl)
	defer v.Release()

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, v))
	assert.Equal(t, Sprint(v), buf.String())
}
