package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/value"
)

func TestNewTable(t *testing.T) {
	tbl := New("name", "age", "score")

	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.IsEmpty())
	assert.Equal(t, 3, tbl.NumColumns())
	assert.Equal(t, []string{"name", "age", "score"}, tbl.Headers())
	assert.Equal(t, []int{0, 1, 2}, tbl.Identity())

	name, ok := tbl.HeaderAt(0)
	require.True(t, ok)
	assert.Equal(t, "name", name)

	_, ok = tbl.HeaderAt(3)
	assert.False(t, ok)
	_, ok = tbl.HeaderAt(-1)
	assert.False(t, ok)
}

func TestHeadersIsolated(t *testing.T) {
	tbl := New("a", "b")
	names := tbl.Headers()
	names[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, tbl.Headers())
}

func TestAppendRowArity(t *testing.T) {
	tbl := New("a", "b", "c")

	err := tbl.AppendRow(value.Int(1), value.Int(2))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeArity))
	assert.Contains(t, err.Error(), "row has 2 cells, header has 3 columns")
	assert.Equal(t, 0, tbl.Len())

	require.NoError(t, tbl.AppendRow(value.Int(1), value.Int(2), value.Int(3)))
	assert.Equal(t, 1, tbl.Len())
	assert.False(t, tbl.IsEmpty())
}

func TestAppendRowsAtomic(t *testing.T) {
	tbl := New("a", "b")

	err := tbl.AppendRows([][]value.Value{
		{value.Int(1), value.Int(2)},
		{value.Int(3)},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeArity))
	assert.Contains(t, err.Error(), "row 1")
	assert.Equal(t, 0, tbl.Len(), "a failed batch must not append any rows")

	require.NoError(t, tbl.AppendRows([][]value.Value{
		{value.Int(1), value.Int(2)},
		{value.Int(3), value.Int(4)},
	}))
	assert.Equal(t, 2, tbl.Len())
}

func TestCellValuesRoundTrip(t *testing.T) {
	tbl := New("text", "num", "ratio", "flag", "when", "pos", "tags")
	ts := value.Timestamp{Year: 2021, Month: 3, Day: 5, Hour: 14, Minute: 30}
	row := []value.Value{
		value.Str("hello world"),
		value.Int(-42),
		value.Float(2.5),
		value.Bool(true),
		value.Time(ts),
		value.XY(1, 2),
		value.ListOf(value.Int(1), value.ListOf(value.Str("nested"))),
	}
	require.NoError(t, tbl.AppendRow(row...))

	for col, want := range row {
		got := tbl.CellAt(0, col)
		assert.True(t, want.Equal(got), "column %d: want %s, got %s", col, want, got)
	}

	vals := tbl.RowValues(0)
	require.Len(t, vals, len(row))
	for i := range row {
		assert.True(t, row[i].Equal(vals[i]))
	}
}

func TestAppendTable(t *testing.T) {
	t.Run("merges rows", func(t *testing.T) {
		dst := New("a", "b")
		require.NoError(t, dst.AppendRow(value.Int(1), value.Str("x")))

		src := New("a", "b")
		require.NoError(t, src.AppendRow(value.Int(2), value.Str("y")))
		require.NoError(t, src.AppendRow(value.Int(3), value.Str("z")))

		require.NoError(t, dst.AppendTable(src))
		assert.Equal(t, 3, dst.Len())
		assert.True(t, value.Str("z").Equal(dst.CellAt(2, 1)))

		// source stays usable after the merge
		assert.Equal(t, 2, src.Len())
		assert.True(t, value.Str("y").Equal(src.CellAt(0, 1)))
	})

	t.Run("rejects renamed column", func(t *testing.T) {
		dst := New("a", "b")
		src := New("a", "c")
		require.NoError(t, src.AppendRow(value.Int(1), value.Int(2)))

		err := dst.AppendTable(src)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeHeaderMismatch))
		assert.Contains(t, err.Error(), `"b" != "c"`)
		assert.Equal(t, 0, dst.Len())
	})

	t.Run("rejects different column count", func(t *testing.T) {
		dst := New("a", "b")
		src := New("a")

		err := dst.AppendTable(src)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeHeaderMismatch))
	})
}

func TestTableEqual(t *testing.T) {
	build := func(cells ...value.Value) *Table {
		tbl := New("a", "b")
		require.NoError(t, tbl.AppendRow(cells...))
		return tbl
	}

	left := build(value.Int(1), value.Str("x"))

	assert.True(t, left.Equal(build(value.Int(1), value.Str("x"))))
	assert.False(t, left.Equal(build(value.Int(2), value.Str("x"))), "cell value differs")
	assert.False(t, left.Equal(build(value.Float(1), value.Str("x"))), "cell kind differs")
	assert.False(t, left.Equal(New("a", "b")), "row count differs")
	assert.False(t, left.Equal(New("a", "b", "c")), "column count differs")

	renamed := New("a", "z")
	require.NoError(t, renamed.AppendRow(value.Int(1), value.Str("x")))
	assert.False(t, left.Equal(renamed), "header name differs")
}
