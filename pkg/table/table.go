// Package table implements the canonical owned storage for tabular data:
// a header, row-major typed cells, and an append-only arena holding every
// string payload. Tables only grow; rows and header slots are never
// mutated or removed after insertion, which is what lets views reference
// table storage by index without copying or locking.
package table

import (
	"github.com/stratumdata/stratum/pkg/arena"
	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/value"
)

// Table is the owned backing store for a data set. It is not safe for
// concurrent mutation; concurrent readers are safe once loading is done.
type Table struct {
	arena  *arena.Arena
	header []arena.Span
	rows   [][]cell

	// identity maps logical to physical column indices one-to-one. Base
	// views share this slice, so column transforms never allocate a map
	// for the untransformed case.
	identity []int
}

// New creates an empty table with the given column names.
func New(names ...string) *Table {
	t := &Table{
		arena:    arena.New(256),
		header:   make([]arena.Span, len(names)),
		identity: make([]int, len(names)),
	}
	for i, name := range names {
		t.header[i] = t.arena.Intern(name)
		t.identity[i] = i
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return len(t.rows) == 0 }

// NumColumns returns the number of header columns.
func (t *Table) NumColumns() int { return len(t.header) }

// Headers returns a copy of the column names.
func (t *Table) Headers() []string {
	names := make([]string, len(t.header))
	for i, sp := range t.header {
		names[i] = t.arena.Resolve(sp)
	}
	return names
}

// HeaderAt returns the name of the column at physical index i.
func (t *Table) HeaderAt(i int) (string, bool) {
	if i < 0 || i >= len(t.header) {
		return "", false
	}
	return t.arena.Resolve(t.header[i]), true
}

// Identity returns the one-to-one column map shared by base views. The
// returned slice is shared; callers must not modify it.
func (t *Table) Identity() []int { return t.identity }

// CellAt returns the value at the given physical row and column. Both
// indices must be in range; CellAt panics otherwise, matching slice
// indexing semantics. Views perform their own translation and bounds
// reporting before reaching this point.
func (t *Table) CellAt(row, col int) value.Value {
	return t.rows[row][col].decode(t.arena)
}

// RowValues returns the decoded values of the physical row at index i.
// The returned slice is freshly allocated and safe to retain.
func (t *Table) RowValues(i int) []value.Value {
	row := t.rows[i]
	vals := make([]value.Value, len(row))
	for j, c := range row {
		vals[j] = c.decode(t.arena)
	}
	return vals
}

// AppendRow validates and appends a single row. The number of cells must
// match the number of header columns.
func (t *Table) AppendRow(cells ...value.Value) error {
	if len(cells) != len(t.header) {
		return errors.Newf(errors.ErrorTypeArity,
			"row has %d cells, header has %d columns", len(cells), len(t.header))
	}
	row := make([]cell, len(cells))
	for i, v := range cells {
		row[i] = encodeCell(v, t.arena)
	}
	t.rows = append(t.rows, row)
	return nil
}

// AppendRows validates every row against the header before appending any
// of them, so a failed batch leaves the table unchanged.
func (t *Table) AppendRows(rows [][]value.Value) error {
	for i, cells := range rows {
		if len(cells) != len(t.header) {
			return errors.Newf(errors.ErrorTypeArity,
				"row %d has %d cells, header has %d columns", i, len(cells), len(t.header))
		}
	}
	for _, cells := range rows {
		row := make([]cell, len(cells))
		for i, v := range cells {
			row[i] = encodeCell(v, t.arena)
		}
		t.rows = append(t.rows, row)
	}
	return nil
}

// AppendTable appends every row of other to t. The headers must match
// exactly, position by position; a mismatch is reported as a recoverable
// error rather than a panic so callers can merge files defensively.
func (t *Table) AppendTable(other *Table) error {
	if len(t.header) != len(other.header) {
		return errors.Newf(errors.ErrorTypeHeaderMismatch,
			"cannot append table with %d columns to table with %d columns",
			len(other.header), len(t.header)).
			WithDetail("expected", t.Headers()).
			WithDetail("actual", other.Headers())
	}
	for i := range t.header {
		want := t.arena.Resolve(t.header[i])
		got := other.arena.Resolve(other.header[i])
		if want != got {
			return errors.Newf(errors.ErrorTypeHeaderMismatch,
				"header mismatch at column %d: %q != %q", i, want, got).
				WithDetail("expected", t.Headers()).
				WithDetail("actual", other.Headers())
		}
	}
	for _, row := range other.rows {
		copied := make([]cell, len(row))
		for i, c := range row {
			copied[i] = copyCell(c, other.arena, t.arena)
		}
		t.rows = append(t.rows, copied)
	}
	return nil
}

// Equal reports whether two tables hold the same header and the same
// cell values in the same order.
func (t *Table) Equal(other *Table) bool {
	if len(t.header) != len(other.header) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.header {
		if t.arena.Resolve(t.header[i]) != other.arena.Resolve(other.header[i]) {
			return false
		}
	}
	for r := range t.rows {
		for c := range t.rows[r] {
			if !t.rows[r][c].decode(t.arena).Equal(other.rows[r][c].decode(other.arena)) {
				return false
			}
		}
	}
	return true
}
