package view

import (
	"cmp"
	"slices"

	"github.com/stratumdata/stratum/pkg/errors"
)

// Head returns a view of the first n rows. When n covers the whole view
// the receiver is cloned instead of layered.
func (v *View) Head(n int) *View {
	total := v.Len()
	if n >= total {
		return v.Clone()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return v.layerLines(rows)
}

// Tail returns a view of the last n rows, preserving their order.
func (v *View) Tail(n int) *View {
	total := v.Len()
	if n >= total {
		return v.Clone()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = total - n + i
	}
	return v.layerLines(rows)
}

// Range returns a view of the rows in [start, end). An identity range
// clones the receiver; a range reaching outside the view is a range
// error.
func (v *View) Range(start, end int) (*View, error) {
	total := v.Len()
	if start < 0 || start > end || end > total {
		return nil, errors.Newf(errors.ErrorTypeRange,
			"range [%d, %d) out of bounds for view of %d rows", start, end, total)
	}
	if start == 0 && end == total {
		return v.Clone(), nil
	}
	rows := make([]int, end-start)
	for i := range rows {
		rows[i] = start + i
	}
	return v.layerLines(rows), nil
}

// Reverse returns a view with the row order flipped.
func (v *View) Reverse() *View {
	n := v.Len()
	rows := make([]int, n)
	for i := range rows {
		rows[i] = n - 1 - i
	}
	return v.layerLines(rows)
}

// SortBy returns a view with rows ordered by the extracted key. The
// sort is stable: rows with equal keys keep their relative order. Keys
// are extracted once per row before sorting.
func SortBy[K cmp.Ordered](v *View, key func(Row) K) *View {
	n := v.Len()
	type keyed struct {
		idx int
		key K
	}
	ks := make([]keyed, n)
	for i := 0; i < n; i++ {
		ks[i] = keyed{idx: i, key: key(v.Row(i))}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int { return cmp.Compare(a.key, b.key) })
	rows := make([]int, n)
	for i, k := range ks {
		rows[i] = k.idx
	}
	return v.layerLines(rows)
}

// Filter returns a view of the rows the predicate keeps, in order.
func (v *View) Filter(keep func(Row) bool) *View {
	var rows []int
	n := v.Len()
	for i := 0; i < n; i++ {
		if keep(v.Row(i)) {
			rows = append(rows, i)
		}
	}
	return v.layerLines(rows)
}

// DropColumnAt hides the visible column at index i.
func (v *View) DropColumnAt(i int) (*View, error) {
	if i < 0 || i >= len(v.cols) {
		return nil, errors.Newf(errors.ErrorTypeColumnNotFound,
			"column index %d out of range for %d columns", i, len(v.cols))
	}
	cols := make([]int, 0, len(v.cols)-1)
	cols = append(cols, v.cols[:i]...)
	cols = append(cols, v.cols[i+1:]...)
	return v.layerColumns(cols), nil
}

// DropColumn hides the first visible column with the given name.
func (v *View) DropColumn(name string) (*View, error) {
	j, err := v.columnIndex(name)
	if err != nil {
		return nil, err
	}
	return v.DropColumnAt(j)
}

// Select returns a view showing exactly the named columns, in the given
// order. Repeating a name repeats the column.
func (v *View) Select(names ...string) (*View, error) {
	cols := make([]int, len(names))
	for i, name := range names {
		j, err := v.columnIndex(name)
		if err != nil {
			return nil, err
		}
		cols[i] = v.cols[j]
	}
	return v.layerColumns(cols), nil
}

// SelectAt is Select by visible column indices.
func (v *View) SelectAt(idxs ...int) (*View, error) {
	cols := make([]int, len(idxs))
	for i, j := range idxs {
		if j < 0 || j >= len(v.cols) {
			return nil, errors.Newf(errors.ErrorTypeColumnNotFound,
				"column index %d out of range for %d columns", j, len(v.cols))
		}
		cols[i] = v.cols[j]
	}
	return v.layerColumns(cols), nil
}
