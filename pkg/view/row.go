package view

import "github.com/stratumdata/stratum/pkg/value"

// Row is a borrowed window over one visible row. Rows are cheap value
// types tied to their view and stay valid as long as the view does.
type Row struct {
	view *View
	line int
	phys int
}

// Row returns the row at visible index i.
func (v *View) Row(i int) Row {
	return Row{view: v, line: i, phys: v.resolveRow(i)}
}

// Len returns the number of cells in the row.
func (r Row) Len() int { return len(r.view.cols) }

// At returns the cell under visible column j. The index must be in
// range; At panics otherwise, like slice indexing.
func (r Row) At(j int) value.Value {
	return r.view.table.CellAt(r.phys, r.view.cols[j])
}

// Get returns the cell under the first visible column with the given
// name.
func (r Row) Get(name string) (value.Value, error) {
	j, err := r.view.columnIndex(name)
	if err != nil {
		return value.Value{}, err
	}
	return r.At(j), nil
}

// HeaderName returns the name of the column at index j.
func (r Row) HeaderName(j int) (string, bool) { return r.view.HeaderAt(j) }

// Index returns the physical row index in the backing table. Rendered
// listings show this number, so sorted and filtered views reveal where
// each row came from.
func (r Row) Index() int { return r.phys }

// Values returns the row's cells in visible column order.
func (r Row) Values() []value.Value {
	vals := make([]value.Value, len(r.view.cols))
	for j := range r.view.cols {
		vals[j] = r.At(j)
	}
	return vals
}

// Iter walks a view's rows from either end. Next and Prev share one
// range, so mixing them never yields a row twice.
type Iter struct {
	view  *View
	front int
	back  int
}

// Iter returns a double-ended row iterator over the view.
func (v *View) Iter() *Iter {
	return &Iter{view: v, back: v.Len()}
}

// Len returns the number of rows not yet consumed from either end.
func (it *Iter) Len() int { return it.back - it.front }

// Next consumes and returns the next row from the front.
func (it *Iter) Next() (Row, bool) {
	if it.front >= it.back {
		return Row{}, false
	}
	r := it.view.Row(it.front)
	it.front++
	return r, true
}

// Prev consumes and returns the next row from the back.
func (it *Iter) Prev() (Row, bool) {
	if it.front >= it.back {
		return Row{}, false
	}
	it.back--
	return it.view.Row(it.back), true
}
