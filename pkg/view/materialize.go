package view

import (
	"sync/atomic"

	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
)

// Materialize flattens the view into an owned table and releases the
// view. A sole-owner base view hands back its table without copying a
// single cell; anything layered, or shared through clones, rebuilds
// rows in visible order under the visible header. The view must not be
// used after Materialize returns.
func (v *View) Materialize() *table.Table {
	if v.kind == kindBase && atomic.LoadInt64(&v.refs) == 1 {
		t := v.table
		v.Release()
		return t
	}

	t := table.New(v.Headers()...)
	n := v.Len()
	rows := make([][]value.Value, n)
	for i := 0; i < n; i++ {
		row := make([]value.Value, len(v.cols))
		for j := range v.cols {
			row[j] = v.At(i, j)
		}
		rows[i] = row
	}
	// arity matches the header by construction
	_ = t.AppendRows(rows)
	v.Release()
	return t
}
