// Package view implements immutable, reference-counted windows over
// tables. A view never copies cells: it is a chain of index layers
// ending at a base table, and every transformation stacks one more
// layer. Row layers remap line order, column layers remap the visible
// header, and resolving a cell walks the row layers once while column
// lookups stay O(1) because each layer carries its columns already
// composed down to physical table indices.
//
// Views are handles. Clone raises the reference count and returns the
// same view; Release drops a reference and unwinds into the parent
// chain when a layer dies. The count only matters for Materialize,
// which can hand back the underlying table without copying when a base
// view is the sole owner.
package view

import (
	"sync/atomic"

	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
)

type kind uint8

const (
	kindBase kind = iota
	kindLines
	kindColumns
)

// View is a window over a table. Views are immutable: transformations
// return new views layered on the receiver, and a view stays valid
// until its last reference is released. Construct views with New or a
// transformation; the zero value is not usable.
type View struct {
	refs   int64
	kind   kind
	table  *table.Table
	parent *View

	// rows maps logical to parent row indices; nil except for line
	// layers. cols holds the physical table column for every visible
	// column and is set on every layer.
	rows []int
	cols []int
}

// New wraps a table in a base view without copying anything.
func New(t *table.Table) *View {
	return &View{refs: 1, kind: kindBase, table: t, cols: t.Identity()}
}

// Clone returns the same view with its reference count raised. Clones
// are handles, not copies: releasing one leaves the others valid.
func (v *View) Clone() *View {
	v.retain()
	return v
}

// Release drops one reference. When a layer's count reaches zero its
// parent loses a reference too, unwinding the chain.
func (v *View) Release() {
	for n := v; n != nil; n = n.parent {
		if atomic.AddInt64(&n.refs, -1) > 0 {
			return
		}
	}
}

func (v *View) retain() { atomic.AddInt64(&v.refs, 1) }

// layerLines stacks a row map over v. The indices are relative to v's
// visible order.
func (v *View) layerLines(rows []int) *View {
	v.retain()
	return &View{refs: 1, kind: kindLines, table: v.table, parent: v, rows: rows, cols: v.cols}
}

// layerColumns stacks a column map over v. The indices are physical,
// composed by the caller from v.cols.
func (v *View) layerColumns(cols []int) *View {
	v.retain()
	return &View{refs: 1, kind: kindColumns, table: v.table, parent: v, cols: cols}
}

// Len returns the number of visible rows.
func (v *View) Len() int {
	for n := v; ; n = n.parent {
		switch n.kind {
		case kindLines:
			return len(n.rows)
		case kindBase:
			return n.table.Len()
		}
	}
}

// IsEmpty reports whether the view shows no rows.
func (v *View) IsEmpty() bool { return v.Len() == 0 }

// NumColumns returns the number of visible columns.
func (v *View) NumColumns() int { return len(v.cols) }

// Headers returns the visible column names in view order.
func (v *View) Headers() []string {
	names := make([]string, len(v.cols))
	for j, c := range v.cols {
		names[j], _ = v.table.HeaderAt(c)
	}
	return names
}

// HeaderAt returns the name of the visible column at index j.
func (v *View) HeaderAt(j int) (string, bool) {
	if j < 0 || j >= len(v.cols) {
		return "", false
	}
	return v.table.HeaderAt(v.cols[j])
}

// At returns the cell at visible row i, visible column j. Both indices
// must be in range; At panics otherwise, like slice indexing.
func (v *View) At(i, j int) value.Value {
	return v.table.CellAt(v.resolveRow(i), v.cols[j])
}

// resolveRow maps a visible row index to its physical table row by
// walking the line layers. Column layers pass rows through untouched.
func (v *View) resolveRow(i int) int {
	for n := v; ; n = n.parent {
		switch n.kind {
		case kindLines:
			i = n.rows[i]
		case kindBase:
			return i
		}
	}
}

// columnIndex finds the first visible column with the given name.
func (v *View) columnIndex(name string) (int, error) {
	for j, c := range v.cols {
		if n, _ := v.table.HeaderAt(c); n == name {
			return j, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeColumnNotFound, "no column named %q", name)
}
