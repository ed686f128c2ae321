package view

import "github.com/stratumdata/stratum/pkg/value"

// FoldColumn reduces one visible column front to back: the accumulator
// seeds with init and fn absorbs each cell in row order.
func FoldColumn[A any](v *View, name string, init A, fn func(A, value.Value) A) (A, error) {
	j, err := v.columnIndex(name)
	if err != nil {
		return init, err
	}
	acc := init
	n := v.Len()
	for i := 0; i < n; i++ {
		acc = fn(acc, v.At(i, j))
	}
	return acc, nil
}
