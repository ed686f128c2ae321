// Package render turns views into aligned text listings for terminals
// and logs. Listings prepend an index column carrying each row's
// physical position in the backing table, so sorted or filtered views
// show where every row came from.
package render

import (
	"io"
	"strconv"
	"unicode/utf8"

	stringpool "github.com/stratumdata/stratum/pkg/strings"
	"github.com/stratumdata/stratum/pkg/view"
)

// indexHeader labels the provenance column.
const indexHeader = "#"

// columnGap is the minimum spacing between columns.
const columnGap = 2

// Sprint renders the view as an aligned text table.
func Sprint(v *view.View) string {
	sb := stringpool.GetBuilder(stringpool.Large)
	defer stringpool.PutBuilder(sb, stringpool.Large)
	write(sb, v)
	return stringpool.Clone(sb.String())
}

// Fprint renders the view to w.
func Fprint(w io.Writer, v *view.View) error {
	sb := stringpool.GetBuilder(stringpool.Large)
	defer stringpool.PutBuilder(sb, stringpool.Large)
	write(sb, v)
	_, err := w.Write(sb.Bytes())
	return err
}

// write lays out the header row and every visible row. Column widths
// fit the widest cell, counted in runes, plus the gap; cells are
// left-aligned and every column is padded, the last one included.
func write(sb *stringpool.Builder, v *view.View) {
	nRows, nCols := v.Len(), v.NumColumns()

	lines := make([][]string, nRows+1)
	header := make([]string, nCols+1)
	header[0] = indexHeader
	for j := 0; j < nCols; j++ {
		header[j+1], _ = v.HeaderAt(j)
	}
	lines[0] = header
	for i := 0; i < nRows; i++ {
		r := v.Row(i)
		line := make([]string, nCols+1)
		line[0] = strconv.Itoa(r.Index())
		for j := 0; j < nCols; j++ {
			line[j+1] = r.At(j).String()
		}
		lines[i+1] = line
	}

	widths := make([]int, nCols+1)
	for _, line := range lines {
		for j, cell := range line {
			if n := utf8.RuneCountInString(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}

	for _, line := range lines {
		for j, cell := range line {
			sb.WriteString(cell)
			for pad := widths[j] + columnGap - utf8.RuneCountInString(cell); pad > 0; pad-- {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
}
