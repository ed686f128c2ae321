// Package stratum provides an in-memory engine for tabular data built
// around immutable, reference-counted layered views.
//
// A table owns its rows; every other shape of the data (reordered,
// trimmed, sorted, filtered, regrouped, with columns hidden or
// rearranged) is a view: a thin layer of row and column indices over a
// parent. Layers stack, so a sorted, reversed, trimmed selection of
// columns is three small index arrays, not three copies of the data.
//
// # Architecture
//
// Stratum rests on three structural decisions:
//
// 1. Append-only tables: rows and headers are never mutated in place,
// so any number of views can reference a table by index without copies
// or locks.
//
// 2. Interned text: all text lives in a shared append-only arena and
// cells hold span handles into it, keeping cells small and text
// deduplicated.
//
// 3. Typed cells: every ingested cell is inferred into one of seven
// kinds (text, integer, float, boolean, timestamp, point, list) at
// read time, so downstream operations work on values, not strings.
//
// # Quick Start
//
// Read a delimited file, reshape it, and print the result:
//
//	import (
//	    "os"
//
//	    "github.com/stratumdata/stratum/pkg/render"
//	    "github.com/stratumdata/stratum/pkg/table"
//	    "github.com/stratumdata/stratum/pkg/view"
//	)
//
//	tbl, err := table.ReadFile("sales.csv", 0)
//	if err != nil {
//	    // ...
//	}
//
//	v := view.New(tbl)
//	defer v.Release()
//
//	top := view.SortBy(v, func(r view.Row) string {
//	    val, _ := r.Get("city")
//	    return val.String()
//	}).Head(10)
//	defer top.Release()
//
//	render.Fprint(os.Stdout, top)
//
// # Key Packages
//
//	pkg/value       - Tagged cell model with ordered text inference
//	pkg/arena       - Append-only string arena with span handles
//	pkg/table       - Base tables: append, validate, read delimited text
//	pkg/view        - Immutable refcounted layered views and transforms
//	pkg/render      - Aligned listings with physical row indices
//	pkg/formats     - CSV, JSON, Arrow IPC and Avro OCF interchange
//	pkg/config      - YAML profiles for the command line tools
//	pkg/compression - Transparent stream compression by file extension
//	pkg/errors      - Structured error handling
//	pkg/logger      - Structured logging
//
// # Ingestion
//
// Delimited lines are scanned with a recursive grammar: six grouping
// pairs protect separators inside cells, groups ingest as lists, and a
// group around a single cell unwraps to that cell. Each cell is then
// inferred in a fixed order (boolean, integer, float, timestamp,
// point) with text as the fallback, so inference never guesses.
//
// # Views
//
// Views are immutable and reference counted. Transforms return new
// views and leave the source untouched; Clone shares the same view
// cheaply; Release returns a handle. Materialize collapses any stack
// of layers back into a standalone table, stealing the backing table
// outright when the view is the sole holder of an untransformed base.
//
// # Command Line
//
// The stratum CLI wraps the engine for quick inspection and
// conversion:
//
//	stratum view sales.csv --sort total --reverse --head 10
//	stratum group sales.csv --by city
//	stratum stats sales.csv
//	stratum convert sales.csv sales.arrow
package stratum
