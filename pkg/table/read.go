package table

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/stratumdata/stratum/pkg/compression"
	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/logger"
	"github.com/stratumdata/stratum/pkg/mmap"
	"github.com/stratumdata/stratum/pkg/pool"
	"github.com/stratumdata/stratum/pkg/value"
)

// DefaultSeparator is the cell separator used when a caller passes 0.
const DefaultSeparator = ','

// maxLineBytes caps a single line during buffered scans. Mapped scans
// carry no line limit.
const maxLineBytes = 16 << 20

// lineScanner is the subset of bufio.Scanner shared with mmap.LineScanner,
// letting the read path switch between mapped and buffered input without
// duplicating the parse loop.
type lineScanner interface {
	Scan() bool
	Text() string
	Err() error
}

// openLines opens path for line scanning. Uncompressed files are memory
// mapped; compressed files are detected by extension and streamed through
// the matching decompressor. The returned close function releases the
// mapping or the decompressor and the underlying file.
func openLines(path string) (lineScanner, func() error, error) {
	algo := compression.DetectAlgorithm(path)
	if algo == compression.None {
		if r, err := mmap.NewReader(path); err == nil {
			return mmap.NewLineScanner(r), r.Close, nil
		}
		// Mapping fails for empty files, pipes, and platforms without
		// mmap support; buffered reads handle those.
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").
			WithDetail("path", path)
	}
	src, err := compression.NewStreamReader(f, algo)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	closeFn := func() error {
		if cerr := src.Close(); cerr != nil {
			f.Close()
			return cerr
		}
		return f.Close()
	}
	return sc, closeFn, nil
}

// ReadFile loads a table from the file at path. The first line is the
// header; every following line is a data row with exactly one cell per
// header column. Pass 0 as sep to use DefaultSeparator. Compressed files
// are recognized by extension.
func ReadFile(path string, sep rune) (*Table, error) {
	sc, closeFn, err := openLines(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	t, err := readTable(sc, sep)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("loaded table",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", t.NumColumns()))
	return t, nil
}

// ReadString loads a table from in-memory text using the same line and
// cell grammar as ReadFile.
func ReadString(data string, sep rune) (*Table, error) {
	sc := bufio.NewScanner(strings.NewReader(data))
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	return readTable(sc, sep)
}

// AppendFile reads the file at path and appends its rows to t. When
// hasHeader is true the file's first line must carry a header equal to
// t's header; when false every line is parsed as data. The table is left
// unchanged when any line fails to validate.
func (t *Table) AppendFile(path string, sep rune, hasHeader bool) error {
	if sep == 0 {
		sep = DefaultSeparator
	}
	sc, closeFn, err := openLines(path)
	if err != nil {
		return err
	}
	defer closeFn()

	before := t.Len()
	if hasHeader {
		other, err := readTable(sc, sep)
		if err != nil {
			return err
		}
		if err := t.AppendTable(other); err != nil {
			return err
		}
	} else if err := appendLines(t, sc, sep, 0); err != nil {
		return err
	}
	logger.Get().Debug("appended rows",
		zap.String("path", path),
		zap.Int("rows", t.Len()-before))
	return nil
}

func readTable(sc lineScanner, sep rune) (*Table, error) {
	if sep == 0 {
		sep = DefaultSeparator
	}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read header line")
		}
		return nil, errors.New(errors.ErrorTypeInvalidHeader, "file has no valid header: no header line")
	}
	names, err := parseHeader(sc.Text(), sep)
	if err != nil {
		return nil, err
	}
	t := New(names...)
	pool.PutStringSlice(names)
	if err := appendLines(t, sc, sep, 1); err != nil {
		return nil, err
	}
	return t, nil
}

// parseHeader tokenizes the header line. Every cell must parse as plain
// text; a header containing a number, boolean, or group is rejected.
// The returned slice comes from the shared string-slice pool; the caller
// hands it back once the names have been interned.
func parseHeader(line string, sep rune) ([]string, error) {
	cells := value.ScanLine(line, sep)
	if len(cells) == 0 {
		return nil, errors.New(errors.ErrorTypeInvalidHeader, "file has no valid header: header line is empty")
	}
	names := pool.GetStringSlice()
	for i, c := range cells {
		s, err := c.AsStr()
		if err != nil {
			pool.PutStringSlice(names)
			return nil, errors.Newf(errors.ErrorTypeInvalidHeader,
				"file has no valid header: column %d parses as %s, not text", i, c.Kind()).
				WithDetail("cell", c.String())
		}
		names = append(names, s)
	}
	return names, nil
}

// rowBatchPool recycles the pending-row scratch a scan builds up before
// committing. The final append copies the row headers into the table, so
// the batch itself never outlives one call; resetting nils the entries
// so recycled scratch holds no references.
var rowBatchPool = pool.New(
	func() [][]cell { return make([][]cell, 0, 256) },
	func(batch [][]cell) {
		for i := range batch {
			batch[i] = nil
		}
	},
)

// appendLines scans data lines into t, validating arity per line. Rows
// are committed only after every line parses, so a failed scan leaves
// t's row count unchanged. Cells are interned as they are validated; an
// abandoned batch leaves unreferenced arena bytes behind, which is
// harmless. lineNo is the number of lines already consumed from the
// source, so diagnostics count the header.
func appendLines(t *Table, sc lineScanner, sep rune, lineNo int) error {
	names := t.Headers()
	pending := rowBatchPool.Get()[:0]
	defer func() { rowBatchPool.Put(pending) }()
	for sc.Scan() {
		lineNo++
		cells := value.ScanLine(sc.Text(), sep)
		if len(cells) != len(names) {
			return arityError(lineNo, names, cells)
		}
		row := make([]cell, len(cells))
		for i, v := range cells {
			row[i] = encodeCell(v, t.arena)
		}
		pending = append(pending, row)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed while scanning lines")
	}
	t.rows = append(t.rows, pending...)
	return nil
}

// arityError builds the diagnostic for a line whose cell count differs
// from the header, pairing each header name with the cell that landed
// under it and marking the missing side with <none>.
func arityError(lineNo int, names []string, cells []value.Value) *errors.Error {
	relation := "more"
	if len(cells) < len(names) {
		relation = "fewer"
	}
	pairs := make([]string, 0, max(len(names), len(cells)))
	for i := 0; i < len(names) || i < len(cells); i++ {
		name, cell := "<none>", "<none>"
		if i < len(names) {
			name = names[i]
		}
		if i < len(cells) {
			cell = cells[i].String()
		}
		pairs = append(pairs, name+": "+cell)
	}
	return errors.Newf(errors.ErrorTypeArity,
		"line %d contains %s entries than the header: line has %d cells, header has %d columns",
		lineNo, relation, len(cells), len(names)).
		WithDetail("line", lineNo).
		WithDetail("columns", pairs)
}
