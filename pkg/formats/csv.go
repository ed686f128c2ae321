package formats

import (
	"io"
	"strconv"
	"strings"

	"github.com/stratumdata/stratum/pkg/errors"
	stringpool "github.com/stratumdata/stratum/pkg/strings"
	"github.com/stratumdata/stratum/pkg/value"
)

// csvWriter emits the engine's own line grammar: a header line followed
// by one separator-delimited line per row. Cells are spelled in their
// re-ingestable form where one exists (timestamps as date-time literals,
// points as two floats) rather than their display form.
type csvWriter struct {
	cw   *countingWriter
	cfg  *WriterConfig
	rows int64
}

func newCSVWriter(w io.Writer, cfg *WriterConfig) (*csvWriter, error) {
	cv := &csvWriter{cw: &countingWriter{w: w}, cfg: cfg}

	sb := stringpool.GetBuilder(stringpool.Small)
	defer stringpool.PutBuilder(sb, stringpool.Small)
	for i, name := range cfg.Headers {
		if i > 0 {
			sb.WriteString(string(cfg.Separator))
		}
		sb.WriteString(quoteText(name, cfg.Separator))
	}
	sb.WriteByte('\n')
	if _, err := cv.cw.Write(sb.Bytes()); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to write header line")
	}
	return cv, nil
}

func (cv *csvWriter) WriteRow(cells []value.Value) error {
	if len(cells) != len(cv.cfg.Headers) {
		return errors.Newf(errors.ErrorTypeArity,
			"row has %d cells, writer has %d columns", len(cells), len(cv.cfg.Headers))
	}

	sb := stringpool.GetBuilder(stringpool.Small)
	defer stringpool.PutBuilder(sb, stringpool.Small)
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(string(cv.cfg.Separator))
		}
		sb.WriteString(lineCell(cell, cv.cfg.Separator))
	}
	sb.WriteByte('\n')
	if _, err := cv.cw.Write(sb.Bytes()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row")
	}
	cv.rows++
	return nil
}

func (cv *csvWriter) Flush() error { return nil }

func (cv *csvWriter) Close() error { return nil }

func (cv *csvWriter) Format() Format { return CSV }

func (cv *csvWriter) RowsWritten() int64 { return cv.rows }

func (cv *csvWriter) BytesWritten() int64 { return cv.cw.n }

// lineCell spells one cell in the line grammar. Timestamps use the
// "2006-01-02 15:04:05" literal and points use two space-separated
// floats so that re-ingesting the line restores the original kind;
// lists wrap their elements, and plain text is quoted when it would
// split on the separator.
func lineCell(cell value.Value, sep rune) string {
	switch cell.Kind() {
	case value.KindTimestamp:
		return cell.MustTime().Time().Format("2006-01-02 15:04:05")
	case value.KindPoint:
		pt := cell.MustXY()
		return strconv.FormatFloat(float64(pt.X), 'f', -1, 32) +
			" " +
			strconv.FormatFloat(float64(pt.Y), 'f', -1, 32)
	case value.KindList:
		elems := cell.MustList()
		sb := stringpool.GetBuilder(stringpool.Small)
		defer stringpool.PutBuilder(sb, stringpool.Small)
		sb.WriteByte('[')
		for i, e := range elems {
			if i > 0 {
				sb.WriteString(string(sep))
			}
			sb.WriteString(lineCell(e, sep))
		}
		sb.WriteByte(']')
		return stringpool.Clone(sb.String())
	case value.KindString:
		return quoteText(cell.MustStr(), sep)
	default:
		return cell.String()
	}
}

// quoteText wraps text in double quotes when writing it raw would break
// the line apart: it contains the separator, carries edge whitespace the
// tokenizer would strip, or starts with a grouping symbol. Text that
// also contains a double quote stays raw; the grammar has no escape for
// it.
func quoteText(s string, sep rune) string {
	needs := strings.ContainsRune(s, sep) ||
		strings.TrimSpace(s) != s ||
		(len(s) > 0 && strings.IndexByte(`({<["'`, s[0]) >= 0)
	if !needs || strings.ContainsRune(s, '"') {
		return s
	}
	return `"` + s + `"`
}
