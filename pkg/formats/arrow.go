package formats

import (
	"bytes"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
)

// arrowWriter emits the Arrow IPC file format, batching rows into
// record batches. Scalar column kinds map onto native Arrow types;
// points, lists and mixed columns are carried as display text.
type arrowWriter struct {
	cw      *countingWriter
	cfg     *WriterConfig
	schema  *arrow.Schema
	file    *ipc.FileWriter
	builder *array.RecordBuilder
	pending int
	rows    int64
}

func newArrowWriter(w io.Writer, cfg *WriterConfig) (*arrowWriter, error) {
	fields := make([]arrow.Field, len(cfg.Headers))
	for i, name := range cfg.Headers {
		fields[i] = arrow.Field{Name: name, Type: arrowType(cfg.Kinds[i])}
	}
	schema := arrow.NewSchema(fields, nil)

	mem := memory.NewGoAllocator()
	cw := &countingWriter{w: w}
	file, err := ipc.NewFileWriter(cw, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to create Arrow writer")
	}

	return &arrowWriter{
		cw:      cw,
		cfg:     cfg,
		schema:  schema,
		file:    file,
		builder: array.NewRecordBuilder(mem, schema),
	}, nil
}

func (aw *arrowWriter) WriteRow(cells []value.Value) error {
	if len(cells) != len(aw.cfg.Headers) {
		return errors.Newf(errors.ErrorTypeArity,
			"row has %d cells, writer has %d columns", len(cells), len(aw.cfg.Headers))
	}

	for i, cell := range cells {
		appendArrowCell(aw.builder.Field(i), cell)
	}
	aw.pending++
	aw.rows++

	if aw.pending >= aw.cfg.BatchSize {
		return aw.flushBatch()
	}
	return nil
}

func (aw *arrowWriter) Flush() error { return aw.flushBatch() }

func (aw *arrowWriter) Close() error {
	if err := aw.flushBatch(); err != nil {
		return err
	}
	aw.builder.Release()
	if err := aw.file.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to close Arrow writer")
	}
	return nil
}

func (aw *arrowWriter) Format() Format { return Arrow }

func (aw *arrowWriter) RowsWritten() int64 { return aw.rows }

func (aw *arrowWriter) BytesWritten() int64 { return aw.cw.n }

func (aw *arrowWriter) flushBatch() error {
	if aw.pending == 0 {
		return nil
	}
	record := aw.builder.NewRecord()
	defer record.Release()
	if err := aw.file.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to write record batch")
	}
	aw.pending = 0
	return nil
}

// arrowType maps an export column kind to its Arrow type. Timestamps
// use second resolution, matching the engine's precision.
func arrowType(k value.Kind) arrow.DataType {
	switch k {
	case value.KindInteger:
		return arrow.PrimitiveTypes.Int32
	case value.KindFloat:
		return arrow.PrimitiveTypes.Float32
	case value.KindBoolean:
		return arrow.FixedWidthTypes.Boolean
	case value.KindTimestamp:
		return arrow.FixedWidthTypes.Timestamp_s
	default:
		return arrow.BinaryTypes.String
	}
}

// appendArrowCell feeds one cell into the column's builder. A cell that
// does not fit the column type becomes null; string columns take any
// cell's display form, which is what makes them the mixed fallback.
func appendArrowCell(b array.Builder, cell value.Value) {
	switch b := b.(type) {
	case *array.StringBuilder:
		b.Append(cell.String())
	case *array.Int32Builder:
		if v, err := cell.AsInt(); err == nil {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	case *array.Float32Builder:
		if v, err := cell.AsFloat(); err == nil {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	case *array.BooleanBuilder:
		if v, err := cell.AsBool(); err == nil {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	case *array.TimestampBuilder:
		if ts, err := cell.AsTime(); err == nil {
			b.Append(arrow.Timestamp(ts.Time().Unix()))
		} else {
			b.AppendNull()
		}
	default:
		b.AppendNull()
	}
}

// readArrow loads an Arrow IPC file back into a table.
func readArrow(data []byte) (*table.Table, error) {
	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to open Arrow file")
	}
	defer fr.Close()

	schema := fr.Schema()
	names := make([]string, len(schema.Fields()))
	for i := range names {
		names[i] = schema.Field(i).Name
	}
	t := table.New(names...)

	for b := 0; b < fr.NumRecords(); b++ {
		record, err := fr.Record(b)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read record batch")
		}
		nRows := int(record.NumRows())
		nCols := int(record.NumCols())
		for i := 0; i < nRows; i++ {
			row := make([]value.Value, nCols)
			for j := 0; j < nCols; j++ {
				row[j] = arrowCellValue(record.Column(j), i)
			}
			if err := t.AppendRow(row...); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// arrowCellValue lifts one Arrow array element back into a cell. Nulls
// and unsupported array types surface as empty text.
func arrowCellValue(col arrow.Array, i int) value.Value {
	if col.IsNull(i) {
		return value.Str("")
	}
	switch c := col.(type) {
	case *array.String:
		return value.Str(c.Value(i))
	case *array.Int32:
		return value.Int(c.Value(i))
	case *array.Float32:
		return value.Float(c.Value(i))
	case *array.Boolean:
		return value.Bool(c.Value(i))
	case *array.Timestamp:
		return value.Time(value.FromTime(time.Unix(int64(c.Value(i)), 0).UTC()))
	default:
		return value.Str("")
	}
}
