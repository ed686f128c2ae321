package formats

import (
	"bytes"
	"io"
	"time"

	"github.com/linkedin/goavro/v2"

	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/json"
	stringpool "github.com/stratumdata/stratum/pkg/strings"
	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
)

// avroWriter emits an Avro object container file. Scalar column kinds
// map onto native Avro types (timestamps become unix seconds as long);
// points, lists and mixed columns are carried as display text. Column
// names that are not valid Avro identifiers are rewritten, so headers
// read back from an Avro file may differ from the exported view.
type avroWriter struct {
	cw     *countingWriter
	cfg    *WriterConfig
	ocf    *goavro.OCFWriter
	names  []string
	buffer []map[string]interface{}
	rows   int64
}

func newAvroWriter(w io.Writer, cfg *WriterConfig) (*avroWriter, error) {
	names := avroFieldNames(cfg.Headers)
	schema, err := avroSchema(names, cfg.Kinds)
	if err != nil {
		return nil, err
	}
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to create Avro codec")
	}

	cw := &countingWriter{w: w}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               cw,
		Codec:           codec,
		CompressionName: avroCompression(cfg.AvroCodec),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to create Avro writer")
	}

	return &avroWriter{cw: cw, cfg: cfg, ocf: ocf, names: names}, nil
}

func (aw *avroWriter) WriteRow(cells []value.Value) error {
	if len(cells) != len(aw.cfg.Headers) {
		return errors.Newf(errors.ErrorTypeArity,
			"row has %d cells, writer has %d columns", len(cells), len(aw.cfg.Headers))
	}

	native := make(map[string]interface{}, len(cells))
	for i, cell := range cells {
		native[aw.names[i]] = avroNative(cell, aw.cfg.Kinds[i])
	}
	aw.buffer = append(aw.buffer, native)
	aw.rows++

	if len(aw.buffer) >= aw.cfg.BatchSize {
		return aw.flushBatch()
	}
	return nil
}

func (aw *avroWriter) Flush() error { return aw.flushBatch() }

func (aw *avroWriter) Close() error { return aw.flushBatch() }

func (aw *avroWriter) Format() Format { return Avro }

func (aw *avroWriter) RowsWritten() int64 { return aw.rows }

func (aw *avroWriter) BytesWritten() int64 { return aw.cw.n }

func (aw *avroWriter) flushBatch() error {
	if len(aw.buffer) == 0 {
		return nil
	}
	batch := make([]interface{}, len(aw.buffer))
	for i, native := range aw.buffer {
		batch[i] = native
	}
	if err := aw.ocf.Append(batch); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to append Avro block")
	}
	aw.buffer = aw.buffer[:0]
	return nil
}

// avroSchema builds the record schema document for the export columns.
func avroSchema(names []string, kinds []value.Kind) (string, error) {
	fields := make([]map[string]interface{}, len(names))
	for i, name := range names {
		fields[i] = map[string]interface{}{
			"name": name,
			"type": avroTypeName(kinds[i]),
		}
	}
	doc, err := json.Marshal(map[string]interface{}{
		"type":   "record",
		"name":   "row",
		"fields": fields,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFormat, "failed to encode Avro schema")
	}
	return string(doc), nil
}

func avroTypeName(k value.Kind) string {
	switch k {
	case value.KindInteger:
		return "int"
	case value.KindFloat:
		return "float"
	case value.KindBoolean:
		return "boolean"
	case value.KindTimestamp:
		return "long"
	default:
		return "string"
	}
}

// avroNative lowers a cell to the Go value goavro expects for the
// column's Avro type, falling back to display text on a kind mismatch.
func avroNative(cell value.Value, k value.Kind) interface{} {
	switch k {
	case value.KindInteger:
		if v, err := cell.AsInt(); err == nil {
			return v
		}
	case value.KindFloat:
		if v, err := cell.AsFloat(); err == nil {
			return v
		}
	case value.KindBoolean:
		if v, err := cell.AsBool(); err == nil {
			return v
		}
	case value.KindTimestamp:
		if ts, err := cell.AsTime(); err == nil {
			return ts.Time().Unix()
		}
	}
	return cell.String()
}

// avroFieldNames rewrites headers into valid Avro identifiers:
// [A-Za-z_][A-Za-z0-9_]*, deduplicated by column position on collision.
func avroFieldNames(headers []string) []string {
	names := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := sanitizeAvroName(h)
		if seen[name] {
			name = name + "_" + stringpool.Sprintf("%d", i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

func sanitizeAvroName(s string) string {
	if s == "" {
		return "_"
	}
	sb := stringpool.GetBuilder(stringpool.Small)
	defer stringpool.PutBuilder(sb, stringpool.Small)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			sb.WriteByte(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte('_')
		}
	}
	return stringpool.Clone(sb.String())
}

func avroCompression(name string) string {
	switch name {
	case "deflate":
		return goavro.CompressionDeflateLabel
	case "null", "none":
		return goavro.CompressionNullLabel
	default:
		return goavro.CompressionSnappyLabel
	}
}

// readAvro loads an Avro object container file back into a table. Field
// order follows the writer schema, so a stratum-written file keeps its
// column order.
func readAvro(data []byte) (*table.Table, error) {
	ocf, err := goavro.NewOCFReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to open Avro file")
	}

	var doc struct {
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(ocf.Codec().Schema()), &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to decode Avro schema")
	}
	names := make([]string, len(doc.Fields))
	for i, f := range doc.Fields {
		names[i] = f.Name
	}
	t := table.New(names...)

	for ocf.Scan() {
		datum, err := ocf.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read Avro record")
		}
		fields, ok := datum.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeFormat, "Avro datum is %T, not a record", datum)
		}
		row := make([]value.Value, len(names))
		for i, name := range names {
			row[i] = avroCellValue(fields[name])
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// avroCellValue lifts a goavro native value back into a cell. Longs are
// read as unix-second timestamps, matching what the writer emits.
func avroCellValue(datum interface{}) value.Value {
	switch x := datum.(type) {
	case string:
		return value.Str(x)
	case int32:
		return value.Int(x)
	case float32:
		return value.Float(x)
	case bool:
		return value.Bool(x)
	case int64:
		return value.Time(value.FromTime(time.Unix(x, 0).UTC()))
	case nil:
		return value.Str("")
	default:
		return value.Str(stringpool.Sprintf("%v", x))
	}
}
