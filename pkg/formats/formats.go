// Package formats exports views into interchange formats and loads them
// back into tables. Delimited text reuses the engine's own line grammar,
// JSON mirrors the tagged table document, and Arrow IPC and Avro OCF map
// uniformly typed columns onto native columnar types with text as the
// fallback for mixed columns.
//
// Only JSON round-trips every cell kind exactly. Delimited text cannot
// express payloads its grammar has no spelling for (text containing the
// separator, nested same-delimiter lists), and the columnar formats
// carry points and lists as display text.
package formats

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/stratumdata/stratum/pkg/compression"
	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/json"
	"github.com/stratumdata/stratum/pkg/logger"
	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
	"github.com/stratumdata/stratum/pkg/view"
)

// Format identifies an interchange format.
type Format string

const (
	// CSV is separator-delimited text in the engine's line grammar.
	CSV Format = "csv"
	// JSON is the tagged table document.
	JSON Format = "json"
	// Arrow is the Arrow IPC file format.
	Arrow Format = "arrow"
	// Avro is the Avro object container file format.
	Avro Format = "avro"
)

// DetectFormat infers the format from a file extension, looking through
// a trailing compression extension ("table.csv.gz" is CSV).
func DetectFormat(path string) (Format, bool) {
	if compression.DetectAlgorithm(path) != compression.None {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return CSV, true
	case ".json":
		return JSON, true
	case ".arrow":
		return Arrow, true
	case ".avro":
		return Avro, true
	default:
		return "", false
	}
}

// DetectSeparator returns the cell separator implied by a file
// extension: tab for ".tsv", the default comma otherwise. A trailing
// compression extension is looked through like DetectFormat.
func DetectSeparator(path string) rune {
	if compression.DetectAlgorithm(path) != compression.None {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return table.DefaultSeparator
}

// Writer emits rows into one output format. Writers are not safe for
// concurrent use.
type Writer interface {
	// WriteRow appends one row; the cell count must match the headers.
	WriteRow(cells []value.Value) error
	// Flush forces buffered rows out to the underlying writer.
	Flush() error
	// Close flushes and finalizes the output. Close does not close the
	// underlying writer.
	Close() error
	// Format returns the output format.
	Format() Format
	// RowsWritten returns the number of rows accepted so far.
	RowsWritten() int64
	// BytesWritten returns the bytes emitted so far.
	BytesWritten() int64
}

// WriterConfig configures format writers.
type WriterConfig struct {
	Format  Format
	Headers []string
	// Kinds carries the per-column export kind; text doubles as the
	// mixed-column fallback. Nil means all text. ExportView fills this
	// from the view being exported.
	Kinds []value.Kind
	// Separator applies to delimited output; 0 means the default comma.
	Separator rune
	// AvroCodec selects OCF block compression: snappy, deflate or null.
	AvroCodec string
	// BatchSize is the number of rows per Arrow record batch.
	BatchSize int
}

func (c *WriterConfig) withDefaults() *WriterConfig {
	out := *c
	if out.Separator == 0 {
		out.Separator = table.DefaultSeparator
	}
	if out.AvroCodec == "" {
		out.AvroCodec = "snappy"
	}
	if out.BatchSize <= 0 {
		out.BatchSize = 1024
	}
	if out.Kinds == nil {
		out.Kinds = make([]value.Kind, len(out.Headers))
	}
	return &out
}

// NewWriter creates a writer for the configured format on top of w.
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil || len(config.Headers) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "writer config needs at least one header column")
	}
	cfg := config.withDefaults()
	if len(cfg.Kinds) != len(cfg.Headers) {
		return nil, errors.Newf(errors.ErrorTypeConfig,
			"writer config has %d column kinds for %d headers", len(cfg.Kinds), len(cfg.Headers))
	}

	switch cfg.Format {
	case CSV:
		return newCSVWriter(w, cfg)
	case JSON:
		return newJSONWriter(w, cfg)
	case Arrow:
		return newArrowWriter(w, cfg)
	case Avro:
		return newAvroWriter(w, cfg)
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported output format: %q", cfg.Format)
	}
}

// ColumnKinds resolves each visible column to its export kind: a column
// whose cells all share one kind exports natively, anything mixed or
// empty falls back to text.
func ColumnKinds(v *view.View) []value.Kind {
	kinds := make([]value.Kind, v.NumColumns())
	n := v.Len()
	for j := range kinds {
		kinds[j] = value.KindString
		if n == 0 {
			continue
		}
		k := v.At(0, j).Kind()
		uniform := true
		for i := 1; i < n; i++ {
			if v.At(i, j).Kind() != k {
				uniform = false
				break
			}
		}
		if uniform {
			kinds[j] = k
		}
	}
	return kinds
}

// ExportView writes every visible row of v to w in the configured
// format. Header names and column kinds are taken from the view unless
// the config supplies its own.
func ExportView(w io.Writer, v *view.View, config *WriterConfig) error {
	cfg := *config
	if cfg.Headers == nil {
		cfg.Headers = v.Headers()
	}
	if cfg.Kinds == nil {
		cfg.Kinds = ColumnKinds(v)
	}

	fw, err := NewWriter(w, &cfg)
	if err != nil {
		return err
	}
	n := v.Len()
	for i := 0; i < n; i++ {
		if err := fw.WriteRow(v.Row(i).Values()); err != nil {
			fw.Close()
			return err
		}
	}
	return fw.Close()
}

// ExportFile writes v to path, deriving the format, the delimiter and
// an optional compression layer from the file extensions.
func ExportFile(path string, v *view.View, sep rune) error {
	format, ok := DetectFormat(path)
	if !ok {
		return errors.Newf(errors.ErrorTypeFormat, "cannot infer an output format from %q", filepath.Base(path))
	}
	if sep == 0 {
		sep = DetectSeparator(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file").
			WithDetail("path", path)
	}
	cw, err := compression.NewStreamWriter(f, compression.DetectAlgorithm(path), compression.Default)
	if err != nil {
		f.Close()
		return err
	}

	if err := ExportView(cw, v, &WriterConfig{Format: format, Separator: sep}); err != nil {
		cw.Close()
		f.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed output")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close output file").
			WithDetail("path", path)
	}
	logger.Get().Info("exported view",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", v.Len()))
	return nil
}

// ReadFile loads a table from path, dispatching on the detected format.
// Compressed files are transparently decompressed.
func ReadFile(path string) (*table.Table, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeFormat, "cannot infer a format from %q", filepath.Base(path))
	}
	if format == CSV {
		return table.ReadFile(path, DetectSeparator(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").
			WithDetail("path", path)
	}
	defer f.Close()
	src, err := compression.NewStreamReader(f, compression.DetectAlgorithm(path))
	if err != nil {
		return nil, err
	}
	defer src.Close()

	t, err := decodeTable(src, format, path)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("loaded table",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", t.Len()))
	return t, nil
}

func decodeTable(src io.Reader, format Format, path string) (*table.Table, error) {
	if format == JSON {
		// The document is decoded straight off the stream through a
		// pooled decoder; the other formats need the full payload.
		dec := json.GetDecoder(src)
		defer json.PutDecoder(dec)
		var t table.Table
		if err := dec.Decode(&t); err != nil {
			return nil, err
		}
		return &t, nil
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read file").
			WithDetail("path", path)
	}
	if format == Arrow {
		return readArrow(data)
	}
	return readAvro(data)
}

// countingWriter tracks bytes handed to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
