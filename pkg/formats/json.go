package formats

import (
	"io"

	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/json"
	"github.com/stratumdata/stratum/pkg/value"
)

// jsonWriter streams the tagged table document: the header array is
// written up front, then rows are appended one by one, so a large view
// never sits in memory twice. Rows are encoded through the shared
// encoder and buffer pools. The output is exactly what
// table.UnmarshalJSON accepts.
type jsonWriter struct {
	cw     *countingWriter
	cfg    *WriterConfig
	rows   int64
	closed bool
}

func newJSONWriter(w io.Writer, cfg *WriterConfig) (*jsonWriter, error) {
	jw := &jsonWriter{cw: &countingWriter{w: w}, cfg: cfg}

	if _, err := jw.cw.Write([]byte(`{"header":`)); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to write document head")
	}
	if err := jw.writeEncoded(cfg.Headers, "failed to encode header"); err != nil {
		return nil, err
	}
	if _, err := jw.cw.Write([]byte(`,"rows":[`)); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to write document head")
	}
	return jw, nil
}

// writeEncoded marshals v through a pooled buffer and copies the bytes
// out, with the encoder's trailing newline trimmed.
func (jw *jsonWriter) writeEncoded(v interface{}, encodeMsg string) error {
	buf, err := json.MarshalToBuffer(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, encodeMsg)
	}
	defer json.PutBuffer(buf)

	data := buf.Bytes()
	if n := len(data); n > 0 && data[n-1] == '\n' {
		data = data[:n-1]
	}
	if _, err := jw.cw.Write(data); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write document")
	}
	return nil
}

func (jw *jsonWriter) WriteRow(cells []value.Value) error {
	if len(cells) != len(jw.cfg.Headers) {
		return errors.Newf(errors.ErrorTypeArity,
			"row has %d cells, writer has %d columns", len(cells), len(jw.cfg.Headers))
	}

	if jw.rows > 0 {
		if _, err := jw.cw.Write([]byte{','}); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row")
		}
	}
	if err := jw.writeEncoded(cells, "failed to encode row"); err != nil {
		return err
	}
	jw.rows++
	return nil
}

func (jw *jsonWriter) Flush() error { return nil }

func (jw *jsonWriter) Close() error {
	if jw.closed {
		return nil
	}
	jw.closed = true
	if _, err := jw.cw.Write([]byte("]}\n")); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish document")
	}
	return nil
}

func (jw *jsonWriter) Format() Format { return JSON }

func (jw *jsonWriter) RowsWritten() int64 { return jw.rows }

func (jw *jsonWriter) BytesWritten() int64 { return jw.cw.n }
