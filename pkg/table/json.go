package table

import (
	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/json"
	"github.com/stratumdata/stratum/pkg/value"
)

// tableDoc is the wire form of a table: the header names plus rows of
// tagged value documents.
type tableDoc struct {
	Header []string        `json:"header"`
	Rows   [][]value.Value `json:"rows"`
}

// MarshalJSON encodes the table as {"header":[...],"rows":[[...]]} with
// each cell in its tagged value form.
func (t *Table) MarshalJSON() ([]byte, error) {
	doc := tableDoc{
		Header: t.Headers(),
		Rows:   make([][]value.Value, len(t.rows)),
	}
	for i := range t.rows {
		doc.Rows[i] = t.RowValues(i)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a table document, validating every row against
// the header arity. On success the receiver is replaced wholesale; on
// failure it is left untouched.
func (t *Table) UnmarshalJSON(data []byte) error {
	var doc tableDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to decode table document")
	}
	decoded := New(doc.Header...)
	if err := decoded.AppendRows(doc.Rows); err != nil {
		return err
	}
	*t = *decoded
	return nil
}
