package value

import (
	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/json"
)

// valueDoc is the externally tagged wire form of a value: exactly one
// field is set, keyed by the kind name. Points flatten to a two-element
// array, timestamps to an object of calendar fields, lists nest.
type valueDoc struct {
	Str   *string     `json:"string,omitempty"`
	Int   *int32      `json:"integer,omitempty"`
	Float *float32    `json:"float,omitempty"`
	Bool  *bool       `json:"boolean,omitempty"`
	Time  *Timestamp  `json:"timestamp,omitempty"`
	Point *[2]float32 `json:"point,omitempty"`
	List  *[]Value    `json:"list,omitempty"`
}

// MarshalJSON encodes the value as a single-key object tagged by kind,
// for example {"integer":42} or {"point":[1,2.5]}.
func (v Value) MarshalJSON() ([]byte, error) {
	var doc valueDoc
	switch v.kind {
	case KindString:
		doc.Str = &v.str
	case KindInteger:
		doc.Int = &v.i
	case KindFloat:
		doc.Float = &v.f
	case KindBoolean:
		doc.Bool = &v.b
	case KindTimestamp:
		doc.Time = &v.ts
	case KindPoint:
		doc.Point = &[2]float32{v.pt.X, v.pt.Y}
	case KindList:
		list := v.list
		if list == nil {
			list = []Value{}
		}
		doc.List = &list
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a tagged value document. A document carrying no
// recognized tag is rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var doc valueDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to decode value document")
	}
	switch {
	case doc.Str != nil:
		*v = Str(*doc.Str)
	case doc.Int != nil:
		*v = Int(*doc.Int)
	case doc.Float != nil:
		*v = Float(*doc.Float)
	case doc.Bool != nil:
		*v = Bool(*doc.Bool)
	case doc.Time != nil:
		*v = Time(*doc.Time)
	case doc.Point != nil:
		*v = XY(doc.Point[0], doc.Point[1])
	case doc.List != nil:
		*v = ListOf(*doc.List...)
	default:
		return errors.Newf(errors.ErrorTypeFormat, "value document %s carries no recognized tag", data)
	}
	return nil
}
