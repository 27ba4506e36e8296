// Package logdoc models the structured JSON log documents the merge tool
// operates on. A document is a free-form JSON object; the only shape
// requirement is a "data" key holding an array of records. Everything else
// is carried through a merge opaquely.
package logdoc

import "errors"

// Top-level keys with structural meaning to the merger. All other keys are
// opaque pass-through values.
const (
	DataKey          = "data"
	MergedSourcesKey = "merged_sources"
)

// Shape errors for the required "data" field.
var (
	ErrMissingDataField = errors.New(`missing required "data" field`)
	ErrInvalidDataType  = errors.New(`"data" field must be an array`)
)

// Document is a parsed JSON log document, as decoded by encoding/json into
// generic values. Records under "data" may be any JSON value; only object
// records carry timestamps.
type Document map[string]any

// Records returns the document's "data" array. It fails with
// ErrMissingDataField when the key is absent and ErrInvalidDataType when the
// key holds anything other than an array.
func (d Document) Records() ([]any, error) {
	v, ok := d[DataKey]
	if !ok {
		return nil, ErrMissingDataField
	}
	records, ok := v.([]any)
	if !ok {
		return nil, ErrInvalidDataType
	}
	return records, nil
}

// IsMerged reports whether the document is itself the result of a prior
// merge, i.e. carries a "merged_sources" key.
func (d Document) IsMerged() bool {
	_, ok := d[MergedSourcesKey]
	return ok
}

// Clone returns a shallow copy of the document's top-level map. Nested
// values are shared with the original.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
