package merge

import (
	"encoding/json"
	"sort"
)

// keyKind classifies a record's effective sort key.
type keyKind int

const (
	keyNumber keyKind = iota
	keyString
	keyOther // bool, null, array, object: not orderable
)

// sortKey is the effective timestamp of one record. Records that are not
// objects, or objects without a "timestamp" key, get the number 0.
type sortKey struct {
	kind keyKind
	num  float64
	str  string
}

// timestampKey extracts the sort key from a record.
func timestampKey(record any) sortKey {
	obj, ok := record.(map[string]any)
	if !ok {
		return sortKey{kind: keyNumber}
	}
	ts, ok := obj["timestamp"]
	if !ok {
		return sortKey{kind: keyNumber}
	}

	switch v := ts.(type) {
	case float64:
		return sortKey{kind: keyNumber, num: v}
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return sortKey{kind: keyOther}
		}
		return sortKey{kind: keyNumber, num: f}
	case int:
		return sortKey{kind: keyNumber, num: float64(v)}
	case int64:
		return sortKey{kind: keyNumber, num: float64(v)}
	case string:
		return sortKey{kind: keyString, str: v}
	default:
		return sortKey{kind: keyOther}
	}
}

// sortRecords orders records by effective timestamp, in place and stably:
// records with equal keys keep their relative concatenation order. The sort
// is best-effort. Keys must be mutually orderable: all numeric (a missing
// timestamp counts as the number 0) or all strings. Any mix of kinds, or
// any key that is not a number or string, aborts the sort: the slice is
// left in concatenation order and false is returned. An unsortable input is
// not an error.
func sortRecords(records []any) bool {
	if len(records) == 0 {
		return true
	}

	keys := make([]sortKey, len(records))
	keys[0] = timestampKey(records[0])
	kind := keys[0].kind
	if kind == keyOther {
		return false
	}
	for i, r := range records[1:] {
		k := timestampKey(r)
		if k.kind == keyOther || k.kind != kind {
			return false
		}
		keys[i+1] = k
	}

	type keyed struct {
		key sortKey
		rec any
	}
	pairs := make([]keyed, len(records))
	for i := range records {
		pairs[i] = keyed{key: keys[i], rec: records[i]}
	}

	switch kind {
	case keyNumber:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].key.num < pairs[j].key.num
		})
	case keyString:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].key.str < pairs[j].key.str
		})
	}

	for i := range pairs {
		records[i] = pairs[i].rec
	}
	return true
}
