package merge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/logmerge/internal/logdoc"
)

// fixedClock returns a clock frozen at the given instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func record(ts any, fields map[string]any) map[string]any {
	rec := map[string]any{"timestamp": ts}
	for k, v := range fields {
		rec[k] = v
	}
	return rec
}

func TestMerge_RecordCountIsSumOfInputs(t *testing.T) {
	e := NewEngine()

	result, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{"data": []any{record(1.0, nil), record(2.0, nil)}}},
		{Source: "b.json", Doc: logdoc.Document{"data": []any{record(3.0, nil)}}},
		{Source: "c.json", Doc: logdoc.Document{"data": []any{}}},
	})
	require.NoError(t, err)

	records, err := result.Doc.Records()
	require.NoError(t, err)
	assert.Len(t, records, 3, "merged data length should be the sum of all inputs")
	assert.Equal(t, 3, result.RecordCount)
}

func TestMerge_SortsByNumericTimestamp(t *testing.T) {
	e := NewEngine()

	// The worked example: A carries timestamp 5, B carries timestamp 2.
	result, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{"data": []any{record(5.0, map[string]any{"v": "a"})}}},
		{Source: "b.json", Doc: logdoc.Document{"data": []any{record(2.0, map[string]any{"v": "b"})}}},
	})
	require.NoError(t, err)
	assert.True(t, result.Sorted)

	records, err := result.Doc.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, record(2.0, map[string]any{"v": "b"}), records[0])
	assert.Equal(t, record(5.0, map[string]any{"v": "a"}), records[1])

	lineage, merged := logdoc.LineageFrom(result.Doc)
	require.True(t, merged)
	assert.Equal(t, "a.json", lineage.BaseFile)
	assert.Equal(t, []string{"b.json"}, lineage.AdditionalFiles)
	assert.Equal(t, 2, lineage.TotalFilesMerged)
	assert.Empty(t, lineage.PreviousMerges)
}

func TestMerge_MissingTimestampSortsAsZero_Stable(t *testing.T) {
	e := NewEngine()

	first := map[string]any{"v": "no-ts-1"}
	second := map[string]any{"v": "no-ts-2"}

	result, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{"data": []any{record(1.0, nil), first}}},
		{Source: "b.json", Doc: logdoc.Document{"data": []any{second}}},
	})
	require.NoError(t, err)
	assert.True(t, result.Sorted)

	records, _ := result.Doc.Records()
	require.Len(t, records, 3)
	assert.Equal(t, first, records[0], "missing timestamps sort as 0, before timestamp 1")
	assert.Equal(t, second, records[1], "equal effective timestamps keep concatenation order")
	assert.Equal(t, record(1.0, nil), records[2])
}

func TestMerge_MixedTimestampKinds_KeepsConcatenationOrder(t *testing.T) {
	e := NewEngine()

	result, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{"data": []any{record(5.0, nil), record("2024-01-01", nil)}}},
		{Source: "b.json", Doc: logdoc.Document{"data": []any{record(1.0, nil)}}},
	})
	require.NoError(t, err, "incomparable timestamps degrade to unsorted output, not an error")
	assert.False(t, result.Sorted)

	records, _ := result.Doc.Records()
	require.Len(t, records, 3)
	assert.Equal(t, record(5.0, nil), records[0], "concatenation order must be preserved")
	assert.Equal(t, record("2024-01-01", nil), records[1])
	assert.Equal(t, record(1.0, nil), records[2])
}

func TestMerge_StringTimestamps_SortLexically(t *testing.T) {
	e := NewEngine()

	result, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{"data": []any{record("2024-06-01T10:00:00Z", nil)}}},
		{Source: "b.json", Doc: logdoc.Document{"data": []any{record("2024-01-01T10:00:00Z", nil)}}},
	})
	require.NoError(t, err)
	assert.True(t, result.Sorted)

	records, _ := result.Doc.Records()
	assert.Equal(t, record("2024-01-01T10:00:00Z", nil), records[0])
	assert.Equal(t, record("2024-06-01T10:00:00Z", nil), records[1])
}

func TestMerge_NonObjectRecords_TreatedAsTimestampZero(t *testing.T) {
	e := NewEngine()

	result, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{"data": []any{record(3.0, nil), "bare string"}}},
		{Source: "b.json", Doc: logdoc.Document{"data": []any{record(-1.0, nil)}}},
	})
	require.NoError(t, err)
	assert.True(t, result.Sorted)

	records, _ := result.Doc.Records()
	require.Len(t, records, 3)
	assert.Equal(t, record(-1.0, nil), records[0])
	assert.Equal(t, "bare string", records[1], "non-object records sort as 0")
	assert.Equal(t, record(3.0, nil), records[2])
}

func TestMerge_InsufficientInputs(t *testing.T) {
	e := NewEngine()

	_, err := e.Merge([]Input{
		{Source: "only.json", Doc: logdoc.Document{"data": []any{}}},
	})
	require.ErrorIs(t, err, ErrInsufficientInputs)

	_, err = e.Merge(nil)
	require.ErrorIs(t, err, ErrInsufficientInputs)
}

func TestMerge_MissingDataField(t *testing.T) {
	e := NewEngine()

	_, err := e.Merge([]Input{
		{Source: "good.json", Doc: logdoc.Document{"data": []any{}}},
		{Source: "bad.json", Doc: logdoc.Document{"other": "stuff"}},
	})
	require.ErrorIs(t, err, logdoc.ErrMissingDataField)
	assert.Contains(t, err.Error(), "bad.json", "error should name the failing source")
}

func TestMerge_InvalidDataType(t *testing.T) {
	e := NewEngine()

	_, err := e.Merge([]Input{
		{Source: "good.json", Doc: logdoc.Document{"data": []any{}}},
		{Source: "bad.json", Doc: logdoc.Document{"data": map[string]any{"not": "a list"}}},
	})
	require.ErrorIs(t, err, logdoc.ErrInvalidDataType)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestMerge_ValidationFailsFast_NoPartialResult(t *testing.T) {
	e := NewEngine()

	base := logdoc.Document{"data": []any{record(1.0, nil)}}
	result, err := e.Merge([]Input{
		{Source: "base.json", Doc: base},
		{Source: "bad.json", Doc: logdoc.Document{"data": "scalar"}},
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.False(t, base.IsMerged(), "the base document must stay untouched on failure")
}

func TestMerge_RemergeExtendsLineage(t *testing.T) {
	firstAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	secondAt := time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC)

	first := NewEngine(WithClock(fixedClock(firstAt)))
	resultA, err := first.Merge([]Input{
		{Source: "x.json", Doc: logdoc.Document{"data": []any{record(1.0, nil)}}},
		{Source: "y.json", Doc: logdoc.Document{"data": []any{record(2.0, nil)}}},
	})
	require.NoError(t, err)

	second := NewEngine(WithClock(fixedClock(secondAt)))
	resultB, err := second.Merge([]Input{
		{Source: "a-merged.json", Doc: resultA.Doc},
		{Source: "z.json", Doc: logdoc.Document{"data": []any{record(3.0, nil)}}},
	})
	require.NoError(t, err)

	lineage, merged := logdoc.LineageFrom(resultB.Doc)
	require.True(t, merged)
	assert.Equal(t, "x.json", lineage.BaseFile, "the ultimate base survives re-merging")
	assert.Equal(t, []string{"y.json", "z.json"}, lineage.AdditionalFiles)
	assert.Equal(t, 3, lineage.TotalFilesMerged)
	assert.Equal(t, secondAt.Format(time.RFC3339Nano), lineage.MergedAt)

	require.Len(t, lineage.PreviousMerges, 1)
	assert.Equal(t, firstAt.Format(time.RFC3339Nano), lineage.PreviousMerges[0].MergedAt)
	assert.Equal(t, []string{"x.json", "y.json"}, lineage.PreviousMerges[0].FilesInMerge)
}

func TestMerge_RemergeDoesNotMutateBaseLineage(t *testing.T) {
	e := NewEngine()

	resultA, err := e.Merge([]Input{
		{Source: "x.json", Doc: logdoc.Document{"data": []any{}}},
		{Source: "y.json", Doc: logdoc.Document{"data": []any{}}},
	})
	require.NoError(t, err)

	before, _ := logdoc.LineageFrom(resultA.Doc)

	_, err = e.Merge([]Input{
		{Source: "a.json", Doc: resultA.Doc},
		{Source: "z.json", Doc: logdoc.Document{"data": []any{}}},
	})
	require.NoError(t, err)

	after, _ := logdoc.LineageFrom(resultA.Doc)
	assert.Equal(t, before, after, "re-merging must not extend the prior result's own lineage")
}

func TestMerge_LineageSurvivesSerialization(t *testing.T) {
	firstAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	e := NewEngine(WithClock(fixedClock(firstAt)))
	resultA, err := e.Merge([]Input{
		{Source: "x.json", Doc: logdoc.Document{"data": []any{record(1.0, nil)}}},
		{Source: "y.json", Doc: logdoc.Document{"data": []any{record(2.0, nil)}}},
	})
	require.NoError(t, err)

	// Round-trip through JSON, as happens when the merged file is written
	// out and later used as the base of another merge.
	raw, err := json.Marshal(resultA.Doc)
	require.NoError(t, err)
	var reloaded logdoc.Document
	require.NoError(t, json.Unmarshal(raw, &reloaded))

	resultB, err := NewEngine().Merge([]Input{
		{Source: "a-merged.json", Doc: reloaded},
		{Source: "z.json", Doc: logdoc.Document{"data": []any{record(3.0, nil)}}},
	})
	require.NoError(t, err)

	lineage, _ := logdoc.LineageFrom(resultB.Doc)
	assert.Equal(t, "x.json", lineage.BaseFile)
	assert.Equal(t, []string{"y.json", "z.json"}, lineage.AdditionalFiles)
	require.Len(t, lineage.PreviousMerges, 1)
	assert.Equal(t, []string{"x.json", "y.json"}, lineage.PreviousMerges[0].FilesInMerge)
}

func TestMerge_BaseFieldsPassThrough_AdditionalFieldsDropped(t *testing.T) {
	e := NewEngine()

	result, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{
			"data":    []any{},
			"session": "abc-123",
			"device":  map[string]any{"os": "quest"},
		}},
		{Source: "b.json", Doc: logdoc.Document{
			"data":    []any{},
			"session": "zzz-999",
			"extra":   true,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "abc-123", result.Doc["session"], "base fields pass through unchanged")
	assert.Equal(t, map[string]any{"os": "quest"}, result.Doc["device"])
	assert.NotContains(t, result.Doc, "extra", "non-base extra fields are dropped")
}

func TestMerge_DeterministicExceptMergedAt(t *testing.T) {
	inputs := func() []Input {
		return []Input{
			{Source: "a.json", Doc: logdoc.Document{"data": []any{record(2.0, nil), record(1.0, nil)}}},
			{Source: "b.json", Doc: logdoc.Document{"data": []any{record(3.0, nil)}}},
		}
	}

	r1, err := NewEngine(WithClock(fixedClock(time.Unix(100, 0)))).Merge(inputs())
	require.NoError(t, err)
	r2, err := NewEngine(WithClock(fixedClock(time.Unix(200, 0)))).Merge(inputs())
	require.NoError(t, err)

	d1, _ := r1.Doc.Records()
	d2, _ := r2.Doc.Records()
	assert.Equal(t, d1, d2)

	l1, _ := logdoc.LineageFrom(r1.Doc)
	l2, _ := logdoc.LineageFrom(r2.Doc)
	assert.NotEqual(t, l1.MergedAt, l2.MergedAt)
	l1.MergedAt, l2.MergedAt = "", ""
	assert.Equal(t, l1, l2, "lineage is identical apart from merged_at")
}

func TestMerge_EmitsProgressEvents(t *testing.T) {
	var events []Event
	e := NewEngine(WithProgress(func(ev Event) {
		events = append(events, ev)
	}))

	_, err := e.Merge([]Input{
		{Source: "a.json", Doc: logdoc.Document{"data": []any{}}},
		{Source: "b.json", Doc: logdoc.Document{"data": []any{}}},
	})
	require.NoError(t, err)

	var merging, complete int
	for _, ev := range events {
		switch ev.Status {
		case StatusMerging:
			merging++
		case StatusComplete:
			complete++
		}
	}
	assert.Equal(t, 2, merging)
	assert.Equal(t, 2, complete)
}
