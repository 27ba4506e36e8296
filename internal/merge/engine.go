// Package merge implements the log merge engine: it validates a set of
// parsed log documents, combines their record lists into one
// timestamp-ordered sequence, and extends the merge lineage carried under
// "merged_sources" so that provenance survives repeated merges.
package merge

import (
	"fmt"
	"time"

	"github.com/dusk-indust/logmerge/internal/logdoc"
)

// Input pairs a document with the identifier it was loaded from. The
// identifier (typically a file path) is what ends up in the lineage.
type Input struct {
	Source string
	Doc    logdoc.Document
}

// Result is the outcome of a merge. Doc is a newly built document; the
// engine never mutates its inputs. Sorted reports whether the combined
// records could be ordered by timestamp; when false, Doc's records are in
// concatenation order (see sortRecords).
type Result struct {
	Doc         logdoc.Document
	Sorted      bool
	RecordCount int
}

// Engine merges log documents. The zero configuration uses the wall clock
// for the merged_at stamp; tests inject a fixed clock via WithClock.
type Engine struct {
	now        func() time.Time
	onProgress func(Event)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the time source used for the merged_at stamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithProgress registers a callback invoked synchronously with per-document
// progress events. It may be nil.
func WithProgress(fn func(Event)) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge combines the documents in order. The first input is the base: its
// top-level fields are carried into the result, and if it was itself
// produced by a merge its lineage is extended rather than replaced.
// Validation is fail-fast: no result is produced if any input is missing
// "data" or carries a non-array "data", and the error names the offending
// source.
func (e *Engine) Merge(inputs []Input) (*Result, error) {
	if len(inputs) < 2 {
		return nil, ErrInsufficientInputs
	}

	total := 0
	for _, in := range inputs {
		records, err := in.Doc.Records()
		if err != nil {
			e.emit(Event{Source: in.Source, Status: StatusFailed, Message: err.Error()})
			return nil, fmt.Errorf("%s: %w", in.Source, err)
		}
		total += len(records)
	}

	base := inputs[0]
	combined := make([]any, 0, total)
	additional := make([]string, 0, len(inputs)-1)
	for _, in := range inputs {
		e.emit(Event{Source: in.Source, Status: StatusMerging})
		records, _ := in.Doc.Records()
		combined = append(combined, records...)
	}
	for _, in := range inputs[1:] {
		additional = append(additional, in.Source)
	}

	sorted := sortRecords(combined)

	out := base.Doc.Clone()
	out[logdoc.DataKey] = combined
	out[logdoc.MergedSourcesKey] = e.lineage(base, additional)

	for _, in := range inputs {
		e.emit(Event{Source: in.Source, Status: StatusComplete})
	}

	return &Result{Doc: out, Sorted: sorted, RecordCount: len(combined)}, nil
}

// lineage builds the merged_sources value for this operation. A base that
// already carries lineage has it extended: the original base_file is kept,
// the new additional files are appended, and the prior operation is
// snapshotted into previous_merges. The inherited history is copied, never
// aliased, so the base document is left untouched.
func (e *Engine) lineage(base Input, additional []string) logdoc.Lineage {
	lin := logdoc.Lineage{
		MergedAt:         e.now().Format(time.RFC3339Nano),
		BaseFile:         base.Source,
		AdditionalFiles:  append([]string(nil), additional...),
		TotalFilesMerged: len(additional) + 1,
	}

	prior, merged := logdoc.LineageFrom(base.Doc)
	if !merged {
		return lin
	}

	if prior.BaseFile != "" {
		lin.BaseFile = prior.BaseFile
	}
	lin.AdditionalFiles = append(append([]string(nil), prior.AdditionalFiles...), additional...)
	lin.TotalFilesMerged = len(lin.AdditionalFiles) + 1
	lin.PreviousMerges = append(append([]logdoc.Snapshot(nil), prior.PreviousMerges...), logdoc.Snapshot{
		MergedAt:     prior.MergedAt,
		FilesInMerge: append([]string{prior.BaseFile}, prior.AdditionalFiles...),
	})
	return lin
}

// emit sends a progress event if a callback is registered.
func (e *Engine) emit(ev Event) {
	if e.onProgress != nil {
		e.onProgress(ev)
	}
}
