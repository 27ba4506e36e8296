package logio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/logmerge/internal/logdoc"
)

// Writer serializes merged documents to disk. Output is compact JSON by
// default and two-space indented with Pretty. Non-ASCII text is written
// as-is rather than escaped.
type Writer struct {
	pretty bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithPretty toggles indented, human-readable output.
func WithPretty(pretty bool) WriterOption {
	return func(w *Writer) {
		w.pretty = pretty
	}
}

// NewWriter creates a Writer.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serializes doc and persists it at path. The document is written to
// a temporary file in the destination directory and renamed into place, so
// a failure never leaves a partial output file. All failures wrap
// ErrSinkWrite with the destination identifier.
func (w *Writer) Write(doc logdoc.Document, path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrSinkWrite, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".logmerge-*")
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrSinkWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w: %v", path, ErrSinkWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w: %v", path, ErrSinkWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w: %v", path, ErrSinkWrite, err)
	}
	return nil
}
