// Package logio holds the thin I/O collaborators around the merge engine:
// a loader that reads named sources into parsed documents and a writer that
// persists the merged result. The engine itself never touches storage.
package logio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/logmerge/internal/logdoc"
)

// Load and write failures, discriminated with errors.Is. Each is wrapped
// with the identifier of the source or destination it concerns.
var (
	ErrSourceNotFound  = errors.New("file not found")
	ErrMalformedSource = errors.New("invalid JSON")
	ErrSinkWrite       = errors.New("cannot write output")
)

// Loader reads named sources into parsed documents.
type Loader struct {
	observer func(path string, err error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithObserver registers a callback invoked after each source is loaded,
// with a nil error on success. LoadAll calls it from its worker goroutines.
func WithObserver(fn func(path string, err error)) LoaderOption {
	return func(l *Loader) {
		l.observer = fn
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses a single source. It fails with ErrSourceNotFound
// when the path does not resolve to readable content and ErrMalformedSource
// when the content is not a valid JSON object; the malformed-source error
// carries the decoder's message plus the line and column of the failure.
func (l *Loader) Load(path string) (logdoc.Document, error) {
	doc, err := l.load(path)
	if l.observer != nil {
		l.observer(path, err)
	}
	return doc, err
}

func (l *Loader) load(path string) (logdoc.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("%s: %w (%v)", path, ErrSourceNotFound, err)
	}

	var doc logdoc.Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber() // keep numeric literals intact for round-tripping
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", path, ErrMalformedSource, describeDecodeError(raw, err))
	}
	return doc, nil
}

// LoadAll loads every source in parallel and returns the documents in input
// order. The first failure cancels the remaining loads and is returned;
// there is no partial result.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]logdoc.Document, error) {
	docs := make([]logdoc.Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			doc, err := l.Load(path)
			if err != nil {
				return err // triggers context cancellation for other goroutines
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// describeDecodeError renders a JSON decode failure with its location.
func describeDecodeError(raw []byte, err error) string {
	var offset int64 = -1

	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syn):
		offset = syn.Offset
	case errors.As(err, &typ):
		offset = typ.Offset
	}

	if offset < 0 {
		return err.Error()
	}
	line, col := lineColumn(raw, offset)
	return fmt.Sprintf("%v (line %d, column %d)", err, line, col)
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(raw []byte, offset int64) (line, col int) {
	if offset > int64(len(raw)) {
		offset = int64(len(raw))
	}
	line, col = 1, 1
	for _, b := range raw[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
