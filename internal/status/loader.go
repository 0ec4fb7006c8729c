package status

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Source supplies the raw bytes of a status document.
type Source interface {
	// Name identifies the source in error messages.
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads the document from a path on disk.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Read returns the file contents.
func (s FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("status document %s not found", s.Path)
		}
		return nil, fmt.Errorf("reading status document: %w", err)
	}
	return data, nil
}

// BytesSource serves a document held in memory, such as the one embedded
// in the binary.
type BytesSource struct {
	Label string
	Data  []byte
}

// Name returns the label.
func (s BytesSource) Name() string { return s.Label }

// Read returns the held bytes.
func (s BytesSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Data, nil
}

// Loader validates a document once and memoizes it. The first successful
// Load reads and validates the source; later calls return the same
// instance without touching the source again. A failed Load caches
// nothing, so the next call tries again.
//
// Callers must treat the returned Document as read-only.
type Loader struct {
	src Source

	mu     sync.Mutex
	cached *Document
}

// NewLoader creates a Loader over src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Source returns the loader's backing source.
func (l *Loader) Source() Source {
	return l.src
}

// Load returns the validated document.
func (l *Loader) Load(ctx context.Context) (*Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return l.cached, nil
	}

	data, err := l.src.Read(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.src.Name(), err)
	}

	l.cached = doc
	return doc, nil
}

// Reset drops the memoized document; the next Load re-reads the source.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}
