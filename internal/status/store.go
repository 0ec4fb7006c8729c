package status

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFile is the repository-relative name of the status document.
const DefaultFile = "status.json"

// Store defines persistence for the status document.
// Abstracted for testability (DIP).
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Path() string
}

// FileStore implements Store on a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a filesystem-backed document store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads and validates the document. It never memoizes; use a Loader
// for that.
func (fs *FileStore) Load(ctx context.Context) (*Document, error) {
	data, err := FileSource{Path: fs.path}.Read(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fs.path, err)
	}
	return doc, nil
}

// Save validates doc and replaces the file with its encoding. The write
// goes to a temporary file in the same directory that is renamed over the
// target, so the document on disk is either the old one or the new one.
func (fs *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ValidateDocument(doc); err != nil {
		return err
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFileAtomic(fs.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".status-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing status document: %w", err)
	}
	return nil
}
