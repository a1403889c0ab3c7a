package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps each record kind in <dir>/<kind>.json.  Files are
// truncated and rewritten in place, so a crash in the middle of Write
// can leave a half-written document behind.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir.  An empty dir means
// the working directory.
func NewFileBackend(dir string) *FileBackend {
	if dir == "" {
		dir = "."
	}
	return &FileBackend{dir: dir}
}

// Path returns the file that holds kind.
func (b *FileBackend) Path(kind Kind) string {
	return filepath.Join(b.dir, string(kind)+".json")
}

func (b *FileBackend) Read(_ context.Context, kind Kind) ([]byte, error) {
	body, err := os.ReadFile(b.Path(kind))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}
	return body, nil
}

func (b *FileBackend) Write(_ context.Context, kind Kind, body []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", b.dir, err)
	}
	if err := os.WriteFile(b.Path(kind), body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	return nil
}
