package cryptostock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONFile is a PortfolioStore backed by a single JSON file.
type JSONFile struct {
	Path string
}

// NewJSONFile returns a store persisting portfolios into path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path}
}

// Load reads the book from the file. A missing file is an empty book.
func (s *JSONFile) Load(ctx context.Context) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio file %q: %w", s.Path, err)
	}
	defer f.Close()

	b, err := DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode portfolio file %q: %w", s.Path, err)
	}
	return b, nil
}

// Save writes the book into the file. The file is replaced atomically, a
// failed save leaves the previous content in place.
func (s *JSONFile) Save(ctx context.Context, b *Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := EncodeBook(tmp, b); err != nil {
		tmp.Close()
		return fmt.Errorf("could not encode portfolio file %q: %w", s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write portfolio file %q: %w", s.Path, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("could not replace portfolio file %q: %w", s.Path, err)
	}
	return nil
}
