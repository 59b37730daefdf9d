// Package jsonfile writes normalized shelters to a JSON array on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/shelter-data-etl/internal/domain"
)

// Writer replaces the output file with each saved batch.
// It implements pipeline.Saver.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path. Parent directories are created
// on first save.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Save writes shelters as an indented JSON array. The file is written to a
// temporary sibling and renamed into place, so readers never see a partial
// document.
func (w *Writer) Save(ctx context.Context, shelters []domain.Shelter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if shelters == nil {
		shelters = []domain.Shelter{}
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(shelters); err != nil {
		tmp.Close() //nolint:errcheck,gosec // encode error takes precedence
		return fmt.Errorf("encode shelters: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace %s: %w", w.path, err)
	}

	w.logger.Info("wrote shelters", "path", w.path, "count", len(shelters))
	return nil
}

// Load reads a file previously written by Save.
func Load(path string) ([]domain.Shelter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var shelters []domain.Shelter
	if err := json.Unmarshal(data, &shelters); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return shelters, nil
}
