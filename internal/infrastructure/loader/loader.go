// Package loader turns files on disk into domain documents, dispatching
// on the file extension.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

var supportedExtensions = []string{".txt", ".pdf"}

type Loader struct{}

func New() *Loader {
	return &Loader{}
}

// Load reads the file at path and returns one document per logical unit:
// a single document for text files, one document per page for PDFs.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrNotFound, "load document", fmt.Errorf("file %s", path))
		}
		return nil, fmt.Errorf("stat document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return l.loadText(ctx, path)
	case ".pdf":
		return l.loadPDF(ctx, path)
	default:
		return nil, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"load document",
			fmt.Errorf("extension %q (supported: %s)", filepath.Ext(path), strings.Join(supportedExtensions, ", ")),
		)
	}
}
