package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

func (l *Loader) loadText(_ context.Context, path string) ([]domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}

	text := decodeText(raw)
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrEmptyDocument, "load text", fmt.Errorf("file %s", filepath.Base(path)))
	}

	return []domain.Document{{
		Text: text,
		Meta: domain.DocumentMeta{
			Source:    filepath.Base(path),
			DocType:   "txt",
			CharCount: utf8.RuneCountInString(text),
		},
	}}, nil
}

// decodeText returns the file content as UTF-8, treating invalid input as
// Latin-1 so legacy single-byte files still load.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}
