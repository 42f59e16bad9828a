package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

func (l *Loader) loadPDF(_ context.Context, path string) ([]domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	source := filepath.Base(path)
	totalPages := reader.NumPage()

	docs := make([]domain.Document, 0, totalPages)
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d: %w", pageNum, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		docs = append(docs, domain.Document{
			Text: text,
			Meta: domain.DocumentMeta{
				Source:     source,
				Page:       pageNum,
				TotalPages: totalPages,
				DocType:    "pdf",
				CharCount:  utf8.RuneCountInString(text),
			},
		})
	}

	if len(docs) == 0 {
		return nil, domain.WrapError(domain.ErrEmptyDocument, "load pdf", fmt.Errorf("no extractable text in %s", source))
	}
	return docs, nil
}
