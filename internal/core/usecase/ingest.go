package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docqa-dev/docqa/internal/core/domain"
	"github.com/docqa-dev/docqa/internal/core/ports"
)

// maxUploadBytes bounds a single upload at 30 MB.
const maxUploadBytes = 30 << 20

var ingestibleExtensions = map[string]bool{
	".txt": true,
	".pdf": true,
}

type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload validates and stores an incoming file, records it in the catalog
// and hands it to the worker pool for asynchronous processing.
func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename string,
	size int64,
	body io.Reader,
) (*domain.DocumentRecord, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !ingestibleExtensions[ext] {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "upload document", fmt.Errorf("extension %q", ext))
	}
	if size == 0 {
		return nil, domain.WrapError(domain.ErrEmptyDocument, "upload document", errors.New("zero-length upload"))
	}
	if size > maxUploadBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", fmt.Errorf("file size %d exceeds %d bytes", size, maxUploadBytes))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	storedPath, err := uc.storage.Save(ctx, storageKey, io.LimitReader(body, maxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	rec := &domain.DocumentRecord{
		ID:          id,
		Filename:    filename,
		StoragePath: storedPath,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, rec); err != nil {
		if rmErr := uc.storage.Remove(ctx, storedPath); rmErr != nil {
			slog.Warn("orphaned_upload_cleanup_failed", "document_id", id, "path", storedPath, "error", rmErr)
		}
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := uc.queue.PublishDocumentIngested(ctx, rec.ID); err != nil {
		// No worker will ever see this document, so the record must not
		// stay in the uploaded state.
		if stErr := uc.repo.UpdateStatus(ctx, rec.ID, domain.StatusFailed, fmt.Sprintf("publish ingestion event: %v", err)); stErr != nil {
			slog.Warn("mark_unpublished_upload_failed", "document_id", id, "error", stErr)
		}
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return rec, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.bin"
	}
	return base
}
