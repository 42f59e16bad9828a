package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docqa-dev/docqa/internal/core/domain"
	"github.com/docqa-dev/docqa/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo    ports.DocumentRepository
	loader  ports.Loader
	chunker ports.Chunker
	index   ports.VectorIndex
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	loader ports.Loader,
	chunker ports.Chunker,
	index ports.VectorIndex,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:    repo,
		loader:  loader,
		chunker: chunker,
		index:   index,
	}
}

// ProcessByID runs the ingestion pipeline for one uploaded document:
// load from storage, chunk, index, then mark the record ready. Any
// pipeline failure is written back to the record as status=failed.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	chunkCount, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.MarkReady(ctx, documentID, chunkCount); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (int, error) {
	rec, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("fetch document by id: %w", err)
	}

	docs, err := uc.loader.Load(ctx, rec.StoragePath)
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}

	chunks := uc.chunker.SplitDocuments(docs)
	if len(chunks) == 0 {
		return 0, domain.WrapError(domain.ErrEmptyDocument, "chunk document", errors.New("chunking produced zero chunks"))
	}

	stats := domain.ChunkStatistics(chunks)
	slog.Info("document_chunked",
		"document_id", documentID,
		"filename", rec.Filename,
		"chunks", stats.TotalChunks,
		"min_chunk_size", stats.MinChunkSize,
		"max_chunk_size", stats.MaxChunkSize,
		"avg_chunk_size", stats.AvgChunkSize,
		"total_characters", stats.TotalCharacters,
	)

	if _, err := uc.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	return len(chunks), nil
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
