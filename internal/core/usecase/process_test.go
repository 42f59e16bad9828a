package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

type loaderFake struct {
	docs []domain.Document
	err  error

	paths []string
}

func (f *loaderFake) Load(_ context.Context, path string) ([]domain.Document, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type chunkerFake struct {
	chunks []domain.Chunk
}

func (f *chunkerFake) SplitDocuments([]domain.Document) []domain.Chunk { return f.chunks }
func (f *chunkerFake) SplitText(text string) []string                  { return []string{text} }

type upsertIndexFake struct {
	upserted []domain.Chunk
	err      error
}

func (f *upsertIndexFake) Upsert(_ context.Context, chunks []domain.Chunk) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upserted = append(f.upserted, chunks...)
	ids := make([]string, len(chunks))
	for i := range ids {
		ids[i] = "point"
	}
	return ids, nil
}
func (f *upsertIndexFake) Query(context.Context, string, int, domain.SearchFilter) ([]domain.RetrievedPassage, error) {
	return nil, nil
}
func (f *upsertIndexFake) Count(context.Context) (int, error) { return len(f.upserted), nil }

func seededRepo(t *testing.T) *repoFake {
	t.Helper()
	repo := newRepoFake()
	repo.records["doc-1"] = &domain.DocumentRecord{
		ID:          "doc-1",
		Filename:    "report.txt",
		StoragePath: "/data/uploads/doc-1_report.txt",
		Status:      domain.StatusUploaded,
	}
	return repo
}

func TestProcessByIDHappyPath(t *testing.T) {
	repo := seededRepo(t)
	loader := &loaderFake{docs: []domain.Document{{Text: "content", Meta: domain.DocumentMeta{Source: "report.txt"}}}}
	chunker := &chunkerFake{chunks: []domain.Chunk{
		{Text: "content", Meta: domain.DocumentMeta{Source: "report.txt"}, ChunkSize: 7, TotalChunks: 1},
	}}
	index := &upsertIndexFake{}
	uc := NewProcessDocumentUseCase(repo, loader, chunker, index)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID: %v", err)
	}
	if len(loader.paths) != 1 || loader.paths[0] != "/data/uploads/doc-1_report.txt" {
		t.Errorf("loader called with %v", loader.paths)
	}
	if len(index.upserted) != 1 {
		t.Errorf("expected 1 chunk indexed, got %d", len(index.upserted))
	}
	if repo.readyID != "doc-1" || repo.readySize != 1 {
		t.Errorf("expected MarkReady(doc-1, 1), got (%s, %d)", repo.readyID, repo.readySize)
	}
	if len(repo.statuses) == 0 || repo.statuses[0] != domain.StatusProcessing {
		t.Errorf("expected processing status first, got %v", repo.statuses)
	}
}

func TestProcessByIDLoadFailureMarksFailed(t *testing.T) {
	repo := seededRepo(t)
	loader := &loaderFake{err: domain.WrapError(domain.ErrEmptyDocument, "load text", errors.New("blank"))}
	uc := NewProcessDocumentUseCase(repo, loader, &chunkerFake{}, &upsertIndexFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Errorf("expected failed status recorded, got %v", repo.statuses)
	}
	if !strings.Contains(repo.failMsg, "blank") {
		t.Errorf("expected failure message stored, got %q", repo.failMsg)
	}
}

func TestProcessByIDIndexFailureMarksFailed(t *testing.T) {
	repo := seededRepo(t)
	loader := &loaderFake{docs: []domain.Document{{Text: "content"}}}
	chunker := &chunkerFake{chunks: []domain.Chunk{{Text: "content", ChunkSize: 7}}}
	index := &upsertIndexFake{err: errors.New("qdrant down")}
	uc := NewProcessDocumentUseCase(repo, loader, chunker, index)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil || !strings.Contains(err.Error(), "index chunks") {
		t.Fatalf("expected index error, got %v", err)
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Errorf("expected failed status recorded, got %v", repo.statuses)
	}
}

func TestProcessByIDZeroChunksFails(t *testing.T) {
	repo := seededRepo(t)
	loader := &loaderFake{docs: []domain.Document{{Text: "   "}}}
	uc := NewProcessDocumentUseCase(repo, loader, &chunkerFake{chunks: nil}, &upsertIndexFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestProcessByIDUnknownDocument(t *testing.T) {
	uc := NewProcessDocumentUseCase(newRepoFake(), &loaderFake{}, &chunkerFake{}, &upsertIndexFake{})
	err := uc.ProcessByID(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
}
