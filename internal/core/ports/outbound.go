package ports

import (
	"context"
	"io"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

// DocumentRepository persists and reads ingestion state.
type DocumentRepository interface {
	Create(ctx context.Context, rec *domain.DocumentRecord) error
	GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.IngestStatus, errMessage string) error
	MarkReady(ctx context.Context, id string, chunkCount int) error
}

// ObjectStorage stores uploaded source files and returns the stored path.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// Loader turns a file on disk into one or more documents, dispatched by
// file extension.
type Loader interface {
	Load(ctx context.Context, path string) ([]domain.Document, error)
}

// Chunker splits loaded documents into size-bounded overlapping chunks.
type Chunker interface {
	SplitDocuments(docs []domain.Document) []domain.Chunk
	SplitText(text string) []string
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores chunks and performs nearest-neighbor search over them.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []domain.Chunk) ([]string, error)
	Query(ctx context.Context, text string, k int, filter domain.SearchFilter) ([]domain.RetrievedPassage, error)
	Count(ctx context.Context) (int, error)
}

// CompletionClient calls the external generation capability. Model and
// temperature are bound at client construction.
type CompletionClient interface {
	Complete(ctx context.Context, systemMessage, userMessage string) (string, error)
}
