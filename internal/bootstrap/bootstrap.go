// Package bootstrap wires configuration, infrastructure adapters and use
// cases into a runnable application for both the api and worker binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/docqa-dev/docqa/internal/config"
	"github.com/docqa-dev/docqa/internal/core/ports"
	"github.com/docqa-dev/docqa/internal/core/usecase"
	"github.com/docqa-dev/docqa/internal/infrastructure/chunking"
	"github.com/docqa-dev/docqa/internal/infrastructure/llm/openai"
	"github.com/docqa-dev/docqa/internal/infrastructure/loader"
	"github.com/docqa-dev/docqa/internal/infrastructure/queue/nats"
	"github.com/docqa-dev/docqa/internal/infrastructure/repository/postgres"
	"github.com/docqa-dev/docqa/internal/infrastructure/resilience"
	"github.com/docqa-dev/docqa/internal/infrastructure/storage/localfs"
	"github.com/docqa-dev/docqa/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	AskUC     ports.QuestionAnswerer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	openaiClient, err := openai.New(openai.Config{
		APIKey:             cfg.OpenAIAPIKey,
		BaseURL:            cfg.OpenAIBaseURL,
		Model:              cfg.OpenAIModel,
		EmbedModel:         cfg.OpenAIEmbedModel,
		Temperature:        cfg.Temperature,
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	embedder := openai.NewEmbedder(openaiClient)
	generator := openai.NewGenerator(openaiClient)

	index := qdrant.New(qdrant.Config{
		BaseURL:    cfg.QdrantURL,
		Collection: cfg.QdrantCollection,
	}, embedder)

	chunker, err := chunking.NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("init chunker: %w", err)
	}
	docLoader := loader.New()

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, docLoader, chunker, index)
	askUC := usecase.NewAskUseCase(index, generator, cfg.RAGTopK)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		AskUC:     askUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
