package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("MODEL_NAME", "")
	t.Setenv("TEMPERATURE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Fatalf("unexpected chunk defaults: size=%d overlap=%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.RAGTopK != 3 {
		t.Fatalf("expected default top-k 3, got %d", cfg.RAGTopK)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" || cfg.OpenAIEmbedModel != "text-embedding-3-small" {
		t.Fatalf("unexpected model defaults: %q / %q", cfg.OpenAIModel, cfg.OpenAIEmbedModel)
	}
	if cfg.Temperature != 0 {
		t.Fatalf("expected default temperature 0, got %g", cfg.Temperature)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("chunk_size: 500\nrag_top_k: 9\nopenai_model: from-file\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CHUNK_SIZE", "800")
	t.Setenv("CHUNK_OVERLAP", "")
	t.Setenv("MODEL_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkSize != 800 {
		t.Fatalf("env must win over file, got chunk size %d", cfg.ChunkSize)
	}
	if cfg.RAGTopK != 9 {
		t.Fatalf("file must win over defaults, got top-k %d", cfg.RAGTopK)
	}
	if cfg.OpenAIModel != "from-file" {
		t.Fatalf("expected model from file, got %q", cfg.OpenAIModel)
	}
}

func TestValidateRejectsOverlapNotSmallerThanSize(t *testing.T) {
	cfg := defaults()
	cfg.ChunkOverlap = cfg.ChunkSize

	err := cfg.Validate()
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRejectsMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
