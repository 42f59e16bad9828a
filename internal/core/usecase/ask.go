package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/docqa-dev/docqa/internal/core/domain"
	"github.com/docqa-dev/docqa/internal/core/ports"
)

const (
	defaultTopK = 3

	// noContextAnswer is the one case where the engine answers without
	// calling generation: zero retrieved passages.
	noContextAnswer = "No relevant information found."

	previewLength = 200
)

// citationMarkerPattern matches bracketed numeric markers like [1] that
// models sometimes emit despite instructions. They are stripped because
// citations are returned as structured data, not inline text.
var citationMarkerPattern = regexp.MustCompile(`\[\d+\]`)

type AskUseCase struct {
	index     ports.VectorIndex
	generator ports.CompletionClient
	topK      int
}

func NewAskUseCase(index ports.VectorIndex, generator ports.CompletionClient, topK int) *AskUseCase {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &AskUseCase{
		index:     index,
		generator: generator,
		topK:      topK,
	}
}

// Ask answers a question grounded in the indexed documents. The engine is
// stateless across calls; with identical index contents and deterministic
// generation, identical questions produce identical results.
func (uc *AskUseCase) Ask(ctx context.Context, question string, language domain.Language) (*domain.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("empty question"))
	}

	count, err := uc.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count indexed chunks: %w", err)
	}
	if count == 0 {
		return nil, domain.WrapError(domain.ErrNotReady, "ask", errors.New("index contains no documents"))
	}

	passages, err := uc.index.Query(ctx, question, uc.topK, domain.SearchFilter{})
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	if len(passages) == 0 {
		return &domain.AnswerResult{
			Answer:  noContextAnswer,
			Sources: []domain.SourceCitation{},
		}, nil
	}

	raw, err := uc.generator.Complete(ctx, buildSystemMessage(language), buildUserMessage(question, passages))
	if err != nil {
		if domain.IsKind(err, domain.ErrGeneration) || domain.IsKind(err, domain.ErrTemporary) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrGeneration, "generate answer", err)
	}

	return &domain.AnswerResult{
		Answer:  stripCitationMarkers(raw),
		Sources: dedupSources(passages),
	}, nil
}

func buildUserMessage(question string, passages []domain.RetrievedPassage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = fmt.Sprintf("Source: %s\n%s", sourceOf(p), p.Text)
	}
	return fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s\n\nAnswer:", strings.Join(parts, "\n\n"), question)
}

func stripCitationMarkers(text string) string {
	return strings.TrimSpace(citationMarkerPattern.ReplaceAllString(text, ""))
}

// dedupSources assigns citation ids in first-appearance order over the
// retrieved passages. Later passages from an already-cited source are
// dropped.
func dedupSources(passages []domain.RetrievedPassage) []domain.SourceCitation {
	seen := make(map[string]bool, len(passages))
	sources := make([]domain.SourceCitation, 0, len(passages))
	for _, p := range passages {
		source := sourceOf(p)
		if seen[source] {
			continue
		}
		seen[source] = true
		sources = append(sources, domain.SourceCitation{
			ID:      len(sources) + 1,
			Source:  source,
			Preview: preview(p.Text),
		})
	}
	return sources
}

func sourceOf(p domain.RetrievedPassage) string {
	if p.Meta.Source == "" {
		return "unknown"
	}
	return p.Meta.Source
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}
