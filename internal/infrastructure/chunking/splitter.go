package chunking

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

// Separators tried in priority order. The empty string is the
// character-level last resort and always matches.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter cuts text at the coarsest separator that keeps pieces
// within chunkSize, re-splitting oversized pieces with the next separator
// in the list. Separator text stays attached to the piece that follows
// it, so concatenating pieces reproduces the input. Adjacent pieces are
// then packed into chunks of at most chunkSize runes, and each chunk
// after the first starts with the trailing overlap runes of its
// predecessor.
type RecursiveSplitter struct {
	chunkSize int
	overlap   int
}

func NewRecursiveSplitter(chunkSize, overlap int) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, domain.WrapError(domain.ErrConfiguration, "new splitter", errors.New("chunk size must be positive"))
	}
	if overlap < 0 {
		return nil, domain.WrapError(domain.ErrConfiguration, "new splitter", errors.New("chunk overlap must not be negative"))
	}
	if overlap >= chunkSize {
		return nil, domain.WrapError(domain.ErrConfiguration, "new splitter", errors.New("chunk overlap must be smaller than chunk size"))
	}
	return &RecursiveSplitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// SplitDocuments chunks every document in the batch and enriches each
// chunk with the parent metadata plus batch-wide position fields.
// ChunkID runs 0..n-1 across all documents of the call.
func (s *RecursiveSplitter) SplitDocuments(docs []domain.Document) []domain.Chunk {
	if len(docs) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		for _, text := range s.SplitText(doc.Text) {
			chunks = append(chunks, domain.Chunk{
				Text:      text,
				Meta:      doc.Meta,
				ChunkSize: utf8.RuneCountInString(text),
			})
		}
	}
	for i := range chunks {
		chunks[i].ChunkID = i
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}

// SplitText splits raw text with no metadata wrapper. Empty or
// whitespace-only input yields no chunks.
func (s *RecursiveSplitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	pieces := s.split([]rune(text), separators)
	return s.pack(pieces)
}

// split returns ordered pieces of at most chunkSize runes each.
func (s *RecursiveSplitter) split(text []rune, seps []string) [][]rune {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= s.chunkSize {
		return [][]rune{text}
	}

	sep, rest := pickSeparator(string(text), seps)
	if sep == "" {
		// Last resort: single runes, so pack still carries the overlap
		// across chunk boundaries inside an unbroken word.
		out := make([][]rune, 0, len(text))
		for i := range text {
			out = append(out, text[i:i+1])
		}
		return out
	}

	var out [][]rune
	for _, part := range splitKeepSeparator(string(text), sep) {
		runes := []rune(part)
		if len(runes) <= s.chunkSize {
			out = append(out, runes)
			continue
		}
		out = append(out, s.split(runes, rest)...)
	}
	return out
}

// pack greedily concatenates pieces into chunks of at most chunkSize
// runes and carries the trailing overlap of each chunk into the next.
// The carry shrinks when a full one would push the chunk past chunkSize.
func (s *RecursiveSplitter) pack(pieces [][]rune) []string {
	var chunks []string
	var current []rune

	for _, piece := range pieces {
		if len(current) > 0 && len(current)+len(piece) > s.chunkSize {
			chunks = append(chunks, string(current))

			carry := current
			if len(carry) > s.overlap {
				carry = carry[len(carry)-s.overlap:]
			}
			if room := s.chunkSize - len(piece); len(carry) > room {
				carry = carry[len(carry)-room:]
			}
			current = append([]rune(nil), carry...)
		}
		current = append(current, piece...)
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks
}

// pickSeparator returns the first separator present in text together with
// the separators remaining after it. The trailing "" entry always matches.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}

// splitKeepSeparator splits text at sep and reattaches sep to the front
// of each following part, so the boundary text is never lost.
func splitKeepSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
