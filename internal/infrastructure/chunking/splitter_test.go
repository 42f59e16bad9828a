package chunking

import (
	"strings"
	"testing"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

func mustSplitter(t *testing.T, size, overlap int) *RecursiveSplitter {
	t.Helper()
	s, err := NewRecursiveSplitter(size, overlap)
	if err != nil {
		t.Fatalf("NewRecursiveSplitter(%d, %d) error = %v", size, overlap, err)
	}
	return s
}

func TestNewRecursiveSplitterRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecursiveSplitter(tc.size, tc.overlap)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !domain.IsKind(err, domain.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestSplitDocumentsEmptyBatch(t *testing.T) {
	s := mustSplitter(t, 1000, 200)
	if got := s.SplitDocuments(nil); len(got) != 0 {
		t.Fatalf("expected no chunks, got %d", len(got))
	}
}

func TestSplitDocumentsShortDocumentSingleChunk(t *testing.T) {
	s := mustSplitter(t, 1000, 200)
	docs := []domain.Document{{
		Text: "RAG reduces hallucinations by grounding answers in retrieved context.",
		Meta: domain.DocumentMeta{Source: "rag.txt", DocType: "txt"},
	}}

	chunks := s.SplitDocuments(docs)
	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Text != docs[0].Text {
		t.Fatalf("expected chunk to equal document text, got %q", c.Text)
	}
	if c.ChunkID != 0 || c.TotalChunks != 1 {
		t.Fatalf("expected chunk_id=0 total_chunks=1, got %d/%d", c.ChunkID, c.TotalChunks)
	}
	if c.ChunkSize != len(docs[0].Text) {
		t.Fatalf("expected chunk_size=%d, got %d", len(docs[0].Text), c.ChunkSize)
	}
	if c.Meta.Source != "rag.txt" || c.Meta.DocType != "txt" {
		t.Fatalf("expected inherited metadata, got %+v", c.Meta)
	}
}

func TestSplitDocumentsChunkIDsContiguousAcrossBatch(t *testing.T) {
	s := mustSplitter(t, 10, 0)
	docs := []domain.Document{
		{Text: "aaaa bbbb cccc", Meta: domain.DocumentMeta{Source: "one.txt"}},
		{Text: "1111 2222 3333 4444", Meta: domain.DocumentMeta{Source: "two.txt"}},
	}

	chunks := s.SplitDocuments(docs)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkID != i {
			t.Fatalf("chunk %d has chunk_id %d", i, c.ChunkID)
		}
		if c.TotalChunks != len(chunks) {
			t.Fatalf("chunk %d has total_chunks %d, want %d", i, c.TotalChunks, len(chunks))
		}
	}
	if chunks[1].Meta.Source != "one.txt" || chunks[2].Meta.Source != "two.txt" {
		t.Fatalf("chunks attributed to wrong documents: %+v", chunks)
	}
}

func TestSplitTextRespectsChunkSize(t *testing.T) {
	s := mustSplitter(t, 10, 3)
	text := strings.Repeat("alpha beta gamma delta ", 20)

	for i, chunk := range s.SplitText(text) {
		if n := len([]rune(chunk)); n > 10 {
			t.Fatalf("chunk %d has %d runes, exceeds chunk size", i, n)
		}
	}
}

func TestSplitTextCarriesOverlap(t *testing.T) {
	s := mustSplitter(t, 10, 3)
	chunks := s.SplitText("aaaa bbbb cccc")
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %v", chunks)
	}
	if chunks[0] != "aaaa bbbb" {
		t.Fatalf("unexpected first chunk %q", chunks[0])
	}
	if chunks[1] != "bbb cccc" {
		t.Fatalf("expected second chunk to start with trailing overlap of first, got %q", chunks[1])
	}
}

func TestSplitTextKeepsSeparatorAtBoundary(t *testing.T) {
	s := mustSplitter(t, 12, 0)
	chunks := s.SplitText("para one.\n\npara two.")
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %v", chunks)
	}
	if !strings.HasPrefix(chunks[1], "\n\n") {
		t.Fatalf("expected paragraph separator retained, got %q", chunks[1])
	}
	if strings.Join(chunks, "") != "para one.\n\npara two." {
		t.Fatalf("boundary text lost: %v", chunks)
	}
}

func TestSplitTextSentenceBoundaries(t *testing.T) {
	s := mustSplitter(t, 15, 0)
	chunks := s.SplitText("Alpha beta. Gamma delta. Epsilon zeta.")
	want := []string{"Alpha beta", ". Gamma delta", ". Epsilon zeta."}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitTextCharacterFallbackForLongWord(t *testing.T) {
	s := mustSplitter(t, 5, 0)
	chunks := s.SplitText("aaaaaaaaaaaab")
	want := []string{"aaaaa", "aaaaa", "aab"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitTextCharacterFallbackCarriesOverlap(t *testing.T) {
	s := mustSplitter(t, 5, 2)
	chunks := s.SplitText("abcdefghijkl")
	want := []string{"abcde", "defgh", "ghijk", "jkl"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-2:])
		if !strings.HasPrefix(chunks[i], tail) {
			t.Fatalf("chunk %d %q does not start with trailing overlap %q of chunk %d", i, chunks[i], tail, i-1)
		}
	}
}

func TestSplitTextCountsRunesNotBytes(t *testing.T) {
	s := mustSplitter(t, 4, 0)
	chunks := s.SplitText("абвгде")
	want := []string{"абвг", "де"}
	if len(chunks) != len(want) || chunks[0] != want[0] || chunks[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, chunks)
	}
}

func TestSplitTextEmptyAndWhitespaceOnly(t *testing.T) {
	s := mustSplitter(t, 100, 10)
	if got := s.SplitText(""); len(got) != 0 {
		t.Fatalf("expected no chunks for empty input, got %v", got)
	}
	if got := s.SplitText("   \n\t  "); len(got) != 0 {
		t.Fatalf("expected no chunks for whitespace input, got %v", got)
	}
}

func TestSplitTextRoundTripWithoutOverlap(t *testing.T) {
	s := mustSplitter(t, 12, 0)
	text := "one two three four five six seven eight nine ten"
	chunks := s.SplitText(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	if strings.Join(chunks, "") != text {
		t.Fatalf("concatenated chunks differ from input: %v", chunks)
	}
}

func TestSplitTextRoundTripMinusOverlap(t *testing.T) {
	s := mustSplitter(t, 10, 3)
	text := "aaaa bbbb cccc dddd"
	chunks := s.SplitText(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}

	rebuilt := chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		carry := 3
		if carry > len(prev) {
			carry = len(prev)
		}
		if carry > len(cur) {
			carry = len(cur)
		}
		if string(cur[:carry]) != string(prev[len(prev)-carry:]) {
			t.Fatalf("chunk %d does not start with overlap of chunk %d: %q / %q", i, i-1, chunks[i-1], chunks[i])
		}
		rebuilt += string(cur[carry:])
	}
	if rebuilt != text {
		t.Fatalf("round trip failed: got %q want %q", rebuilt, text)
	}
}

func TestStatistics(t *testing.T) {
	s := mustSplitter(t, 10, 0)
	chunks := s.SplitDocuments([]domain.Document{
		{Text: "aaaa bbbb cccc", Meta: domain.DocumentMeta{Source: "a.txt"}},
	})

	stats := domain.ChunkStatistics(chunks)
	if stats.TotalChunks != len(chunks) {
		t.Fatalf("expected total %d, got %d", len(chunks), stats.TotalChunks)
	}
	if stats.MinChunkSize <= 0 || stats.MaxChunkSize < stats.MinChunkSize {
		t.Fatalf("implausible stats: %+v", stats)
	}
	if stats.TotalCharacters != len("aaaa bbbb cccc") {
		t.Fatalf("expected total characters %d, got %d", len("aaaa bbbb cccc"), stats.TotalCharacters)
	}

	if got := domain.ChunkStatistics(nil); got.TotalChunks != 0 {
		t.Fatalf("expected zero stats for no chunks, got %+v", got)
	}
}
