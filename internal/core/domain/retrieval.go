package domain

// SearchFilter narrows a vector query to passages from one source document.
type SearchFilter struct {
	Source string
}

// RetrievedPassage is a chunk returned by the index for one query,
// ranked by position in the result list. Transient.
type RetrievedPassage struct {
	Chunk
	Score float64 `json:"score"`
}

// SourceCitation links an answer back to an originating document.
// IDs are sequential starting at 1, in first-appearance order.
type SourceCitation struct {
	ID      int    `json:"id"`
	Source  string `json:"source"`
	Preview string `json:"preview"`
}

// AnswerResult is the terminal output of one question.
type AnswerResult struct {
	Answer  string           `json:"answer"`
	Sources []SourceCitation `json:"sources"`
}
