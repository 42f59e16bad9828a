// Package qdrant stores chunk embeddings in a Qdrant collection over its
// REST API and serves similarity queries against it.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docqa-dev/docqa/internal/core/domain"
	"github.com/docqa-dev/docqa/internal/core/ports"
)

type Config struct {
	BaseURL    string
	Collection string
	Timeout    time.Duration
}

type Index struct {
	baseURL    string
	collection string
	embedder   ports.Embedder
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(cfg Config, embedder ports.Embedder) *Index {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Index{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: cfg.Collection,
		embedder:   embedder,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert embeds the chunk texts and writes one point per chunk. It returns
// the generated point IDs in chunk order.
func (x *Index) Upsert(ctx context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := x.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("chunks/vectors mismatch: %d vs %d", len(chunks), len(vectors))
	}

	if err := x.ensureCollection(ctx, len(vectors[0])); err != nil {
		return nil, err
	}

	ids := make([]string, len(chunks))
	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		ids[i] = uuid.NewString()
		points = append(points, point{
			ID:     ids[i],
			Vector: vectors[i],
			Payload: map[string]any{
				"source":       chunk.Meta.Source,
				"page":         chunk.Meta.Page,
				"total_pages":  chunk.Meta.TotalPages,
				"doc_type":     chunk.Meta.DocType,
				"chunk_id":     chunk.ChunkID,
				"chunk_size":   chunk.ChunkSize,
				"total_chunks": chunk.TotalChunks,
				"text":         chunk.Text,
			},
		})
	}

	if err := x.upsertPoints(ctx, points); err != nil {
		return nil, err
	}
	return ids, nil
}

func (x *Index) upsertPoints(ctx context.Context, points []point) error {
	status, _, err := x.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", x.collection),
		map[string]any{"points": points}, nil, "upsert")
	if err == nil {
		return nil
	}
	// A 404 here means the collection was dropped behind our back.
	// Recreate it once and retry.
	if status == http.StatusNotFound {
		x.forgetCollection()
		if len(points) == 0 || len(points[0].Vector) == 0 {
			return err
		}
		if ensureErr := x.ensureCollection(ctx, len(points[0].Vector)); ensureErr != nil {
			return ensureErr
		}
		_, _, retryErr := x.do(ctx, http.MethodPut,
			fmt.Sprintf("/collections/%s/points?wait=true", x.collection),
			map[string]any{"points": points}, nil, "upsert")
		return retryErr
	}
	return err
}

// Query embeds the question text and returns the k most similar chunks,
// highest score first, optionally restricted to a single source file.
func (x *Index) Query(ctx context.Context, text string, k int, filter domain.SearchFilter) ([]domain.RetrievedPassage, error) {
	vector, err := x.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	reqBody := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	if filter.Source != "" {
		reqBody["filter"] = map[string]any{
			"must": []map[string]any{
				{
					"key": "source",
					"match": map[string]any{
						"value": filter.Source,
					},
				},
			},
		}
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if _, _, err := x.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/search", x.collection),
		reqBody, &searchResp, "search"); err != nil {
		return nil, err
	}

	out := make([]domain.RetrievedPassage, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, domain.RetrievedPassage{
			Chunk: domain.Chunk{
				Text: payloadString(r.Payload, "text"),
				Meta: domain.DocumentMeta{
					Source:     payloadString(r.Payload, "source"),
					Page:       payloadInt(r.Payload, "page"),
					TotalPages: payloadInt(r.Payload, "total_pages"),
					DocType:    payloadString(r.Payload, "doc_type"),
				},
				ChunkID:     payloadInt(r.Payload, "chunk_id"),
				ChunkSize:   payloadInt(r.Payload, "chunk_size"),
				TotalChunks: payloadInt(r.Payload, "total_chunks"),
			},
			Score: r.Score,
		})
	}
	return out, nil
}

// Count returns the number of indexed points. A missing collection counts
// as zero so a fresh deployment reports not-ready instead of failing.
func (x *Index) Count(ctx context.Context) (int, error) {
	var infoResp struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	status, _, err := x.do(ctx, http.MethodGet,
		fmt.Sprintf("/collections/%s", x.collection), nil, &infoResp, "collection info")
	if err != nil {
		if status == http.StatusNotFound {
			return 0, nil
		}
		return 0, err
	}
	return infoResp.Result.PointsCount, nil
}

func (x *Index) ensureCollection(ctx context.Context, vectorSize int) error {
	x.ensureMu.Lock()
	if x.ensuredCollection && x.ensuredVectorSize == vectorSize {
		x.ensureMu.Unlock()
		return nil
	}
	x.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}

	status, _, err := x.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s", x.collection), reqBody, nil, "ensure collection")
	// 200/201 for create, 409 if the collection already exists.
	if status == http.StatusConflict || err == nil {
		x.markCollectionEnsured(vectorSize)
		return nil
	}
	return err
}

func (x *Index) markCollectionEnsured(vectorSize int) {
	x.ensureMu.Lock()
	defer x.ensureMu.Unlock()
	x.ensuredCollection = true
	x.ensuredVectorSize = vectorSize
}

func (x *Index) forgetCollection() {
	x.ensureMu.Lock()
	defer x.ensureMu.Unlock()
	x.ensuredCollection = false
	x.ensuredVectorSize = 0
}

func (x *Index) do(ctx context.Context, method, path string, payload any, out any, operation string) (int, []byte, error) {
	var reqReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal %s body: %w", operation, err)
		}
		reqReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, reqReader)
	if err != nil {
		return 0, nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("qdrant %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return resp.StatusCode, raw, fmt.Errorf("qdrant %s status: %s: %s", operation, resp.Status, msg)
		}
		return resp.StatusCode, raw, fmt.Errorf("qdrant %s status: %s", operation, resp.Status)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, raw, fmt.Errorf("decode %s response: %w", operation, err)
		}
	}
	return resp.StatusCode, raw, nil
}

func payloadString(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func payloadInt(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
