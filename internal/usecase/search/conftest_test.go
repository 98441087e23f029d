package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/prodfind/internal/domain"
	"github.com/kailas-cloud/prodfind/internal/domain/product"
	domsearch "github.com/kailas-cloud/prodfind/internal/domain/search"
)

// mockEmbedder records the last embedded text and kind.
type mockEmbedder struct {
	vec      []float32
	err      error
	lastText string
	lastKind domain.TextKind
}

func (m *mockEmbedder) Embed(_ context.Context, text string, kind domain.TextKind) (domain.EmbeddingResult, error) {
	m.lastText = text
	m.lastKind = kind
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// mockIndex returns canned neighbors and records the requested k.
type mockIndex struct {
	neighbors []domain.Neighbor
	err       error
	lastK     int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]domain.Neighbor, error) {
	m.lastK = k
	return m.neighbors, m.err
}

// mockMetadata serves generated products for rows [0, count).
type mockMetadata struct {
	count int
}

func (m *mockMetadata) Get(row int) (product.Record, bool) {
	if row < 0 || row >= m.count {
		return product.Record{}, false
	}
	return product.Record{
		Title:    fmt.Sprintf("Product %d", row),
		Category: "Phones",
		Link:     fmt.Sprintf("/p/%d", row),
	}, true
}

func (m *mockMetadata) Count() int { return m.count }

func defaultEngineParams() Params {
	return Params{ExpansionFactor: 3, SimilarityThreshold: 0.3}
}

func candidate(title, category string, similarity float64, rank int) domsearch.Candidate {
	return domsearch.Candidate{
		Product:    product.Record{Title: title, Category: category},
		Similarity: similarity,
		Rank:       rank,
	}
}
