package search

import (
	"context"

	"github.com/kailas-cloud/prodfind/internal/domain"
	"github.com/kailas-cloud/prodfind/internal/domain/product"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string, kind domain.TextKind) (domain.EmbeddingResult, error)
}

// VectorIndex finds nearest neighbors for a query vector, ordered by
// ascending distance. May return fewer than k when fewer are indexed.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.Neighbor, error)
}

// MetadataReader maps vector index rows to product records.
type MetadataReader interface {
	Get(row int) (product.Record, bool)
	Count() int
}
