// Package vectorindex adapts the Redis vector store to the nearest-neighbor
// contract the search engine consumes: raw ascending distances plus the row
// position encoded in each document key.
package vectorindex

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/prodfind/internal/db"
	"github.com/kailas-cloud/prodfind/internal/domain"
)

// store is the consumer interface for index operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	Ping(ctx context.Context) error
}

// Repo implements usecase/search.VectorIndex.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
}

// New creates a vector index repository. Documents are expected under
// "{keyPrefix}{row}" keys as written by the indexing job.
func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// Search returns up to k neighbors ordered by ascending distance. Keys that
// do not carry a numeric row suffix are skipped. An unreachable store maps
// to ErrServiceUnavailable.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]domain.Neighbor, error) {
	q := &db.KNNQuery{
		IndexName: r.indexName,
		Vector:    vector,
		K:         k,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %v: %w", r.indexName, err, domain.ErrServiceUnavailable)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	neighbors := make([]domain.Neighbor, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rowStr := strings.TrimPrefix(entry.Key, r.keyPrefix)
		row, err := strconv.Atoi(rowStr)
		if err != nil {
			continue
		}
		neighbors = append(neighbors, domain.Neighbor{Row: row, Distance: entry.Distance})
	}

	return neighbors, nil
}

// Ping checks store connectivity for readiness reporting.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("vector store ping: %v: %w", err, domain.ErrServiceUnavailable)
	}
	return nil
}
