// Package db defines the storage-facing query and result types shared
// between repositories and the concrete store implementation.
package db

import "context"

// KNNQuery describes a nearest-neighbor search against a vector index.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchEntry is one raw hit: the document key, its distance to the query
// vector, and any requested fields.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}

// SearchResult is the raw outcome of a KNN search, ordered by ascending
// distance.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// Store is the contract the serving path needs from the vector store.
type Store interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	Ping(ctx context.Context) error
	Close()
}
