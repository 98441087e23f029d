package domain

import "errors"

var (
	// ErrServiceUnavailable signals that the embedding provider or the vector
	// index cannot be reached. Fatal to the current request, never retried.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrClassificationDegraded signals a failed or unparseable classifier
	// response. Recovered locally, never surfaced as a request failure.
	ErrClassificationDegraded = errors.New("classification degraded")
	// ErrEmptyCatalog signals a category catalog with zero subcategories.
	ErrEmptyCatalog = errors.New("empty category catalog")
	// ErrEmptyIndex signals a vector index with zero products.
	ErrEmptyIndex = errors.New("empty product index")
	// ErrInvalidQuery signals a request outside the accepted parameter range.
	ErrInvalidQuery = errors.New("invalid query")
)
