// Package metadata holds the product records of one index snapshot,
// positionally aligned with the vector index rows. Loaded once at startup,
// read-only thereafter.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/prodfind/internal/domain/product"
)

// Store maps vector index rows to product records.
type Store struct {
	records []product.Record
}

// Load reads the snapshot metadata file written by the indexing job. Array
// order defines the row positions.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}

	var records []product.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}

	return &Store{records: records}, nil
}

// NewFromRecords builds a store directly from records (tests, tooling).
func NewFromRecords(records []product.Record) *Store {
	return &Store{records: records}
}

// Get returns the record at the given row, reporting whether the row is
// within the snapshot bounds.
func (s *Store) Get(row int) (product.Record, bool) {
	if row < 0 || row >= len(s.records) {
		return product.Record{}, false
	}
	return s.records[row], true
}

// Count returns the number of indexed products.
func (s *Store) Count() int { return len(s.records) }
