// Package catalog holds the category catalog loaded once at startup and the
// per-query retrieval candidate projection.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Subcategory is one leaf of the catalog tree. Keywords are free-form
// strings or phrases matched by substring against lowercased queries.
type Subcategory struct {
	Name     string   `json:"subcategory_name"`
	URL      string   `json:"subcategory_url"`
	Keywords []string `json:"keywords"`
}

// Category groups an ordered list of subcategories.
type Category struct {
	Name          string        `json:"category_name"`
	URL           string        `json:"category_url"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Candidate is a scored, keyword-stripped projection of one subcategory,
// produced per query by the hybrid retriever.
type Candidate struct {
	CategoryName    string  `json:"category_name"`
	SubcategoryName string  `json:"subcategory_name"`
	SubcategoryURL  string  `json:"subcategory_url"`
	Score           float64 `json:"-"`
}

// Load reads the category catalog from a JSON file. The file order defines
// catalog insertion order, which the retriever uses for tie-breaking.
func Load(path string) ([]Category, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return categories, nil
}

// CountSubcategories returns the total number of subcategories in the catalog.
func CountSubcategories(categories []Category) int {
	n := 0
	for _, c := range categories {
		n += len(c.Subcategories)
	}
	return n
}
