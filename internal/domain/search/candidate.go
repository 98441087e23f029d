// Package search holds the per-request search result types. All values here
// are created and discarded within one request; nothing is shared across
// concurrent requests.
package search

import (
	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
	"github.com/kailas-cloud/prodfind/internal/domain/product"
)

// Candidate is one product hit flowing through the pipeline. Similarity is
// batch-relative in [0,1]. Rank is the 1-based position in the neighbor
// order before threshold filtering, so ranks are not necessarily contiguous.
// FinalScore and CategoryMatch are set by the fusion ranker.
type Candidate struct {
	Product       product.Record `json:"product"`
	Similarity    float64        `json:"similarity_score"`
	Rank          int            `json:"search_rank"`
	FinalScore    float64        `json:"final_score"`
	CategoryMatch bool           `json:"category_match"`
}

// Result is the final outcome of one orchestrated search. Category is nil
// when category resolution produced nothing usable.
type Result struct {
	Query    string             `json:"query"`
	Category *catalog.Candidate `json:"selected_category"`
	Products []Candidate        `json:"products"`
}
