package search

import (
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
	domsearch "github.com/kailas-cloud/prodfind/internal/domain/search"
)

// Ranker fuses category relevance and lexical term overlap into the
// similarity scores produced by the vector search.
type Ranker struct {
	categoryBoost  float64
	termMatchBoost float64
}

// NewRanker creates a fusion ranker.
func NewRanker(categoryBoost, termMatchBoost float64) *Ranker {
	return &Ranker{categoryBoost: categoryBoost, termMatchBoost: termMatchBoost}
}

// Fuse sets FinalScore on every candidate and sorts descending, ties broken
// by pre-fusion rank. The category boost fires when the resolved subcategory
// name is a substring of the product's category label; the match is
// asymmetric, so short names can over-match (kept as-is, see DESIGN.md).
func (r *Ranker) Fuse(candidates []domsearch.Candidate, resolved *catalog.Candidate, query string) []domsearch.Candidate {
	categoryName := ""
	if resolved != nil {
		categoryName = strings.ToLower(resolved.SubcategoryName)
	}
	terms := distinctTerms(query)

	fused := make([]domsearch.Candidate, len(candidates))
	copy(fused, candidates)

	for i := range fused {
		score := fused[i].Similarity

		if categoryName != "" && strings.Contains(strings.ToLower(fused[i].Product.Category), categoryName) {
			score *= r.categoryBoost
			fused[i].CategoryMatch = true
		}

		titleLower := strings.ToLower(fused[i].Product.Title)
		matches := 0
		for _, term := range terms {
			if strings.Contains(titleLower, term) {
				matches++
			}
		}
		score *= 1 + float64(matches)*r.termMatchBoost

		fused[i].FinalScore = math.Min(1.0, score)
	}

	sort.SliceStable(fused, func(a, b int) bool {
		if fused[a].FinalScore != fused[b].FinalScore {
			return fused[a].FinalScore > fused[b].FinalScore
		}
		return fused[a].Rank < fused[b].Rank
	})

	return fused
}

// distinctTerms splits the lowercased query on whitespace, deduplicated.
func distinctTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
