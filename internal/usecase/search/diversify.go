package search

import domsearch "github.com/kailas-cloud/prodfind/internal/domain/search"

// diversifyMinSize is the list length below which reordering buys nothing.
const diversifyMinSize = 3

// Diversify reorders a ranked list so the first occurrence of each category
// surfaces before repeats, then appends the skipped candidates in their
// original relative order. Changes ordering only, never cardinality.
func Diversify(ranked []domsearch.Candidate) []domsearch.Candidate {
	if len(ranked) <= diversifyMinSize {
		return ranked
	}

	diversified := make([]domsearch.Candidate, 0, len(ranked))
	emitted := make([]bool, len(ranked))
	seen := make(map[string]struct{}, len(ranked))

	for i, c := range ranked {
		if _, ok := seen[c.Product.Category]; ok {
			continue
		}
		seen[c.Product.Category] = struct{}{}
		emitted[i] = true
		diversified = append(diversified, c)
	}

	for i, c := range ranked {
		if !emitted[i] {
			diversified = append(diversified, c)
		}
	}

	return diversified
}
