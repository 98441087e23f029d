// Package retriever implements the hybrid category retriever: a startup-built
// embedding index over catalog subcategory descriptors, queried with combined
// semantic and keyword scoring.
package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/prodfind/internal/domain"
	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string, kind domain.TextKind) (domain.EmbeddingResult, error)
}

// Params tunes the hybrid scoring.
type Params struct {
	SemanticWeight float64
	KeywordWeight  float64
	ScoreThreshold float64
}

// entry is one indexed subcategory: its candidate projection, the normalized
// keyword set, and the descriptor embedding.
type entry struct {
	candidate catalog.Candidate
	keywords  []string
	vector    []float32
}

// Retriever answers category-candidate queries against the catalog index.
// Immutable after construction; safe for concurrent use.
type Retriever struct {
	embed   Embedder
	entries []entry
	params  Params
}

// New builds the catalog index: every subcategory descriptor
// "{category} {subcategory} {keywords...}" is embedded once. Any failed
// embedding call aborts construction; there is no partial index.
func New(ctx context.Context, categories []catalog.Category, embed Embedder, params Params) (*Retriever, error) {
	r := &Retriever{embed: embed, params: params}

	for _, cat := range categories {
		for _, sub := range cat.Subcategories {
			descriptor := strings.TrimSpace(
				cat.Name + " " + sub.Name + " " + strings.Join(sub.Keywords, " "),
			)

			res, err := embed.Embed(ctx, descriptor, domain.TextPassage)
			if err != nil {
				return nil, fmt.Errorf("index subcategory %q: %w", sub.Name, err)
			}

			keywords := make([]string, 0, len(sub.Keywords))
			for _, kw := range sub.Keywords {
				keywords = append(keywords, strings.ToLower(kw))
			}

			r.entries = append(r.entries, entry{
				candidate: catalog.Candidate{
					CategoryName:    cat.Name,
					SubcategoryName: sub.Name,
					SubcategoryURL:  sub.URL,
				},
				keywords: keywords,
				vector:   res.Embedding,
			})
		}
	}

	return r, nil
}

// Size returns the number of indexed subcategories.
func (r *Retriever) Size() int { return len(r.entries) }

// Search returns up to topK candidates scored by
// semantic*W_sem + keyword*W_kw, descending. Ties keep catalog insertion
// order. Candidates scoring at or below the threshold are dropped even
// inside the top-k window. An empty query returns nothing without scoring.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]catalog.Candidate, error) {
	if strings.TrimSpace(query) == "" || len(r.entries) == 0 || topK <= 0 {
		return nil, nil
	}

	queryLower := strings.ToLower(query)

	res, err := r.embed.Embed(ctx, queryLower, domain.TextQuery)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	scores := make([]float64, len(r.entries))
	for i, e := range r.entries {
		semantic := cosineSimilarity(res.Embedding, e.vector)

		keyword := 0.0
		for _, kw := range e.keywords {
			if kw != "" && strings.Contains(queryLower, kw) {
				keyword = 1.0
				break
			}
		}

		scores[i] = semantic*r.params.SemanticWeight + keyword*r.params.KeywordWeight
	}

	// Stable sort of index positions: ties resolve to catalog insertion order.
	order := make([]int, len(r.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK < len(order) {
		order = order[:topK]
	}

	candidates := make([]catalog.Candidate, 0, len(order))
	for _, i := range order {
		if scores[i] <= r.params.ScoreThreshold {
			continue
		}
		c := r.entries[i].candidate
		c.Score = scores[i]
		candidates = append(candidates, c)
	}

	return candidates, nil
}
