// Package search implements the vector search engine and the result fusion
// and diversification passes over its output.
package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodfind/internal/domain"
	domsearch "github.com/kailas-cloud/prodfind/internal/domain/search"
	"github.com/kailas-cloud/prodfind/internal/logger"
)

// Params tunes the vector search.
type Params struct {
	// ExpansionFactor widens the neighbor fetch to topK*ExpansionFactor so
	// threshold filtering does not starve the result set.
	ExpansionFactor     int
	SimilarityThreshold float64
}

// Engine runs nearest-neighbor product search with query preprocessing and
// batch-relative similarity normalization. Immutable after construction.
type Engine struct {
	embed      Embedder
	index      VectorIndex
	metadata   MetadataReader
	expansions []Expansion
	params     Params
}

// NewEngine creates a vector search engine. expansions may be nil.
func NewEngine(embed Embedder, index VectorIndex, metadata MetadataReader, expansions []Expansion, params Params) *Engine {
	return &Engine{
		embed:      embed,
		index:      index,
		metadata:   metadata,
		expansions: expansions,
		params:     params,
	}
}

// Search embeds the preprocessed query and returns candidates above the
// similarity threshold. Rank reflects the neighbor order before filtering
// and is intentionally left non-contiguous for fusion input. Failure of the
// embedding provider or the vector index is a hard error; an empty index
// yields an empty result.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]domsearch.Candidate, error) {
	total := e.metadata.Count()
	if total == 0 || topK <= 0 {
		return nil, nil
	}

	processed := e.preprocess(query)

	emb, err := e.embed.Embed(ctx, processed, domain.TextQuery)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	searchK := topK * e.params.ExpansionFactor
	if searchK > total {
		searchK = total
	}

	neighbors, err := e.index.Search(ctx, emb.Embedding, searchK)
	if err != nil {
		return nil, fmt.Errorf("neighbor search: %w", err)
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	minDist, maxDist := distanceBounds(neighbors)

	candidates := make([]domsearch.Candidate, 0, len(neighbors))
	for i, n := range neighbors {
		record, ok := e.metadata.Get(n.Row)
		if !ok {
			// Row outside the snapshot bounds: skip, never fatal.
			logger.FromContext(ctx).Warn("vector index returned invalid row",
				zap.Int("row", n.Row),
				zap.Int("total", total),
			)
			continue
		}

		similarity := 1.0
		if maxDist > minDist {
			similarity = 1.0 - (n.Distance-minDist)/(maxDist-minDist)
		}
		if similarity < e.params.SimilarityThreshold {
			continue
		}

		candidates = append(candidates, domsearch.Candidate{
			Product:    record,
			Similarity: round4(similarity),
			Rank:       i + 1,
		})
	}

	return candidates, nil
}

// preprocess trims and lowercases the query, then applies the first matching
// expansion as a whole-query replacement. Deliberately simple substitution.
func (e *Engine) preprocess(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, exp := range e.expansions {
		if exp.Term != "" && strings.Contains(q, exp.Term) {
			return exp.Replacement
		}
	}
	return q
}

// distanceBounds returns min and max over the whole neighbor batch,
// including entries later skipped as invalid.
func distanceBounds(neighbors []domain.Neighbor) (float64, float64) {
	minDist, maxDist := neighbors[0].Distance, neighbors[0].Distance
	for _, n := range neighbors[1:] {
		if n.Distance < minDist {
			minDist = n.Distance
		}
		if n.Distance > maxDist {
			maxDist = n.Distance
		}
	}
	return minDist, maxDist
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
