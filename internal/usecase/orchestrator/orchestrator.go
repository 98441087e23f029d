// Package orchestrator coordinates the two independent lookup branches of a
// search — category resolution and vector search — and hands their joined
// output to fusion and diversification.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/prodfind/internal/domain"
	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
	domsearch "github.com/kailas-cloud/prodfind/internal/domain/search"
	"github.com/kailas-cloud/prodfind/internal/logger"
	"github.com/kailas-cloud/prodfind/internal/metrics"
	searchuc "github.com/kailas-cloud/prodfind/internal/usecase/search"
)

// MaxResultsCap bounds the accepted max_results parameter.
const MaxResultsCap = 50

// CategoryResolver resolves the query's category branch.
type CategoryResolver interface {
	Resolve(ctx context.Context, query string) (*catalog.Candidate, error)
}

// ProductSearcher runs the vector search branch.
type ProductSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]domsearch.Candidate, error)
}

// Fuser merges category relevance and term overlap into the ranking.
type Fuser interface {
	Fuse(candidates []domsearch.Candidate, resolved *catalog.Candidate, query string) []domsearch.Candidate
}

// Orchestrator is the sole search API the core exposes to front ends.
type Orchestrator struct {
	categories CategoryResolver
	products   ProductSearcher
	ranker     Fuser
	searchTopK int
}

// New creates a search orchestrator. searchTopK is the per-branch vector
// search width, independent of the caller's max_results.
func New(categories CategoryResolver, products ProductSearcher, ranker Fuser, searchTopK int) *Orchestrator {
	return &Orchestrator{
		categories: categories,
		products:   products,
		ranker:     ranker,
		searchTopK: searchTopK,
	}
}

// Search runs both branches concurrently, joins them (never races), fuses,
// diversifies and truncates to maxResults. A failed category branch degrades
// to a nil category; only infrastructure failure of the vector branch is an
// error. "No results" is an empty product list, not an error.
func (o *Orchestrator) Search(ctx context.Context, query string, maxResults int) (domsearch.Result, error) {
	if maxResults < 1 || maxResults > MaxResultsCap {
		return domsearch.Result{}, fmt.Errorf(
			"max_results must be in [1,%d], got %d: %w", MaxResultsCap, maxResults, domain.ErrInvalidQuery,
		)
	}

	result := domsearch.Result{Query: query}
	if strings.TrimSpace(query) == "" {
		return result, nil
	}

	start := time.Now()

	var (
		resolved   *catalog.Candidate
		candidates []domsearch.Candidate
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cand, err := o.categories.Resolve(gctx, query)
		if err != nil {
			// Category resolution must never abort the product search.
			logger.FromContext(ctx).Warn("category resolution degraded",
				zap.Error(err),
				zap.String("query", query),
			)
			return nil
		}
		resolved = cand
		return nil
	})

	g.Go(func() error {
		found, err := o.products.Search(gctx, query, o.searchTopK)
		if err != nil {
			return fmt.Errorf("product search: %w", err)
		}
		candidates = found
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return domsearch.Result{}, err
	}

	fused := o.ranker.Fuse(candidates, resolved, query)
	products := searchuc.Diversify(fused)
	if len(products) > maxResults {
		products = products[:maxResults]
	}

	result.Category = resolved
	result.Products = products

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResultsReturned.Observe(float64(len(products)))

	return result, nil
}
