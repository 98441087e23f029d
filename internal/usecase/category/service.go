// Package category resolves a free-text query to a single winning category
// candidate: hybrid retrieval narrows the catalog, an external classifier
// picks the winner, and a deterministic fallback covers classifier failure.
package category

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
	"github.com/kailas-cloud/prodfind/internal/domain/classify"
	"github.com/kailas-cloud/prodfind/internal/logger"
)

// Retriever narrows a query to candidate categories.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]catalog.Candidate, error)
}

// Classifier picks one winning candidate, best-effort.
type Classifier interface {
	Classify(ctx context.Context, query string, candidates []catalog.Candidate) (classify.Outcome, error)
}

// Service runs the category resolution branch of a search.
type Service struct {
	retriever     Retriever
	classifier    Classifier // nil disables classification
	topK          int
	fallbackToTop bool
}

// New creates a category resolution service. classifier may be nil, in which
// case the retriever's top candidate wins directly.
func New(retriever Retriever, classifier Classifier, topK int, fallbackToTop bool) *Service {
	return &Service{
		retriever:     retriever,
		classifier:    classifier,
		topK:          topK,
		fallbackToTop: fallbackToTop,
	}
}

// Resolve returns the winning candidate or nil when the catalog offers
// nothing usable. Classifier failure degrades to the retriever's top
// candidate (when fallback is enabled) and is never returned as an error;
// only retrieval itself can fail.
func (s *Service) Resolve(ctx context.Context, query string) (*catalog.Candidate, error) {
	candidates, err := s.retriever.Search(ctx, query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve categories: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if s.classifier == nil {
		return &candidates[0], nil
	}

	outcome, err := s.classifier.Classify(ctx, query, candidates)
	if err != nil {
		logger.FromContext(ctx).Warn("classifier failed, degrading",
			zap.Error(err),
			zap.String("query", query),
		)
		return s.fallback(candidates), nil
	}

	if winner, ok := outcome.Matched(); ok {
		return &winner, nil
	}

	logger.FromContext(ctx).Debug("classifier returned no match",
		zap.String("reason", outcome.Reason()),
		zap.String("query", query),
	)
	return s.fallback(candidates), nil
}

func (s *Service) fallback(candidates []catalog.Candidate) *catalog.Candidate {
	if !s.fallbackToTop {
		return nil
	}
	return &candidates[0]
}
