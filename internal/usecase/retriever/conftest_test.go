package retriever

import (
	"context"
	"testing"

	"github.com/kailas-cloud/prodfind/internal/domain"
	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
)

// mockEmbedder returns canned vectors keyed by text, with a default for
// unknown inputs. Tracks call counts for short-circuit assertions.
type mockEmbedder struct {
	vectors    map[string][]float32
	defaultVec []float32
	err        error
	calls      int
}

func (m *mockEmbedder) Embed(_ context.Context, text string, _ domain.TextKind) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return domain.EmbeddingResult{Embedding: v}, nil
	}
	return domain.EmbeddingResult{Embedding: m.defaultVec}, nil
}

func defaultParams() Params {
	return Params{SemanticWeight: 0.6, KeywordWeight: 0.4, ScoreThreshold: 0.2}
}

func singleSubcategoryCatalog() []catalog.Category {
	return []catalog.Category{{
		Name: "Wearables",
		URL:  "/wearables",
		Subcategories: []catalog.Subcategory{{
			Name:     "Samsung Watch",
			URL:      "/wearables/samsung-watch",
			Keywords: []string{"samsung", "watch"},
		}},
	}}
}

func newTestRetriever(t *testing.T, categories []catalog.Category, embed *mockEmbedder) *Retriever {
	t.Helper()
	r, err := New(context.Background(), categories, embed, defaultParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}
