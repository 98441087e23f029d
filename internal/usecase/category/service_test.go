package category

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
	"github.com/kailas-cloud/prodfind/internal/domain/classify"
)

// --- Mocks ---

type mockRetriever struct {
	candidates []catalog.Candidate
	err        error
	lastTopK   int
}

func (m *mockRetriever) Search(_ context.Context, _ string, topK int) ([]catalog.Candidate, error) {
	m.lastTopK = topK
	return m.candidates, m.err
}

type mockClassifier struct {
	outcome classify.Outcome
	err     error
	called  bool
}

func (m *mockClassifier) Classify(_ context.Context, _ string, _ []catalog.Candidate) (classify.Outcome, error) {
	m.called = true
	return m.outcome, m.err
}

func testCandidates() []catalog.Candidate {
	return []catalog.Candidate{
		{CategoryName: "Phones", SubcategoryName: "Smartphones", SubcategoryURL: "/phones", Score: 0.9},
		{CategoryName: "Phones", SubcategoryName: "Feature Phones", SubcategoryURL: "/feature", Score: 0.5},
	}
}

// --- Tests ---

func TestResolve_ClassifierPicksWinner(t *testing.T) {
	cands := testCandidates()
	cls := &mockClassifier{outcome: classify.Match(cands[1])}
	svc := New(&mockRetriever{candidates: cands}, cls, 3, true)

	got, err := svc.Resolve(context.Background(), "old school phone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.SubcategoryName != "Feature Phones" {
		t.Errorf("expected classifier winner, got %+v", got)
	}
	if !cls.called {
		t.Error("classifier was not called")
	}
}

func TestResolve_NoCandidatesSkipsClassifier(t *testing.T) {
	cls := &mockClassifier{}
	svc := New(&mockRetriever{}, cls, 3, true)

	got, err := svc.Resolve(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil category, got %+v", got)
	}
	if cls.called {
		t.Error("classifier must not run without candidates")
	}
}

func TestResolve_NilClassifierUsesTopCandidate(t *testing.T) {
	svc := New(&mockRetriever{candidates: testCandidates()}, nil, 3, true)

	got, err := svc.Resolve(context.Background(), "smartphone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.SubcategoryName != "Smartphones" {
		t.Errorf("expected top candidate, got %+v", got)
	}
}

func TestResolve_ClassifierErrorFallsBack(t *testing.T) {
	cls := &mockClassifier{err: errors.New("api timeout")}
	svc := New(&mockRetriever{candidates: testCandidates()}, cls, 3, true)

	got, err := svc.Resolve(context.Background(), "smartphone")
	if err != nil {
		t.Fatalf("classifier error must not propagate, got %v", err)
	}
	if got == nil || got.SubcategoryName != "Smartphones" {
		t.Errorf("expected fallback to top candidate, got %+v", got)
	}
}

func TestResolve_ClassifierErrorWithoutFallback(t *testing.T) {
	cls := &mockClassifier{err: errors.New("api timeout")}
	svc := New(&mockRetriever{candidates: testCandidates()}, cls, 3, false)

	got, err := svc.Resolve(context.Background(), "smartphone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Errorf("fallback disabled, expected nil, got %+v", got)
	}
}

func TestResolve_NoMatchFallsBack(t *testing.T) {
	cls := &mockClassifier{outcome: classify.NoMatch("nothing fits")}
	svc := New(&mockRetriever{candidates: testCandidates()}, cls, 3, true)

	got, err := svc.Resolve(context.Background(), "smartphone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.SubcategoryName != "Smartphones" {
		t.Errorf("expected fallback to top candidate, got %+v", got)
	}
}

func TestResolve_RetrieverErrorPropagates(t *testing.T) {
	svc := New(&mockRetriever{err: errors.New("embedder down")}, nil, 3, true)

	if _, err := svc.Resolve(context.Background(), "smartphone"); err == nil {
		t.Fatal("expected retrieval error to propagate")
	}
}

func TestResolve_PassesConfiguredTopK(t *testing.T) {
	retr := &mockRetriever{candidates: testCandidates()}
	svc := New(retr, nil, 7, true)

	if _, err := svc.Resolve(context.Background(), "smartphone"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if retr.lastTopK != 7 {
		t.Errorf("expected topK 7, got %d", retr.lastTopK)
	}
}
