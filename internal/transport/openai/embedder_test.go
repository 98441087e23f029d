package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodfind/internal/domain"
)

type embeddingRequestBody struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// newEmbeddingServer serves a fixed vector and records every input it saw.
func newEmbeddingServer(t *testing.T, vec []float32, inputs *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body embeddingRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		*inputs = append(*inputs, body.Input...)

		resp := map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vec},
			},
			"model": body.Model,
			"usage": map[string]int{"prompt_tokens": 7, "total_tokens": 7},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func newTestEmbedder(baseURL string) *Embedder {
	return NewEmbedder(&Config{
		APIKey:        "test-key",
		BaseURL:       baseURL,
		Model:         "intfloat/multilingual-e5-large",
		PassagePrefix: "passage: ",
		QueryPrefix:   "query: ",
		Provider:      "test",
		Logger:        zap.NewNop(),
	})
}

func TestEmbed_AppliesKindPrefix(t *testing.T) {
	var inputs []string
	srv := newEmbeddingServer(t, []float32{0.1, 0.2}, &inputs)
	defer srv.Close()

	e := newTestEmbedder(srv.URL)

	if _, err := e.Embed(context.Background(), "samsung watch", domain.TextPassage); err != nil {
		t.Fatalf("Embed passage: %v", err)
	}
	if _, err := e.Embed(context.Background(), "samsung watch", domain.TextQuery); err != nil {
		t.Fatalf("Embed query: %v", err)
	}

	want := []string{"passage: samsung watch", "query: samsung watch"}
	if len(inputs) != 2 || inputs[0] != want[0] || inputs[1] != want[1] {
		t.Errorf("inputs = %v, want %v", inputs, want)
	}
}

func TestEmbed_ReturnsVectorAndUsage(t *testing.T) {
	var inputs []string
	srv := newEmbeddingServer(t, []float32{0.5, -0.25, 1}, &inputs)
	defer srv.Close()

	got, err := newTestEmbedder(srv.URL).Embed(context.Background(), "phone", domain.TextQuery)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got.Embedding) != 3 || got.Embedding[0] != 0.5 {
		t.Errorf("unexpected vector: %v", got.Embedding)
	}
	if got.PromptTokens != 7 || got.TotalTokens != 7 {
		t.Errorf("usage = %d/%d, want 7/7", got.PromptTokens, got.TotalTokens)
	}
}

func TestEmbed_APIErrorWrapsServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail": "model is loading"}`))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv.URL).Embed(context.Background(), "phone", domain.TextQuery)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestEmbed_EmptyDataIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [], "usage": {"prompt_tokens": 0, "total_tokens": 0}}`))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv.URL).Embed(context.Background(), "phone", domain.TextQuery)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable for empty data, got %v", err)
	}
}

func TestEmbed_ConnectionRefused(t *testing.T) {
	// Reserve a port and close it so nothing is listening.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestEmbedder(url).Embed(context.Background(), "phone", domain.TextQuery)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}
