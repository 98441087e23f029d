package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedHandler(keys []string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return BearerAuthMiddleware(keys)(ok)
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"disabled passes through", nil, "/v1/search", "", http.StatusOK},
		{"valid key", []string{"secret"}, "/v1/search", "Bearer secret", http.StatusOK},
		{"missing header", []string{"secret"}, "/v1/search", "", http.StatusUnauthorized},
		{"wrong scheme", []string{"secret"}, "/v1/search", "Basic secret", http.StatusUnauthorized},
		{"wrong key", []string{"secret"}, "/v1/search", "Bearer nope", http.StatusUnauthorized},
		{"health exempt", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics exempt", []string{"secret"}, "/metrics", "", http.StatusOK},
		{"empty key ignored", []string{""}, "/v1/search", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			authedHandler(tt.keys).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
