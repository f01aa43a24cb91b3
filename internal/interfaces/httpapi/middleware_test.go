package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireInternalJobToken(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured token refuses all requests", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := RequireInternalJobToken("", okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/match-1/process", nil)
		req.Header.Set("X-Internal-Job-Token", "anything")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
		if called {
			t.Fatal("handler must not run without a configured token")
		}
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := RequireInternalJobToken("secret", okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/matches/match-1/process", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
		if called {
			t.Fatal("handler must not run without a token")
		}
	})

	t.Run("mismatched token", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := RequireInternalJobToken("secret", okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/match-1/process", nil)
		req.Header.Set("X-Internal-Job-Token", "wrong")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
		if called {
			t.Fatal("handler must not run with a bad token")
		}
	})

	t.Run("matching token passes through", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := RequireInternalJobToken("secret", okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/match-1/process", nil)
		req.Header.Set("X-Internal-Job-Token", "  secret  ")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
		if !called {
			t.Fatal("handler should have run")
		}
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("no origin header passes untouched", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := CORS([]string{"*"}, okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/u1/progress", nil))

		if !called {
			t.Fatal("handler should have run")
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("unexpected allow origin header: %s", got)
		}
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := CORS([]string{"*"}, okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/progress", nil)
		req.Header.Set("Origin", "https://app.example.com")
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("unexpected allow origin header: %s", got)
		}
		if !called {
			t.Fatal("handler should have run")
		}
	})

	t.Run("listed origin is echoed with vary", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := CORS([]string{"https://app.example.com"}, okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/progress", nil)
		req.Header.Set("Origin", "https://app.example.com")
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Fatalf("unexpected allow origin header: %s", got)
		}
		if got := rec.Header().Get("Vary"); got != "Origin" {
			t.Fatalf("unexpected vary header: %s", got)
		}
	})

	t.Run("unlisted origin gets no cors headers", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := CORS([]string{"https://app.example.com"}, okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/progress", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("unexpected allow origin header: %s", got)
		}
		if !called {
			t.Fatal("non-preflight requests still reach the handler")
		}
	})

	t.Run("preflight short circuits", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := CORS([]string{"*"}, okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/users/u1/progress", nil)
		req.Header.Set("Origin", "https://app.example.com")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
		if called {
			t.Fatal("preflight must not reach the handler")
		}
	})
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/healthz", false},
		{"/health", false},
		{"/livez", false},
		{"/readyz", false},
		{"/HEALTHZ", false},
		{"/v1/users/u1/progress", true},
		{"/v1/internal/matches/match-1/process", true},
	}

	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
