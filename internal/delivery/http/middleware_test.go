package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rfpdesk/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestResolveOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           string
		wantOK         bool
	}{
		{
			name:           "wildcard allows any origin",
			origin:         "https://rfp.example.com",
			allowedOrigins: []string{"*"},
			want:           "*",
			wantOK:         true,
		},
		{
			name:           "wildcard allows missing origin",
			origin:         "",
			allowedOrigins: []string{"*"},
			want:           "*",
			wantOK:         true,
		},
		{
			name:           "exact match",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:5173"},
			want:           "http://localhost:5173",
			wantOK:         true,
		},
		{
			name:           "prefix wildcard match",
			origin:         "https://preview-123.lovable.app",
			allowedOrigins: []string{"https://preview-*"},
			want:           "https://preview-123.lovable.app",
			wantOK:         true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"https://preview-*", "http://localhost:3000"},
			want:           "http://localhost:3000",
			wantOK:         true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"https://preview-*"},
			wantOK:         false,
		},
		{
			name:           "empty origin without wildcard",
			origin:         "",
			allowedOrigins: []string{"https://preview-*"},
			wantOK:         false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			wantOK:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveOrigin(tt.origin, tt.allowedOrigins)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("resolveOrigin() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		method         string
		wantStatus     int
		wantOrigin     string
	}{
		{
			name:           "wildcard - GET request",
			origin:         "https://rfp.example.com",
			allowedOrigins: []string{"*"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantOrigin:     "*",
		},
		{
			name:           "wildcard - OPTIONS request",
			origin:         "https://rfp.example.com",
			allowedOrigins: []string{"*"},
			method:         "OPTIONS",
			wantStatus:     http.StatusNoContent,
			wantOrigin:     "*",
		},
		{
			name:           "specific origin - GET request",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:5173"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantOrigin:     "http://localhost:5173",
		},
		{
			name:           "disallowed origin",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:5173"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantOrigin:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup router
			router := gin.New()
			router.Use(CORSMiddleware(tt.allowedOrigins))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}

			creds := w.Header().Get("Access-Control-Allow-Credentials")
			if tt.wantOrigin == "*" && creds != "" {
				t.Errorf("Access-Control-Allow-Credentials must not accompany a wildcard origin, got %q", creds)
			}
			if tt.wantOrigin != "" && tt.wantOrigin != "*" && creds != "true" {
				t.Errorf("Access-Control-Allow-Credentials not set to true")
			}
		})
	}
}

func TestCORSMiddleware_PreflightRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handlerCalled := false
	router := gin.New()
	router.Use(CORSMiddleware([]string{"*"}))
	router.POST("/test", func(c *gin.Context) {
		handlerCalled = true
		c.String(http.StatusOK, "OK")
	})

	// Create preflight request
	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "https://rfp.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Preflight body = %q, want empty", w.Body.String())
	}
	if handlerCalled {
		t.Errorf("Preflight reached the route handler")
	}

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Errorf("Access-Control-Allow-Methods not set")
	}
	if w.Header().Get("Access-Control-Max-Age") == "" {
		t.Errorf("Access-Control-Max-Age not set")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, requestID(c))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		id := w.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-123", w.Body.String())
	})
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		limiter    domain.RateLimiter
		wantStatus int
	}{
		{"disabled", nil, http.StatusOK},
		{"allowed", &stubLimiter{allowed: true}, http.StatusOK},
		{"rejected", &stubLimiter{allowed: false}, http.StatusTooManyRequests},
		{"backend failure fails open", &stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RateLimitMiddleware(tt.limiter, zap.NewNop()))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = "10.1.2.3:5555"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again later."}`, w.Body.String())
			}
			if stub, ok := tt.limiter.(*stubLimiter); ok {
				assert.Equal(t, []string{"10.1.2.3"}, stub.keys)
			}
		})
	}
}

type stubCredential struct{ err error }

func (s stubCredential) Ready() error { return s.err }

func TestRequireCredential(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		checker    domain.CredentialChecker
		wantStatus int
	}{
		{"no checker", nil, http.StatusOK},
		{"configured", stubCredential{}, http.StatusOK},
		{"missing key", stubCredential{err: domain.ErrConfiguration}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequireCredential(tt.checker, zap.NewNop()))
			router.POST("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", "/test", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.JSONEq(t, `{"error":"LLM API key is not configured"}`, w.Body.String())
			}
		})
	}
}

func TestRecoveryMiddleware_ReturnsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RecoveryMiddleware(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
