package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mesaifinal_server/cache"
	"mesaifinal_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func testMiddleware(limit int, window time.Duration) *Middleware {
	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	cfg := &structs.Config{
		RateLimit: &structs.RateLimitConfig{
			Enabled:         true,
			GeneralLimit:    limit,
			GeneralWindow:   window,
			AuthLimit:       limit,
			AuthWindow:      window,
			WriteLimit:      limit,
			WriteWindow:     window,
			ExpensiveLimit:  limit,
			ExpensiveWindow: window,
		},
	}
	return NewMiddleware(cfg, logger, nil, cache.NewMemoryStore())
}

func TestNormalizeEndpoint(t *testing.T) {
	mw := testMiddleware(10, time.Minute)

	tests := []struct {
		in   string
		want string
	}{
		{"/products/3f2b8c", "/products/:id"},
		{"/products/3f2b8c/reviews", "/products/:id"},
		{"/categories/abc/tree", "/categories/:id"},
		{"/tags/xyz", "/tags/:id"},
		{"/reviews/1/helpful", "/reviews/:id"},
		{"/users/42", "/users/:id"},
		{"/products", "/products"},
		{"/auth/login", "/auth/login"},
		{"/auth/login/", "/auth/login"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mw.normalizeEndpoint(tt.in), "endpoint %s", tt.in)
	}
}

func TestGetClientIP(t *testing.T) {
	mw := testMiddleware(10, time.Minute)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"
	assert.Equal(t, "10.0.0.1", mw.getClientIP(r))

	r.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", mw.getClientIP(r))

	// X-Forwarded-For wins over X-Real-IP, first hop only
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", mw.getClientIP(r))
}

func TestRateLimitMiddlewareBlocksOverLimit(t *testing.T) {
	mw := testMiddleware(3, time.Minute)

	handler := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/tags", nil)
		r.RemoteAddr = "192.0.2.1:1000"
		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tags", nil)
	r.RemoteAddr = "192.0.2.1:1000"
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddlewareIsolatesClients(t *testing.T) {
	mw := testMiddleware(1, time.Minute)

	handler := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/tags", nil)
	first.RemoteAddr = "192.0.2.1:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Same client is now over the limit
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected
	second := httptest.NewRequest(http.MethodGet, "/tags", nil)
	second.RemoteAddr = "198.51.100.9:2000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddlewareSkipsHealth(t *testing.T) {
	mw := testMiddleware(1, time.Minute)

	handler := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/health/server", nil)
		r.RemoteAddr = "192.0.2.1:1000"
		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	mw := testMiddleware(1, time.Minute)
	mw.cfg.RateLimit.Enabled = false

	handler := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/tags", nil)
		r.RemoteAddr = "192.0.2.1:1000"
		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
