package products

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mesaifinal_server/api/middleware"
	"mesaifinal_server/cache"
	"mesaifinal_server/events"
	"mesaifinal_server/lib"
	"mesaifinal_server/services"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRouter mounts the product routes with nil services behind real auth
// middleware; requests rejected by the middleware never reach a handler.
func testRouter(t *testing.T) (chi.Router, *services.AuthService) {
	t.Helper()

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	cfg := &structs.Config{
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  "products-route-test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenSecret: "products-route-refresh-secret",
			RefreshTokenExpiry: 24 * time.Hour,
			BlacklistCacheTTL:  time.Hour,
			CacheUserTTL:       time.Hour,
		},
	}
	store := cache.NewMemoryStore()
	authService := services.NewAuthService(cfg, logger, nil, store, events.NewDispatcher(logger))
	mw := middleware.NewMiddleware(cfg, logger, authService, store)

	r := chi.NewRouter()
	NewProductRoutesManager(logger, nil, nil, mw).RegisterRoutes(r)
	return r, authService
}

func cookieFor(t *testing.T, authService *services.AuthService, role tables.Role) *http.Cookie {
	t.Helper()

	user := &tables.User{ID: uuid.New(), Email: "test@example.com", Role: role}
	token, err := authService.GenerateAccessToken(user)
	require.NoError(t, err)
	return &http.Cookie{Name: lib.AccessCookieName, Value: token}
}

func TestStockRouteRequiresAdmin(t *testing.T) {
	router, authService := testRouter(t)

	tests := []struct {
		name     string
		role     tables.Role
		wantCode int
	}{
		{"user rejected", tables.RoleUser, http.StatusForbidden},
		{"manager rejected", tables.RoleManager, http.StatusForbidden},
		// An admin clears the gate; the empty body then fails validation in
		// the handler, which proves the request got past the middleware.
		{"admin reaches the handler", tables.RoleAdmin, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPatch, "/products/"+uuid.NewString()+"/stock", nil)
			r.AddCookie(cookieFor(t, authService, tt.role))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestStockRouteRejectsAnonymous(t *testing.T) {
	router, _ := testRouter(t)

	r := httptest.NewRequest(http.MethodPatch, "/products/"+uuid.NewString()+"/stock", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
