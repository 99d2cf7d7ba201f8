package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mesaifinal_server/cache"
	"mesaifinal_server/events"
	"mesaifinal_server/lib"
	"mesaifinal_server/services"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestMiddleware(t *testing.T) (*Middleware, *services.AuthService) {
	t.Helper()

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	cfg := &structs.Config{
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  "middleware-test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenSecret: "middleware-refresh-secret",
			RefreshTokenExpiry: 24 * time.Hour,
			BlacklistCacheTTL:  time.Hour,
			CacheUserTTL:       time.Hour,
		},
	}
	store := cache.NewMemoryStore()
	authService := services.NewAuthService(cfg, logger, nil, store, events.NewDispatcher(logger))
	return NewMiddleware(cfg, logger, authService, store), authService
}

func loginAs(t *testing.T, authService *services.AuthService, role tables.Role) (*http.Cookie, *structs.AuthClaims) {
	t.Helper()

	user := &tables.User{ID: uuid.New(), Email: "test@example.com", Role: role}
	token, err := authService.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := lib.ParseToken(token, true, authService.GetAccessTokenSecret())
	require.NoError(t, err)

	return &http.Cookie{Name: lib.AccessCookieName, Value: token}, claims
}

func TestUserAuthMiddleware(t *testing.T) {
	mw, authService := authTestMiddleware(t)
	cookie, wantClaims := loginAs(t, authService, tables.RoleUser)

	var gotClaims *structs.AuthClaims
	handler := mw.UserAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/users/me/profile", nil)
	r.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, wantClaims.Sub, gotClaims.Sub)
	assert.Equal(t, "user", gotClaims.Role)
}

func TestUserAuthMiddlewareRejectsMissingCookie(t *testing.T) {
	mw, _ := authTestMiddleware(t)

	handler := mw.UserAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	mw, authService := authTestMiddleware(t)
	cookie, claims := loginAs(t, authService, tables.RoleUser)

	require.NoError(t, authService.BlacklistToken(t.Context(), claims.Jti, claims.Exp))

	handler := mw.UserAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a revoked token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/users/me/profile", nil)
	r.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAuthMiddlewareRejectsForgedToken(t *testing.T) {
	mw, _ := authTestMiddleware(t)

	handler := mw.UserAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a forged token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/users/me/profile", nil)
	r.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: "forged.token.value"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleMiddleware(t *testing.T) {
	mw, authService := authTestMiddleware(t)

	tests := []struct {
		name     string
		role     tables.Role
		wrap     func(http.Handler) http.Handler
		wantCode int
	}{
		{"user blocked from staff route", tables.RoleUser, mw.StaffAuthMiddleware, http.StatusForbidden},
		{"manager allowed on staff route", tables.RoleManager, mw.StaffAuthMiddleware, http.StatusOK},
		{"admin allowed on staff route", tables.RoleAdmin, mw.StaffAuthMiddleware, http.StatusOK},
		{"manager blocked from admin route", tables.RoleManager, mw.AdminAuthMiddleware, http.StatusForbidden},
		{"admin allowed on admin route", tables.RoleAdmin, mw.AdminAuthMiddleware, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie, _ := loginAs(t, authService, tt.role)

			handler := mw.UserAuthMiddleware(tt.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			r := httptest.NewRequest(http.MethodPost, "/products", nil)
			r.AddCookie(cookie)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireRoleWithoutClaims(t *testing.T) {
	mw, _ := authTestMiddleware(t)

	handler := mw.RequireRole(tables.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without claims in context")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
