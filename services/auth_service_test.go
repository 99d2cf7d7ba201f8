package services

import (
	"context"
	"testing"
	"time"

	"mesaifinal_server/cache"
	"mesaifinal_server/events"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthService(t *testing.T) (*AuthService, *cache.MemoryStore) {
	t.Helper()

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	cfg := &structs.Config{
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  "access-secret-for-tests",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenSecret: "refresh-secret-for-tests",
			RefreshTokenExpiry: 24 * time.Hour,
			BlacklistCacheTTL:  time.Hour,
			CacheUserTTL:       time.Hour,
		},
	}
	store := cache.NewMemoryStore()
	return NewAuthService(cfg, logger, nil, store, events.NewDispatcher(logger)), store
}

func TestHashAndVerifyPassword(t *testing.T) {
	as, _ := testAuthService(t)

	hash, err := as.HashPassword("correct horse battery staple", DefaultParams)
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$")

	ok, err := as.VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = as.VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesUniqueSalt(t *testing.T) {
	as, _ := testAuthService(t)

	first, err := as.HashPassword("same password", DefaultParams)
	require.NoError(t, err)
	second, err := as.HashPassword("same password", DefaultParams)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	as, _ := testAuthService(t)

	_, err := as.VerifyPassword("anything", "not-an-argon2-hash")
	assert.Error(t, err)
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	as, _ := testAuthService(t)

	user := &tables.User{
		ID:    uuid.New(),
		Email: "jamie@example.com",
		Role:  tables.RoleManager,
	}

	tokenStr, err := as.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := lib.ParseToken(tokenStr, true, as.GetAccessTokenSecret())
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Sub)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.NotEqual(t, uuid.Nil, claims.Jti)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.Exp, time.Minute)
}

func TestAccessTokenRejectedWithRefreshSecret(t *testing.T) {
	as, _ := testAuthService(t)

	user := &tables.User{ID: uuid.New(), Email: "jamie@example.com", Role: tables.RoleUser}

	tokenStr, err := as.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = lib.ParseToken(tokenStr, false, as.GetRefreshTokenSecret())
	assert.Error(t, err)
}

func TestTokenBlacklist(t *testing.T) {
	as, _ := testAuthService(t)
	ctx := context.Background()

	jti := uuid.New()

	blacklisted, err := as.IsTokenBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, as.BlacklistToken(ctx, jti, time.Now().Add(time.Hour)))

	blacklisted, err = as.IsTokenBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// Other tokens are unaffected
	blacklisted, err = as.IsTokenBlacklisted(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestUserCacheRoundtrip(t *testing.T) {
	as, store := testAuthService(t)
	ctx := context.Background()

	user := &tables.User{
		ID:       uuid.New(),
		Username: "jamie",
		Email:    "jamie@example.com",
		Role:     tables.RoleUser,
	}

	require.NoError(t, as.SetUserInCache(ctx, user))

	cached, err := cache.GetJSON[tables.User](ctx, store, cache.KeyUser(user.ID))
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, user.Email, cached.Email)

	require.NoError(t, as.DeleteUserFromCache(ctx, user.ID))

	cached, err = cache.GetJSON[tables.User](ctx, store, cache.KeyUser(user.ID))
	require.NoError(t, err)
	assert.Nil(t, cached)
}
