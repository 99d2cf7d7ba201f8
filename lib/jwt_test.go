package lib

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signedToken(t *testing.T, secret string, mutate func(claims jwt.MapClaims)) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   uuid.New().String(),
		"email": "user@example.com",
		"role":  "user",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
		"jti":   uuid.New().String(),
	}
	if mutate != nil {
		mutate(claims)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseTokenRoundtrip(t *testing.T) {
	sub := uuid.New()
	jti := uuid.New()

	tokenStr := signedToken(t, testSecret, func(claims jwt.MapClaims) {
		claims["sub"] = sub.String()
		claims["jti"] = jti.String()
		claims["role"] = "manager"
	})

	claims, err := ParseToken(tokenStr, true, testSecret)
	require.NoError(t, err)
	assert.Equal(t, sub, claims.Sub)
	assert.Equal(t, jti, claims.Jti)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.True(t, claims.Exp.After(time.Now()))
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenStr := signedToken(t, testSecret, nil)

	_, err := ParseToken(tokenStr, true, "a-different-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tokenStr := signedToken(t, testSecret, func(claims jwt.MapClaims) {
		claims["iat"] = time.Now().Add(-2 * time.Hour).Unix()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
	})

	_, err := ParseToken(tokenStr, true, testSecret)
	assert.Error(t, err)
}

func TestParseTokenMalformedClaims(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(claims jwt.MapClaims)
	}{
		{"non-uuid sub", func(c jwt.MapClaims) { c["sub"] = "not-a-uuid" }},
		{"missing email", func(c jwt.MapClaims) { delete(c, "email") }},
		{"missing jti", func(c jwt.MapClaims) { delete(c, "jti") }},
		{"non-uuid jti", func(c jwt.MapClaims) { c["jti"] = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenStr := signedToken(t, testSecret, tt.mutate)
			_, err := ParseToken(tokenStr, true, testSecret)
			assert.Error(t, err)
		})
	}
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("definitely.not.a.jwt", true, testSecret)
	assert.Error(t, err)
}

func TestExtractClaims(t *testing.T) {
	tokenStr := signedToken(t, testSecret, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: tokenStr})

	claims, err := ExtractClaims(r, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestExtractClaimsMissingCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := ExtractClaims(r, testSecret)
	assert.Error(t, err)
}
