package handling

import (
	"errors"
	"mesaifinal_server/lib"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

func TestHandleServiceErrorStatusMapping(t *testing.T) {
	logger := testLogger()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", lib.ErrNotFound, http.StatusNotFound},
		{"conflict", lib.ErrConflict, http.StatusConflict},
		{"forbidden", lib.ErrForbidden, http.StatusForbidden},
		{"invalid credentials", lib.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", lib.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", lib.ErrExpiredToken, http.StatusUnauthorized},
		{"insufficient stock", lib.ErrInsufficientStock, http.StatusConflict},
		{"protected delete", lib.ErrProtectedDelete, http.StatusConflict},
		{"cycle detected", lib.ErrCycleDetected, http.StatusConflict},
		{"depth exceeded", lib.ErrDepthExceeded, http.StatusBadRequest},
		{"unknown error", errors.New("something broke"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(tt.err, logger, rec)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleServiceErrorUnwrapsWrappedSentinels(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("fetching category"), lib.ErrNotFound)
	HandleServiceError(wrapped, testLogger(), rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleErrorWritesInternalServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(errors.New("db gone"), "loading products", testLogger(), rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
