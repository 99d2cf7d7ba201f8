package lib

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapDBError(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	assert.ErrorIs(t, MapDBError(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, MapDBError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)), ErrNotFound)

	// Unknown errors pass through untouched
	plain := errors.New("connection refused")
	assert.Equal(t, plain, MapDBError(plain))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(sql.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrConflict))
	assert.False(t, IsNotFound(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(ErrConflict))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", ErrConflict)))
	assert.False(t, IsUniqueViolation(ErrNotFound))
	assert.False(t, IsUniqueViolation(nil))
}

func TestGetDetailForLogging(t *testing.T) {
	assert.Equal(t, "", GetDetailForLogging(nil))
	assert.Equal(t, "boom", GetDetailForLogging(errors.New("boom")))
}
