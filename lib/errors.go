package lib

import (
	"database/sql"
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Catalog errors
var (
	ErrCycleDetected     = errors.New("category cycle detected")
	ErrDepthExceeded     = errors.New("category tree depth exceeded")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProtectedDelete   = errors.New("record is referenced and cannot be deleted")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// MapDBError translates driver-level failures into the sentinel errors
// the handlers switch on.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') { // SQLSTATE
		case "23505": // unique_violation
			return ErrConflict
		case "23503": // foreign_key_violation
			return ErrProtectedDelete
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(MapDBError(err), ErrConflict)
}

// GetDetailForLogging returns the driver detail when present, falling back
// to the error text. Safe for logs, never for API responses.
func GetDetailForLogging(err error) string {
	if err == nil {
		return ""
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		if detail := pgErr.Field('D'); detail != "" {
			return detail
		}
		if msg := pgErr.Field('M'); msg != "" {
			return msg
		}
	}
	return err.Error()
}
