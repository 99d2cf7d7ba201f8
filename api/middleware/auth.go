package middleware

import (
	"context"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing user data in request context
type contextKey string

const (
	UserContextKey   contextKey = "user"
	ClaimsContextKey contextKey = "claims"
)

// UserAuthMiddleware protects routes to only logged-in users. Tokens
// revoked through logout are rejected via the blacklist check.
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.authService.GetAccessTokenSecret())
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		if time.Now().After(claims.Exp) {
			gecho.Unauthorized(w, gecho.WithMessage("Access token has expired"), gecho.Send())
			return
		}

		blacklisted, err := mw.authService.IsTokenBlacklisted(r.Context(), claims.Jti)
		if err != nil {
			// Cache trouble should not lock every user out
			mw.logger.Warn("Blacklist check failed, allowing request", gecho.Field("error", err))
		} else if blacklisted {
			mw.logger.Warn("Revoked token presented", gecho.Field("jti", claims.Jti), gecho.Field("user_id", claims.Sub))
			gecho.Unauthorized(w, gecho.WithMessage("Token has been revoked"), gecho.Send())
			return
		}

		// Add claims to request context
		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole restricts a route to the given roles. Must be used after
// UserAuthMiddleware.
func (mw *Middleware) RequireRole(roles ...tables.Role) func(http.Handler) http.Handler {
	allowed := make(map[tables.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaimsFromContext(r.Context())
			if !ok {
				gecho.Unauthorized(w, gecho.WithMessage("Authentication required"), gecho.Send())
				return
			}

			if !allowed[tables.Role(claims.Role)] {
				mw.logger.Warn("Insufficient role for route",
					gecho.Field("user_id", claims.Sub),
					gecho.Field("role", claims.Role),
					gecho.Field("path", r.URL.Path),
				)
				gecho.Forbidden(w, gecho.WithMessage("Insufficient permissions"), gecho.Send())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// StaffAuthMiddleware allows managers and admins. Must be used after
// UserAuthMiddleware.
func (mw *Middleware) StaffAuthMiddleware(next http.Handler) http.Handler {
	return mw.RequireRole(tables.RoleAdmin, tables.RoleManager)(next)
}

// AdminAuthMiddleware allows admins only. Must be used after
// UserAuthMiddleware.
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return mw.RequireRole(tables.RoleAdmin)(next)
}

// GetUserFromContext is a helper function to extract the user from request context
func GetUserFromContext(ctx context.Context) (*tables.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*tables.User)
	return user, ok
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
