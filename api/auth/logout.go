package auth

import (
	"mesaifinal_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	accessToken, err := lib.GetCookieValue(lib.AccessCookieName, r)
	if err != nil {
		gecho.Success(w,
			gecho.WithMessage("No access token found"),
			gecho.Send(),
		)
		return
	}

	claims, err := lib.ParseToken(accessToken, true, arm.cfg.Auth.AccessTokenSecret)
	if err != nil {
		arm.logger.Error("Failed to parse access token during logout", gecho.Field("error", err))
		gecho.Success(w,
			gecho.WithMessage("Invalid access token"),
			gecho.Send(),
		)
		return
	}

	if err := arm.authService.BlacklistToken(r.Context(), claims.Jti, claims.Exp); err != nil {
		arm.logger.Error("Failed to blacklist access token during logout", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to logout"),
			gecho.Send(),
		)
		return
	}

	// Also clear user from cache
	if err = arm.authService.DeleteUserFromCache(r.Context(), claims.Sub); err != nil {
		arm.logger.Error("Failed to clear user cache during logout", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
	}

	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.RefreshCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
