package auth

import (
	"mesaifinal_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	accessToken, err := lib.GetCookieValue(lib.AccessCookieName, r)
	if err != nil {
		arm.logger.Warn("Access token not found in cookies", gecho.Field("error", err))
		gecho.Unauthorized(w, gecho.WithMessage("Not logged in"), gecho.Send())
		return
	}

	claims, err := lib.ParseToken(accessToken, true, arm.cfg.Auth.AccessTokenSecret)
	if err != nil {
		arm.logger.Warn("Failed to parse access token", gecho.Field("error", err))
		gecho.Unauthorized(w, gecho.WithMessage("Invalid access token"), gecho.Send())
		return
	}

	user, err := arm.authService.GetUserByID(r.Context(), claims.Sub)
	if err != nil {
		arm.logger.Warn("Failed to load current user", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
		gecho.Unauthorized(w, gecho.WithMessage("Invalid access token"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}
