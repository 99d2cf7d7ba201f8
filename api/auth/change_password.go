package auth

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/handling"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ChangePasswordRequest](r)
	if err != nil {
		arm.logger.Warn("Invalid change password payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	if err := arm.authService.ChangePassword(r.Context(), claims.Sub, body); err != nil {
		handling.HandleServiceError(err, arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Password changed successfully"),
		gecho.Send(),
	)
}
