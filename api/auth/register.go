package auth

import (
	"mesaifinal_server/handling"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract and validate request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check your registration information"), gecho.WithData(err), gecho.Send())
		return
	}

	user, err := arm.authService.Register(r.Context(), body)
	if err != nil {
		// Unique violations return 409 Conflict (already logged as warn in service)
		if lib.IsUniqueViolation(err) {
			gecho.Conflict(w, gecho.WithMessage("An account with this username or email already exists"), gecho.Send())
			return
		}

		handling.HandleServiceError(err, arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Account created successfully"),
		gecho.WithData(user),
		gecho.Send(),
	)
}
