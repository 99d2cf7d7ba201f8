package handling

import (
	"errors"
	"mesaifinal_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.Send())
}

// HandleServiceError translates service-layer sentinel errors into their
// HTTP responses. Anything unrecognized is treated as an internal error and
// logged; sentinel cases are the caller's fault and are not.
func HandleServiceError(err error, logger *gecho.Logger, w http.ResponseWriter) {
	switch {
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("Resource already exists"), gecho.Send())
	case errors.Is(err, lib.ErrForbidden):
		gecho.Forbidden(w, gecho.Send())
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
	case errors.Is(err, lib.ErrInvalidToken), errors.Is(err, lib.ErrExpiredToken):
		gecho.Unauthorized(w, gecho.Send())
	case errors.Is(err, lib.ErrInsufficientStock):
		gecho.Conflict(w, gecho.WithMessage("Insufficient stock"), gecho.Send())
	case errors.Is(err, lib.ErrProtectedDelete):
		gecho.Conflict(w, gecho.WithMessage("Resource is still referenced and cannot be deleted"), gecho.Send())
	case errors.Is(err, lib.ErrCycleDetected):
		gecho.Conflict(w, gecho.WithMessage("Operation would create a category cycle"), gecho.Send())
	case errors.Is(err, lib.ErrDepthExceeded):
		gecho.BadRequest(w, gecho.WithMessage("Category hierarchy is too deep"), gecho.Send())
	default:
		HandleError(err, "unexpected service error", logger, w)
	}
}
