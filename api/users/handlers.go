package users

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/handling"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FetchOwnProfile handles GET /users/me/profile
func (urm *UserRoutesManager) FetchOwnProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	profile, err := urm.userService.GetProfile(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"profile": profile}),
		gecho.Send(),
	)
}

// UpdateOwnProfile handles PUT /users/me/profile
func (urm *UserRoutesManager) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProfileRequest](r)
	if err != nil {
		urm.logger.Warn("Invalid update profile payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	profile, err := urm.userService.UpdateProfile(r.Context(), claims.Sub, body)
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Profile updated"),
		gecho.WithData(profile),
		gecho.Send(),
	)
}

// UpdateSelf handles PUT /users/me. Role and activation changes are ignored
// for non-admin callers by the service.
func (urm *UserRoutesManager) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateUserRequest](r)
	if err != nil {
		urm.logger.Warn("Invalid update user payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	user, err := urm.userService.Update(r.Context(), claims.Sub, body, claims.Role == "admin")
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Account updated"),
		gecho.WithData(user),
		gecho.Send(),
	)
}

// FetchUsers handles GET /users
func (urm *UserRoutesManager) FetchUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := handling.ParsePagination(r)

	result, err := urm.userService.List(r.Context(), page, pageSize)
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"users":      result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// FetchStats handles GET /users/stats
func (urm *UserRoutesManager) FetchStats(w http.ResponseWriter, r *http.Request) {
	stats, err := urm.userService.GetStats(r.Context())
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"stats": stats}),
		gecho.Send(),
	)
}

// FetchByID handles GET /users/{id}
func (urm *UserRoutesManager) FetchByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid user ID"), gecho.Send())
		return
	}

	user, err := urm.userService.GetByID(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"user": user}),
		gecho.Send(),
	)
}

// FetchProfileByID handles GET /users/{id}/profile
func (urm *UserRoutesManager) FetchProfileByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid user ID"), gecho.Send())
		return
	}

	profile, err := urm.userService.GetProfile(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"profile": profile}),
		gecho.Send(),
	)
}

// Update handles PUT /users/{id}
func (urm *UserRoutesManager) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid user ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateUserRequest](r)
	if err != nil {
		urm.logger.Warn("Invalid update user payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	user, err := urm.userService.Update(r.Context(), id, body, true)
	if err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("User updated"),
		gecho.WithData(user),
		gecho.Send(),
	)
}

// Delete handles DELETE /users/{id}
func (urm *UserRoutesManager) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid user ID"), gecho.Send())
		return
	}

	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok && claims.Sub == id {
		gecho.Conflict(w, gecho.WithMessage("You cannot delete your own account"), gecho.Send())
		return
	}

	if err := urm.userService.Delete(r.Context(), id); err != nil {
		handling.HandleServiceError(err, urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("User deleted"),
		gecho.Send(),
	)
}
