package reviews

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

// Create handles POST /reviews/product/{productID}
func (rrm *ReviewRoutesManager) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil || productID == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CreateReviewRequest](r)
	if err != nil {
		rrm.logger.Warn("Invalid create review payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	review, err := rrm.reviewService.Create(r.Context(), productID, claims.Sub, body)
	if err != nil {
		if lib.IsUniqueViolation(err) {
			gecho.Conflict(w, gecho.WithMessage("You have already reviewed this product"), gecho.Send())
			return
		}
		handling.HandleServiceError(err, rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Review created"),
		gecho.WithData(review),
		gecho.Send(),
	)
}

// Update handles PUT /reviews/{id}
func (rrm *ReviewRoutesManager) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid review ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateReviewRequest](r)
	if err != nil {
		rrm.logger.Warn("Invalid update review payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	review, err := rrm.reviewService.Update(r.Context(), id, claims.Sub, body)
	if err != nil {
		handling.HandleServiceError(err, rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Review updated"),
		gecho.WithData(review),
		gecho.Send(),
	)
}

// Delete handles DELETE /reviews/{id}. Allowed for the author or staff.
func (rrm *ReviewRoutesManager) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid review ID"), gecho.Send())
		return
	}

	isStaff := claims.Role == "admin" || claims.Role == "manager"
	if err := rrm.reviewService.Delete(r.Context(), id, claims.Sub, isStaff); err != nil {
		handling.HandleServiceError(err, rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Review deleted"),
		gecho.Send(),
	)
}

// ListMine handles GET /reviews/mine
func (rrm *ReviewRoutesManager) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	reviews, err := rrm.reviewService.ListForUser(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleServiceError(err, rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"reviews": reviews,
			"count":   len(reviews),
		}),
		gecho.Send(),
	)
}

// ListPending handles GET /reviews/pending
func (rrm *ReviewRoutesManager) ListPending(w http.ResponseWriter, r *http.Request) {
	page, pageSize := handling.ParsePagination(r)

	result, err := rrm.reviewService.ListPending(r.Context(), page, pageSize)
	if err != nil {
		handling.HandleServiceError(err, rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"reviews":    result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// Approve handles PATCH /reviews/{id}/approve
func (rrm *ReviewRoutesManager) Approve(w http.ResponseWriter, r *http.Request) {
	rrm.moderate(w, r, true)
}

// Reject handles PATCH /reviews/{id}/reject
func (rrm *ReviewRoutesManager) Reject(w http.ResponseWriter, r *http.Request) {
	rrm.moderate(w, r, false)
}

func (rrm *ReviewRoutesManager) moderate(w http.ResponseWriter, r *http.Request, approved bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid review ID"), gecho.Send())
		return
	}

	review, err := rrm.reviewService.SetApproval(r.Context(), id, approved)
	if err != nil {
		handling.HandleServiceError(err, rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Review moderation applied"),
		gecho.WithData(review),
		gecho.Send(),
	)
}

// MarkHelpful handles POST /reviews/{id}/helpful
func (rrm *ReviewRoutesManager) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid review ID"), gecho.Send())
		return
	}

	review, err := rrm.reviewService.MarkHelpful(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"review":        review,
			"helpful_votes": review.HelpfulVotes,
		}),
		gecho.Send(),
	)
}
