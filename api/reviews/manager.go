package reviews

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ReviewRoutesManager struct {
	logger        *gecho.Logger
	reviewService *services.ReviewService
	mw            *middleware.Middleware
}

func NewReviewRoutesManager(
	logger *gecho.Logger,
	reviewService *services.ReviewService,
	mw *middleware.Middleware,
) *ReviewRoutesManager {
	return &ReviewRoutesManager{
		logger:        logger,
		reviewService: reviewService,
		mw:            mw,
	}
}

func (rrm *ReviewRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		// Anyone can mark a review helpful
		r.Post("/{id}/helpful", rrm.MarkHelpful)

		// Authenticated users write their own reviews
		r.Group(func(r chi.Router) {
			r.Use(rrm.mw.UserAuthMiddleware)
			r.Get("/mine", rrm.ListMine)
			r.Post("/product/{productID}", rrm.Create)
			r.Put("/{id}", rrm.Update)
			r.Delete("/{id}", rrm.Delete)
		})

		// Staff moderation
		r.Group(func(r chi.Router) {
			r.Use(rrm.mw.UserAuthMiddleware)
			r.Use(rrm.mw.StaffAuthMiddleware)
			r.Get("/pending", rrm.ListPending)
			r.Patch("/{id}/approve", rrm.Approve)
			r.Patch("/{id}/reject", rrm.Reject)
		})
	})
}
