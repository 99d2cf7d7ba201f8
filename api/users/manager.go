package users

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type UserRoutesManager struct {
	logger      *gecho.Logger
	userService *services.UserService
	mw          *middleware.Middleware
}

func NewUserRoutesManager(
	logger *gecho.Logger,
	userService *services.UserService,
	mw *middleware.Middleware,
) *UserRoutesManager {
	return &UserRoutesManager{
		logger:      logger,
		userService: userService,
		mw:          mw,
	}
}

func (urm *UserRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		// Self-service, any authenticated user
		r.Group(func(r chi.Router) {
			r.Use(urm.mw.UserAuthMiddleware)
			r.Get("/me/profile", urm.FetchOwnProfile)
			r.Put("/me/profile", urm.UpdateOwnProfile)
			r.Put("/me", urm.UpdateSelf)
		})

		// Admin-only management
		r.Group(func(r chi.Router) {
			r.Use(urm.mw.UserAuthMiddleware)
			r.Use(urm.mw.AdminAuthMiddleware)
			r.Get("/", urm.FetchUsers)
			r.Get("/stats", urm.FetchStats)
			r.Get("/{id}", urm.FetchByID)
			r.Get("/{id}/profile", urm.FetchProfileByID)
			r.Put("/{id}", urm.Update)
			r.Delete("/{id}", urm.Delete)
		})
	})
}
