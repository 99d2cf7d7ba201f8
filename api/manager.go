package api

import (
	"mesaifinal_server/api/auth"
	"mesaifinal_server/api/categories"
	"mesaifinal_server/api/debug"
	"mesaifinal_server/api/health"
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/api/products"
	"mesaifinal_server/api/reviews"
	"mesaifinal_server/api/tags"
	"mesaifinal_server/api/users"
	"mesaifinal_server/cache"
	"mesaifinal_server/services"
	"mesaifinal_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	productRoutes  *products.ProductRoutesManager
	categoryRoutes *categories.CategoryRoutesManager
	tagRoutes      *tags.TagRoutesManager
	reviewRoutes   *reviews.ReviewRoutesManager
	userRoutes     *users.UserRoutesManager
	healthRoutes   *health.HealthRoutesManager
	authRoutes     *auth.AuthRoutesManager
	debugRoutes    *debug.DebugRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
	store cache.Store,
) *routerManager {
	return &routerManager{
		productRoutes:  products.NewProductRoutesManager(logger, sm.ProductService, sm.ReviewService, mw),
		categoryRoutes: categories.NewCategoryRoutesManager(logger, sm.CategoryService, mw),
		tagRoutes:      tags.NewTagRoutesManager(logger, sm.TagService, mw),
		reviewRoutes:   reviews.NewReviewRoutesManager(logger, sm.ReviewService, mw),
		userRoutes:     users.NewUserRoutesManager(logger, sm.UserService, mw),
		healthRoutes:   health.NewHealthRoutesManager(sm.HealthService),
		authRoutes:     auth.NewAuthRoutesManager(logger, sm.AuthService, cfg, mw),
		debugRoutes:    debug.NewDebugRoutesManager(logger, store),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.categoryRoutes.RegisterRoutes(r)
	rm.tagRoutes.RegisterRoutes(r)
	rm.reviewRoutes.RegisterRoutes(r)
	rm.userRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
