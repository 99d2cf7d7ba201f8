package services

import (
	"mesaifinal_server/cache"
	"mesaifinal_server/database"
	"mesaifinal_server/events"
	"mesaifinal_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService     *AuthService
	HealthService   *HealthService
	CategoryService *CategoryService
	ProductService  *ProductService
	TagService      *TagService
	ReviewService   *ReviewService
	UserService     *UserService
}

// NewServiceManager wires every service against the shared store and
// dispatcher, then registers the cache invalidation and profile handlers.
// Handler registration happens here, once, before the first request.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, store cache.Store, dispatcher *events.Dispatcher) *ServiceManager {
	authService := NewAuthService(cfg, logger, db, store, dispatcher)
	healthService := NewHealthService(logger, db, store)
	categoryService := NewCategoryService(logger, cfg, db, store, dispatcher)
	productService := NewProductService(logger, cfg, db, store, dispatcher)
	tagService := NewTagService(logger, cfg, db, store, dispatcher)
	reviewService := NewReviewService(logger, cfg, db, store, dispatcher)
	userService := NewUserService(logger, cfg, db, store, dispatcher)

	events.RegisterInvalidationHandlers(dispatcher, store, logger)
	userService.RegisterEventHandlers(dispatcher)

	return &ServiceManager{
		AuthService:     authService,
		HealthService:   healthService,
		CategoryService: categoryService,
		ProductService:  productService,
		TagService:      tagService,
		ReviewService:   reviewService,
		UserService:     userService,
	}
}
