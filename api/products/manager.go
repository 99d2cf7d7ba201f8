package products

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
	reviewService  *services.ReviewService
	mw             *middleware.Middleware
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	reviewService *services.ReviewService,
	mw *middleware.Middleware,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
		reviewService:  reviewService,
		mw:             mw,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		// Public catalog reads
		r.Get("/", prm.FetchPublishedProducts)
		r.Get("/featured", prm.FetchFeaturedProducts)
		r.Get("/slug/{slug}", prm.FetchProductBySlug)
		r.Get("/{id}", prm.FetchProductByID)
		r.Get("/{id}/reviews", prm.FetchProductReviews)
		r.Get("/{id}/rating", prm.FetchProductRating)

		// Staff reads
		r.Group(func(r chi.Router) {
			r.Use(prm.mw.UserAuthMiddleware)
			r.Use(prm.mw.StaffAuthMiddleware)
			r.Get("/all", prm.FetchAllProducts)
			r.Get("/stats", prm.FetchStatistics)
			r.Get("/low-stock", prm.FetchLowStockProducts)
		})

		// Staff writes
		r.Group(func(r chi.Router) {
			r.Use(prm.mw.UserAuthMiddleware)
			r.Use(prm.mw.StaffAuthMiddleware)
			r.Post("/", prm.CreateProduct)
			r.Put("/{id}", prm.UpdateProduct)
			r.Delete("/{id}", prm.DeleteProduct)
		})

		// Stock adjustments are an admin-only write
		r.Group(func(r chi.Router) {
			r.Use(prm.mw.UserAuthMiddleware)
			r.Use(prm.mw.AdminAuthMiddleware)
			r.Patch("/{id}/stock", prm.UpdateStock)
		})
	})
}
