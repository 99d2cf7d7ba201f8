package categories

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CategoryRoutesManager struct {
	logger          *gecho.Logger
	categoryService *services.CategoryService
	mw              *middleware.Middleware
}

func NewCategoryRoutesManager(
	logger *gecho.Logger,
	categoryService *services.CategoryService,
	mw *middleware.Middleware,
) *CategoryRoutesManager {
	return &CategoryRoutesManager{
		logger:          logger,
		categoryService: categoryService,
		mw:              mw,
	}
}

func (crm *CategoryRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		// Public reads
		r.Get("/", crm.FetchCategories)
		r.Get("/tree", crm.FetchTree)
		r.Get("/roots", crm.FetchRoots)
		r.Get("/slug/{slug}", crm.FetchBySlug)
		r.Get("/{id}", crm.FetchByID)
		r.Get("/{id}/products", crm.FetchProducts)
		r.Get("/{id}/descendants", crm.FetchDescendants)

		// Staff writes
		r.Group(func(r chi.Router) {
			r.Use(crm.mw.UserAuthMiddleware)
			r.Use(crm.mw.StaffAuthMiddleware)
			r.Post("/", crm.Create)
			r.Put("/{id}", crm.Update)
			r.Delete("/{id}", crm.Delete)
		})
	})
}
