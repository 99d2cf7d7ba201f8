package tags

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type TagRoutesManager struct {
	logger     *gecho.Logger
	tagService *services.TagService
	mw         *middleware.Middleware
}

func NewTagRoutesManager(
	logger *gecho.Logger,
	tagService *services.TagService,
	mw *middleware.Middleware,
) *TagRoutesManager {
	return &TagRoutesManager{
		logger:     logger,
		tagService: tagService,
		mw:         mw,
	}
}

func (trm *TagRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/tags", func(r chi.Router) {
		// Public reads
		r.Get("/", trm.FetchTags)
		r.Get("/slug/{slug}", trm.FetchBySlug)
		r.Get("/{id}", trm.FetchByID)
		r.Get("/{id}/products", trm.FetchProducts)

		// Staff writes
		r.Group(func(r chi.Router) {
			r.Use(trm.mw.UserAuthMiddleware)
			r.Use(trm.mw.StaffAuthMiddleware)
			r.Post("/", trm.Create)
			r.Put("/{id}", trm.Update)
			r.Delete("/{id}", trm.Delete)
		})
	})
}
