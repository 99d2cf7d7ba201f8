package debug

import (
	"mesaifinal_server/cache"
	"mesaifinal_server/config"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger *gecho.Logger
	store  cache.Store
}

func NewDebugRoutesManager(logger *gecho.Logger, store cache.Store) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger: logger,
		store:  store,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if !config.IsProduction() {
		r.Route("/debug", func(r chi.Router) {
			r.Post("/cache/clear", drm.ClearCache)
			r.Post("/cache/invalidate", drm.InvalidatePattern)
		})
	}
}
