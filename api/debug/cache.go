package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.store.DeletePattern(r.Context(), "*"); err != nil {
		drm.logger.Error("Failed to clear cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to clear cache"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Cache cleared"),
		gecho.Send(),
	)
}

// InvalidatePattern drops every cache key matching ?pattern=...
func (drm *DebugRoutesManager) InvalidatePattern(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		gecho.BadRequest(w, gecho.WithMessage("Query parameter 'pattern' is required"), gecho.Send())
		return
	}

	if err := drm.store.DeletePattern(r.Context(), pattern); err != nil {
		drm.logger.Error("Failed to invalidate cache pattern",
			gecho.Field("pattern", pattern),
			gecho.Field("error", err),
		)
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to invalidate cache"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Cache keys invalidated"),
		gecho.Send(),
	)
}
