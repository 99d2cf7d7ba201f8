package tags

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

// FetchTags handles GET /tags
func (trm *TagRoutesManager) FetchTags(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if handling.ParseBoolParam(r, "include_inactive") {
		if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
			includeInactive = claims.Role == "admin" || claims.Role == "manager"
		}
	}

	tags, err := trm.tagService.List(r.Context(), includeInactive)
	if err != nil {
		handling.HandleServiceError(err, trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"tags":  tags,
			"count": len(tags),
		}),
		gecho.Send(),
	)
}

// FetchByID handles GET /tags/{id}
func (trm *TagRoutesManager) FetchByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid tag ID"), gecho.Send())
		return
	}

	tag, err := trm.tagService.GetByID(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"tag": tag}),
		gecho.Send(),
	)
}

// FetchBySlug handles GET /tags/slug/{slug}
func (trm *TagRoutesManager) FetchBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		gecho.BadRequest(w, gecho.WithMessage("Tag slug is required"), gecho.Send())
		return
	}

	tag, err := trm.tagService.GetBySlug(r.Context(), slug)
	if err != nil {
		handling.HandleServiceError(err, trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"tag": tag}),
		gecho.Send(),
	)
}

// FetchProducts handles GET /tags/{id}/products
func (trm *TagRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid tag ID"), gecho.Send())
		return
	}

	products, err := trm.tagService.GetProducts(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"count":    len(products),
		}),
		gecho.Send(),
	)
}

// Create handles POST /tags
func (trm *TagRoutesManager) Create(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateTagRequest](r)
	if err != nil {
		trm.logger.Warn("Invalid create tag payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	tag, err := trm.tagService.Create(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Tag created"),
		gecho.WithData(tag),
		gecho.Send(),
	)
}

// Update handles PUT /tags/{id}
func (trm *TagRoutesManager) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid tag ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateTagRequest](r)
	if err != nil {
		trm.logger.Warn("Invalid update tag payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	tag, err := trm.tagService.Update(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Tag updated"),
		gecho.WithData(tag),
		gecho.Send(),
	)
}

// Delete handles DELETE /tags/{id}
func (trm *TagRoutesManager) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid tag ID"), gecho.Send())
		return
	}

	if err := trm.tagService.Delete(r.Context(), id); err != nil {
		handling.HandleServiceError(err, trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Tag deleted"),
		gecho.Send(),
	)
}
