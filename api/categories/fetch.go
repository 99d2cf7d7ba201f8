package categories

import (
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FetchCategories handles GET /categories. Inactive categories are only
// included for staff callers that ask for them.
func (crm *CategoryRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if handling.ParseBoolParam(r, "include_inactive") {
		if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
			includeInactive = claims.Role == "admin" || claims.Role == "manager"
		}
	}

	categories, err := crm.categoryService.List(r.Context(), includeInactive)
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": categories,
			"count":      len(categories),
		}),
		gecho.Send(),
	)
}

// FetchTree handles GET /categories/tree
func (crm *CategoryRoutesManager) FetchTree(w http.ResponseWriter, r *http.Request) {
	tree, err := crm.categoryService.GetTree(r.Context())
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"tree": tree}),
		gecho.Send(),
	)
}

// FetchRoots handles GET /categories/roots
func (crm *CategoryRoutesManager) FetchRoots(w http.ResponseWriter, r *http.Request) {
	roots, err := crm.categoryService.GetRoots(r.Context())
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": roots,
			"count":      len(roots),
		}),
		gecho.Send(),
	)
}

// FetchByID handles GET /categories/{id}
func (crm *CategoryRoutesManager) FetchByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid category ID"), gecho.Send())
		return
	}

	category, err := crm.categoryService.GetByID(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"category": category}),
		gecho.Send(),
	)
}

// FetchBySlug handles GET /categories/slug/{slug}
func (crm *CategoryRoutesManager) FetchBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		gecho.BadRequest(w, gecho.WithMessage("Category slug is required"), gecho.Send())
		return
	}

	category, err := crm.categoryService.GetBySlug(r.Context(), slug)
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"category": category}),
		gecho.Send(),
	)
}

// FetchProducts handles GET /categories/{id}/products?include_descendants=true
func (crm *CategoryRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid category ID"), gecho.Send())
		return
	}

	includeDescendants := handling.ParseBoolParam(r, "include_descendants")

	products, err := crm.categoryService.GetProducts(r.Context(), id, includeDescendants)
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
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

// FetchDescendants handles GET /categories/{id}/descendants
func (crm *CategoryRoutesManager) FetchDescendants(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid category ID"), gecho.Send())
		return
	}

	descendants, err := crm.categoryService.Descendants(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": descendants,
			"count":      len(descendants),
		}),
		gecho.Send(),
	)
}
