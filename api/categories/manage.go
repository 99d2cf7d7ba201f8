package categories

import (
	"mesaifinal_server/handling"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Create handles POST /categories
func (crm *CategoryRoutesManager) Create(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateCategoryRequest](r)
	if err != nil {
		crm.logger.Warn("Invalid create category payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	category, err := crm.categoryService.Create(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category created"),
		gecho.WithData(category),
		gecho.Send(),
	)
}

// Update handles PUT /categories/{id}
func (crm *CategoryRoutesManager) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid category ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCategoryRequest](r)
	if err != nil {
		crm.logger.Warn("Invalid update category payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	category, err := crm.categoryService.Update(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category updated"),
		gecho.WithData(category),
		gecho.Send(),
	)
}

// Delete handles DELETE /categories/{id}
func (crm *CategoryRoutesManager) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid category ID"), gecho.Send())
		return
	}

	if err := crm.categoryService.Delete(r.Context(), id); err != nil {
		handling.HandleServiceError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category deleted"),
		gecho.Send(),
	)
}
