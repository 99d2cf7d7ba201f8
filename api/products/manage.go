package products

import (
	"fmt"
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/handling"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func parsePositiveInt(s string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("value must not be negative")
	}
	return v, nil
}

// CreateProduct handles POST /products
func (prm *ProductRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CreateProductRequest](r)
	if err != nil {
		prm.logger.Warn("Invalid create product payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	product, err := prm.productService.CreateProduct(r.Context(), claims.Sub, body)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product created"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// UpdateProduct handles PUT /products/{id}
func (prm *ProductRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProductRequest](r)
	if err != nil {
		prm.logger.Warn("Invalid update product payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	product, err := prm.productService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product updated"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// DeleteProduct handles DELETE /products/{id}
func (prm *ProductRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	if err := prm.productService.DeleteProduct(r.Context(), id); err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product deleted"),
		gecho.Send(),
	)
}

// UpdateStock handles PATCH /products/{id}/stock
func (prm *ProductRoutesManager) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.StockUpdateRequest](r)
	if err != nil {
		prm.logger.Warn("Invalid stock update payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithData(err), gecho.Send())
		return
	}

	product, err := prm.productService.UpdateStock(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Stock updated"),
		gecho.WithData(product),
		gecho.Send(),
	)
}
