package products

import (
	"mesaifinal_server/handling"
	"mesaifinal_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FetchPublishedProducts handles GET /products, the public storefront
// listing. Only published products are visible here regardless of filters.
func (prm *ProductRoutesManager) FetchPublishedProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		prm.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid query parameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}
	opts.Status = string(tables.ProductStatusPublished)

	result, err := prm.productService.GetAllProducts(ctx, opts)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
			"filters":    result.Filters,
			"meta": map[string]any{
				"query_time_ms": result.QueryTime.Milliseconds(),
				"count":         len(result.Products),
			},
		}),
		gecho.Send(),
	)
}

// FetchAllProducts handles GET /products/all for staff, with every status
// visible and the full filter set available.
func (prm *ProductRoutesManager) FetchAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		prm.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid query parameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	result, err := prm.productService.GetAllProducts(ctx, opts)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
			"filters":    result.Filters,
			"meta": map[string]any{
				"query_time_ms": result.QueryTime.Milliseconds(),
				"count":         len(result.Products),
			},
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/{id}
func (prm *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid product ID"),
			gecho.Send(),
		)
		return
	}

	product, err := prm.productService.GetProductByID(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"product": product}),
		gecho.Send(),
	)
}

// FetchProductBySlug handles GET /products/slug/{slug}
func (prm *ProductRoutesManager) FetchProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		gecho.BadRequest(w, gecho.WithMessage("Product slug is required"), gecho.Send())
		return
	}

	product, err := prm.productService.GetProductBySlug(r.Context(), slug)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"product": product}),
		gecho.Send(),
	)
}

// FetchFeaturedProducts handles GET /products/featured
func (prm *ProductRoutesManager) FetchFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := prm.productService.GetFeaturedProducts(r.Context())
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
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

// FetchLowStockProducts handles GET /products/low-stock?threshold=N
func (prm *ProductRoutesManager) FetchLowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if v := r.URL.Query().Get("threshold"); v != "" {
		parsed, err := parsePositiveInt(v)
		if err != nil {
			gecho.BadRequest(w, gecho.WithMessage("Invalid threshold"), gecho.Send())
			return
		}
		threshold = parsed
	}

	products, err := prm.productService.GetLowStockProducts(r.Context(), threshold)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
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

// FetchStatistics handles GET /products/stats
func (prm *ProductRoutesManager) FetchStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := prm.productService.GetStatistics(r.Context())
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(stats),
		gecho.Send(),
	)
}

// FetchProductReviews handles GET /products/{id}/reviews
func (prm *ProductRoutesManager) FetchProductReviews(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	reviews, err := prm.reviewService.ListForProduct(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"reviews": reviews,
			"count":   len(reviews),
		}),
		gecho.Send(),
	)
}

// FetchProductRating handles GET /products/{id}/rating
func (prm *ProductRoutesManager) FetchProductRating(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product ID"), gecho.Send())
		return
	}

	summary, err := prm.reviewService.GetRatingSummary(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(summary),
		gecho.Send(),
	)
}
