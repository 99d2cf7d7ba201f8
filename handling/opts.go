package handling

import (
	"mesaifinal_server/services"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParseProductListOptions parses HTTP query parameters into ProductListOptions
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.ProductListOptions{}, nil
	}

	opts := &services.ProductListOptions{}
	var err error
	var valInt int

	// Parse pagination parameters
	if page := query.Get("page"); page != "" {
		if valInt, err = strconv.Atoi(page); err != nil {
			return nil, err
		}
		opts.Page = valInt
	}

	if pageSize := query.Get("page_size"); pageSize != "" {
		if valInt, err = strconv.Atoi(pageSize); err != nil {
			return nil, err
		}
		opts.PageSize = valInt
	}

	if status := query.Get("status"); status != "" {
		opts.Status = status
	}

	if categoryID := query.Get("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return nil, err
		}
		opts.CategoryID = &id
	}

	if tagID := query.Get("tag_id"); tagID != "" {
		id, err := uuid.Parse(tagID)
		if err != nil {
			return nil, err
		}
		opts.TagID = &id
	}

	// Each pointer filter gets its own local; sharing one would alias the
	// pointers and let a later parse overwrite an earlier filter.
	if isFeatured := query.Get("is_featured"); isFeatured != "" {
		featured, err := strconv.ParseBool(isFeatured)
		if err != nil {
			return nil, err
		}
		opts.IsFeatured = &featured
	}

	if inStock := query.Get("in_stock"); inStock != "" {
		stocked, err := strconv.ParseBool(inStock)
		if err != nil {
			return nil, err
		}
		opts.InStock = &stocked
	}

	if searchTerm := query.Get("search"); searchTerm != "" {
		opts.SearchTerm = searchTerm
	}

	// Parse price filters
	if minPrice := query.Get("min_price"); minPrice != "" {
		d, err := decimal.NewFromString(minPrice)
		if err != nil {
			return nil, err
		}
		opts.MinPrice = &d
	}

	if maxPrice := query.Get("max_price"); maxPrice != "" {
		d, err := decimal.NewFromString(maxPrice)
		if err != nil {
			return nil, err
		}
		opts.MaxPrice = &d
	}

	// Parse date filters
	if createdAfter := query.Get("created_after"); createdAfter != "" {
		t, err := time.Parse(time.RFC3339, createdAfter)
		if err != nil {
			return nil, err
		}
		opts.CreatedAfter = &t
	}

	if createdBefore := query.Get("created_before"); createdBefore != "" {
		t, err := time.Parse(time.RFC3339, createdBefore)
		if err != nil {
			return nil, err
		}
		opts.CreatedBefore = &t
	}

	// Parse sorting parameters
	if sortBy := query.Get("sort_by"); sortBy != "" {
		opts.SortBy = sortBy
	}

	if sortDirection := query.Get("sort_direction"); sortDirection != "" {
		opts.SortDirection = strings.ToUpper(sortDirection)
	}

	// Parse relation flags
	if includeTags := query.Get("include_tags"); includeTags != "" {
		withTags, err := strconv.ParseBool(includeTags)
		if err != nil {
			return nil, err
		}
		opts.IncludeTags = withTags
	}

	if includeCategory := query.Get("include_category"); includeCategory != "" {
		withCategory, err := strconv.ParseBool(includeCategory)
		if err != nil {
			return nil, err
		}
		opts.IncludeCategory = withCategory
	}

	return opts, nil
}

// ParsePagination extracts page/page_size with the shared defaults.
func ParsePagination(r *http.Request) (page, pageSize int) {
	page, pageSize = 1, 20

	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}
	return page, pageSize
}

// ParseBoolParam reads a boolean query parameter, false when absent or
// malformed.
func ParseBoolParam(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false
	}
	parsed, err := strconv.ParseBool(v)
	return err == nil && parsed
}
