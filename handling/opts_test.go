package handling

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithQuery(query string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/products?"+query, nil)
}

func TestParseProductListOptionsEmpty(t *testing.T) {
	opts, err := ParseProductListOptions(httptest.NewRequest(http.MethodGet, "/products", nil))
	require.NoError(t, err)
	assert.Zero(t, opts.Page)
	assert.Empty(t, opts.Status)
	assert.Nil(t, opts.CategoryID)
}

func TestParseProductListOptionsFull(t *testing.T) {
	categoryID := uuid.New()
	tagID := uuid.New()

	opts, err := ParseProductListOptions(requestWithQuery(
		"page=2&page_size=50&status=published" +
			"&category_id=" + categoryID.String() +
			"&tag_id=" + tagID.String() +
			"&is_featured=true&in_stock=false&search=laptop" +
			"&min_price=9.99&max_price=199.99" +
			"&created_after=2026-01-01T00:00:00Z" +
			"&sort_by=price&sort_direction=desc" +
			"&include_tags=true&include_category=1",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 50, opts.PageSize)
	assert.Equal(t, "published", opts.Status)
	require.NotNil(t, opts.CategoryID)
	assert.Equal(t, categoryID, *opts.CategoryID)
	require.NotNil(t, opts.TagID)
	assert.Equal(t, tagID, *opts.TagID)
	require.NotNil(t, opts.IsFeatured)
	assert.True(t, *opts.IsFeatured)
	require.NotNil(t, opts.InStock)
	assert.False(t, *opts.InStock)
	assert.Equal(t, "laptop", opts.SearchTerm)
	require.NotNil(t, opts.MinPrice)
	assert.Equal(t, "9.99", opts.MinPrice.String())
	require.NotNil(t, opts.MaxPrice)
	assert.Equal(t, "199.99", opts.MaxPrice.String())
	require.NotNil(t, opts.CreatedAfter)
	assert.Equal(t, 2026, opts.CreatedAfter.Year())
	assert.Nil(t, opts.CreatedBefore)
	assert.Equal(t, "price", opts.SortBy)
	assert.Equal(t, "DESC", opts.SortDirection)
	assert.True(t, opts.IncludeTags)
	assert.True(t, opts.IncludeCategory)
}

func TestParseProductListOptionsBoolFiltersIndependent(t *testing.T) {
	// is_featured and in_stock must not share storage, and later boolean
	// flags must not overwrite them through an aliased pointer.
	opts, err := ParseProductListOptions(requestWithQuery(
		"is_featured=true&in_stock=false&include_tags=true&include_category=true",
	))
	require.NoError(t, err)

	require.NotNil(t, opts.IsFeatured)
	require.NotNil(t, opts.InStock)
	assert.True(t, *opts.IsFeatured)
	assert.False(t, *opts.InStock)
}

func TestParseProductListOptionsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad page", "page=abc"},
		{"bad category id", "category_id=nope"},
		{"bad tag id", "tag_id=123"},
		{"bad featured flag", "is_featured=maybe"},
		{"bad price", "min_price=free"},
		{"bad date", "created_after=tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProductListOptions(requestWithQuery(tt.query))
			assert.Error(t, err)
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&page_size=10", 3, 10},
		{"zero falls back", "page=0&page_size=0", 1, 20},
		{"negative falls back", "page=-2&page_size=-5", 1, 20},
		{"garbage falls back", "page=x&page_size=y", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := ParsePagination(requestWithQuery(tt.query))
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}

func TestParseBoolParam(t *testing.T) {
	assert.True(t, ParseBoolParam(requestWithQuery("flag=true"), "flag"))
	assert.True(t, ParseBoolParam(requestWithQuery("flag=1"), "flag"))
	assert.False(t, ParseBoolParam(requestWithQuery("flag=false"), "flag"))
	assert.False(t, ParseBoolParam(requestWithQuery("flag=banana"), "flag"))
	assert.False(t, ParseBoolParam(requestWithQuery(""), "flag"))
}
