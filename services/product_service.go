package services

import (
	"context"
	"fmt"
	"mesaifinal_server/cache"
	"mesaifinal_server/database"
	"mesaifinal_server/events"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type ProductService struct {
	logger     *gecho.Logger
	cfg        *structs.Config
	db         *database.DB
	store      cache.Store
	dispatcher *events.Dispatcher
}

func NewProductService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, store cache.Store, dispatcher *events.Dispatcher) *ProductService {
	return &ProductService{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		store:      store,
		dispatcher: dispatcher,
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Filters
	Status        string           `json:"status,omitempty"`         // draft, published, archived
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`    // Filter by category
	TagID         *uuid.UUID       `json:"tag_id,omitempty"`         // Filter by tag (via join table)
	IsFeatured    *bool            `json:"is_featured,omitempty"`    // Filter by featured flag
	MinPrice      *decimal.Decimal `json:"min_price,omitempty"`      // Minimum price
	MaxPrice      *decimal.Decimal `json:"max_price,omitempty"`      // Maximum price
	InStock       *bool            `json:"in_stock,omitempty"`       // Only products with stock (or without)
	SearchTerm    string           `json:"search_term,omitempty"`    // Search in name, description, SKU
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`  // Products created after this date
	CreatedBefore *time.Time       `json:"created_before,omitempty"` // Products created before this date

	// Sorting
	SortBy        string `json:"sort_by"`        // created_at, updated_at, price, name, sku, stock_quantity
	SortDirection string `json:"sort_direction"` // ASC or DESC

	// Relations
	IncludeTags     bool `json:"include_tags"`
	IncludeCategory bool `json:"include_category"`

	// Performance
	Timeout time.Duration `json:"-"` // Query timeout (not exposed in JSON)
}

// ProductListResult wraps the product list response with metadata
type ProductListResult struct {
	Products   []tables.Product    `json:"products"`
	Pagination database.Pagination `json:"pagination"`
	Filters    ProductListOptions  `json:"filters"`
	QueryTime  time.Duration       `json:"query_time"`
}

// GetAllProducts retrieves products with comprehensive filtering, pagination, and error handling
func (ps *ProductService) GetAllProducts(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	ps.applyDefaultOptions(opts)

	if err := ps.validateOptions(opts); err != nil {
		ps.logger.Error("Invalid product list options", gecho.Field("error", err), gecho.Field("options", opts))
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	queryCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	query := database.Query[tables.Product](ps.db)
	query = ps.applyFilters(query, opts)
	query = ps.applySorting(query, opts)

	if opts.IncludeTags {
		query = query.With("Tags")
	}
	if opts.IncludeCategory {
		query = query.With("Category")
	}

	result, err := database.Paginate(query, queryCtx, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("pageSize", opts.PageSize),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("page", result.Pagination.Page),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
		Filters:    *opts,
		QueryTime:  time.Since(startTime),
	}, nil
}

// GetProductByID retrieves a single product by ID with relations and review aggregates.
func (ps *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	startTime := time.Now()

	product, err := database.Query[tables.Product](ps.db).
		Where("id", id).
		With("Category").
		With("Tags").
		Timeout(5 * time.Second).
		First(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch product by ID",
			gecho.Field("id", id),
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, lib.MapDBError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	ps.attachRating(ctx, product)
	return product, nil
}

// GetProductBySlug is the storefront lookup path.
func (ps *ProductService) GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	product, err := database.Query[tables.Product](ps.db).
		Where("slug", slug).
		With("Category").
		With("Tags").
		First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	ps.attachRating(ctx, product)
	return product, nil
}

// attachRating fills the computed review aggregate fields. A failure here is
// logged and leaves the fields unset rather than failing the product read.
func (ps *ProductService) attachRating(ctx context.Context, product *tables.Product) {
	summary, err := database.RawQueryOne[tables.RatingSummary](ps.db, ctx,
		"SELECT product_id, COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count FROM reviews WHERE product_id = ? AND is_approved = TRUE GROUP BY product_id",
		product.ID,
	)
	if err != nil {
		ps.logger.Warn("Failed to load review aggregate",
			gecho.Field("product_id", product.ID),
			gecho.Field("error", err),
		)
		return
	}
	if summary == nil {
		return
	}
	product.AvgRating = &summary.AverageRating
	product.ReviewCount = &summary.ReviewCount
}

// GetFeaturedProducts returns published featured products, cached under the
// featured products key and invalidated on any product write.
func (ps *ProductService) GetFeaturedProducts(ctx context.Context) ([]tables.Product, error) {
	return cache.GetOrCompute(ctx, ps.store, cache.KeyFeaturedProducts, ps.cfg.Cache.AggregateTTL,
		func(ctx context.Context) ([]tables.Product, error) {
			return database.Query[tables.Product](ps.db).
				Where("is_featured", true).
				Where("status", string(tables.ProductStatusPublished)).
				OrderBy("created_at", database.DESC).
				All(ctx)
		})
}

// GetLowStockProducts lists published products at or below the threshold.
// A non-positive threshold falls back to the configured default.
func (ps *ProductService) GetLowStockProducts(ctx context.Context, threshold int) ([]tables.Product, error) {
	if threshold <= 0 {
		threshold = ps.cfg.Catalog.LowStockThreshold
	}

	products, err := database.Query[tables.Product](ps.db).
		WhereOp("stock_quantity", "<=", threshold).
		Where("status", string(tables.ProductStatusPublished)).
		OrderBy("stock_quantity", database.ASC).
		OrderBy("name", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return products, nil
}

// GetStatistics returns catalog-wide aggregates, cached under the product
// stats key and recomputed after any product write.
func (ps *ProductService) GetStatistics(ctx context.Context) (*structs.ProductStats, error) {
	stats, err := cache.GetOrCompute(ctx, ps.store, cache.KeyProductStats, ps.cfg.Cache.AggregateTTL, ps.computeStatistics)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (ps *ProductService) computeStatistics(ctx context.Context) (structs.ProductStats, error) {
	startTime := time.Now()
	var stats structs.ProductStats

	type productCounts struct {
		Total      int `bun:"total"`
		Published  int `bun:"published"`
		Draft      int `bun:"draft"`
		Archived   int `bun:"archived"`
		Featured   int `bun:"featured"`
		LowStock   int `bun:"low_stock"`
		OutOfStock int `bun:"out_of_stock"`
	}

	counts, err := database.RawQueryOne[productCounts](ps.db, ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'published') AS published,
			COUNT(*) FILTER (WHERE status = 'draft') AS draft,
			COUNT(*) FILTER (WHERE status = 'archived') AS archived,
			COUNT(*) FILTER (WHERE is_featured) AS featured,
			COUNT(*) FILTER (WHERE stock_quantity > 0 AND stock_quantity <= ?) AS low_stock,
			COUNT(*) FILTER (WHERE stock_quantity = 0) AS out_of_stock
		FROM products`,
		ps.cfg.Catalog.LowStockThreshold,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to compute product counts: %w", err)
	}
	if counts != nil {
		stats.TotalProducts = counts.Total
		stats.PublishedProducts = counts.Published
		stats.DraftProducts = counts.Draft
		stats.ArchivedProducts = counts.Archived
		stats.FeaturedProducts = counts.Featured
		stats.LowStockProducts = counts.LowStock
		stats.OutOfStockProducts = counts.OutOfStock
	}

	type topCategory struct {
		Name         string `bun:"name"`
		ProductCount int    `bun:"product_count"`
	}
	topCategories, err := database.RawQuery[topCategory](ps.db, ctx, `
		SELECT c.name AS name, COUNT(p.id) AS product_count
		FROM categories c
		JOIN products p ON p.category_id = c.id
		GROUP BY c.name
		ORDER BY product_count DESC, c.name ASC
		LIMIT 5`,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to compute top categories: %w", err)
	}
	stats.TopCategories = make([]structs.CategoryCount, 0, len(topCategories))
	for _, tc := range topCategories {
		stats.TopCategories = append(stats.TopCategories, structs.CategoryCount{
			Name:         tc.Name,
			ProductCount: tc.ProductCount,
		})
	}

	type reviewCounts struct {
		Total         int      `bun:"total"`
		Approved      int      `bun:"approved"`
		AverageRating *float64 `bun:"average_rating"`
	}
	reviews, err := database.RawQueryOne[reviewCounts](ps.db, ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_approved) AS approved,
			AVG(rating) FILTER (WHERE is_approved) AS average_rating
		FROM reviews`,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to compute review counts: %w", err)
	}
	if reviews != nil {
		stats.TotalReviews = reviews.Total
		stats.ApprovedReviews = reviews.Approved
		stats.AverageRating = reviews.AverageRating
	}

	ps.logger.Debug("Product statistics computed", gecho.Field("duration", time.Since(startTime)))
	return stats, nil
}

// CreateProduct inserts a product with its tag links in one transaction.
// Slug and SKU are generated when absent.
func (ps *ProductService) CreateProduct(ctx context.Context, createdBy uuid.UUID, req *structs.CreateProductRequest) (*tables.Product, error) {
	startTime := time.Now()

	category, err := database.Query[tables.Category](ps.db).Where("id", req.CategoryID).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}

	slug := req.Slug
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}
	sku := req.SKU
	if sku == "" {
		sku, err = lib.GenerateSKU(req.Name, 6)
		if err != nil {
			return nil, fmt.Errorf("failed to generate SKU: %w", err)
		}
	}
	status := tables.ProductStatusDraft
	if req.Status != "" {
		status = tables.ProductStatus(req.Status)
	}

	product := &tables.Product{
		ID:               uuid.New(),
		Name:             req.Name,
		Slug:             slug,
		SKU:              sku,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		CategoryID:       req.CategoryID,
		Price:            req.Price,
		Cost:             req.Cost,
		StockQuantity:    req.StockQuantity,
		Barcode:          req.Barcode,
		Weight:           req.Weight,
		Dimensions:       req.Dimensions,
		Status:           status,
		IsFeatured:       req.IsFeatured,
		CreatedBy:        createdBy,
	}

	err = database.Transaction(ctx, func(tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(product).Exec(ctx); err != nil {
			return err
		}
		if len(req.TagIDs) > 0 {
			links := make([]tables.ProductTag, len(req.TagIDs))
			for i, tagID := range req.TagIDs {
				links[i] = tables.ProductTag{ProductID: product.ID, TagID: tagID}
			}
			if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		mappedErr := lib.MapDBError(err)
		ps.logger.Error("Failed to create product",
			gecho.Field("error", mappedErr),
			gecho.Field("product_name", req.Name),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, mappedErr
	}

	ps.dispatcher.Dispatch(ctx, events.Event{
		Kind:       events.ProductSaved,
		ProductID:  product.ID,
		CategoryID: product.CategoryID,
		TagIDs:     req.TagIDs,
	})

	ps.logger.Info("Product created successfully",
		gecho.Field("id", product.ID),
		gecho.Field("sku", product.SKU),
		gecho.Field("duration", time.Since(startTime)),
	)
	return product, nil
}

// UpdateProduct applies a partial update. When the tag list is provided the
// links are replaced wholesale inside the same transaction.
func (ps *ProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, req *structs.UpdateProductRequest) (*tables.Product, error) {
	existing, err := database.Query[tables.Product](ps.db).Where("id", productID).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if existing == nil {
		return nil, lib.ErrNotFound
	}

	// The previous category also needs invalidation when the product moves.
	previousCategoryID := existing.CategoryID

	updateData := make(map[string]any)
	if req.Name != nil {
		updateData["name"] = *req.Name
		updateData["slug"] = lib.Slugify(*req.Name)
	}
	if req.Description != nil {
		updateData["description"] = *req.Description
	}
	if req.ShortDescription != nil {
		updateData["short_description"] = *req.ShortDescription
	}
	if req.CategoryID != nil {
		category, err := database.Query[tables.Category](ps.db).Where("id", *req.CategoryID).First(ctx)
		if err != nil {
			return nil, lib.MapDBError(err)
		}
		if category == nil {
			return nil, lib.ErrNotFound
		}
		updateData["category_id"] = *req.CategoryID
	}
	if req.Price != nil {
		updateData["price"] = *req.Price
	}
	if req.Cost != nil {
		updateData["cost"] = *req.Cost
	}
	if req.Barcode != nil {
		updateData["barcode"] = *req.Barcode
	}
	if req.Weight != nil {
		updateData["weight"] = *req.Weight
	}
	if req.Dimensions != nil {
		updateData["dimensions"] = *req.Dimensions
	}
	if req.Status != nil {
		updateData["status"] = *req.Status
	}
	if req.IsFeatured != nil {
		updateData["is_featured"] = *req.IsFeatured
	}

	err = database.Transaction(ctx, func(tx bun.Tx) error {
		if len(updateData) > 0 {
			updateData["updated_at"] = time.Now()
			query := tx.NewUpdate().Model((*tables.Product)(nil)).Where("id = ?", productID)
			for col, val := range updateData {
				query = query.Set("? = ?", bun.Ident(col), val)
			}
			if _, err := query.Exec(ctx); err != nil {
				return err
			}
		}

		if req.TagIDs != nil {
			if _, err := tx.NewDelete().Model((*tables.ProductTag)(nil)).Where("product_id = ?", productID).Exec(ctx); err != nil {
				return err
			}
			if len(req.TagIDs) > 0 {
				links := make([]tables.ProductTag, len(req.TagIDs))
				for i, tagID := range req.TagIDs {
					links[i] = tables.ProductTag{ProductID: productID, TagID: tagID}
				}
				if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, lib.MapDBError(err)
	}

	updated, err := database.Query[tables.Product](ps.db).
		Where("id", productID).
		With("Tags").
		First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}

	tagIDs, err := ps.tagIDsFor(ctx, productID)
	if err != nil {
		return nil, err
	}

	event := events.Event{
		Kind:       events.ProductSaved,
		ProductID:  productID,
		CategoryID: updated.CategoryID,
		TagIDs:     tagIDs,
	}
	ps.dispatcher.Dispatch(ctx, event)
	if previousCategoryID != updated.CategoryID {
		event.CategoryID = previousCategoryID
		ps.dispatcher.Dispatch(ctx, event)
	}

	return updated, nil
}

// DeleteProduct removes a product. Relations are captured first so the
// invalidation event still knows which listings the row appeared in.
func (ps *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	existing, err := database.Query[tables.Product](ps.db).Where("id", productID).First(ctx)
	if err != nil {
		return lib.MapDBError(err)
	}
	if existing == nil {
		return lib.ErrNotFound
	}

	tagIDs, err := ps.tagIDsFor(ctx, productID)
	if err != nil {
		return err
	}

	if _, err := database.Query[tables.Product](ps.db).Where("id", productID).Delete(ctx); err != nil {
		return lib.MapDBError(err)
	}

	ps.dispatcher.Dispatch(ctx, events.Event{
		Kind:       events.ProductDeleted,
		ProductID:  productID,
		CategoryID: existing.CategoryID,
		TagIDs:     tagIDs,
	})

	ps.logger.Info("Product deleted", gecho.Field("id", productID))
	return nil
}

func (ps *ProductService) tagIDsFor(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	links, err := database.Query[tables.ProductTag](ps.db).Where("product_id", productID).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	tagIDs := make([]uuid.UUID, len(links))
	for i := range links {
		tagIDs[i] = links[i].TagID
	}
	return tagIDs, nil
}

// UpdateStock adjusts inventory in a single statement. "subtract" is strict:
// it only applies when enough stock remains, otherwise nothing changes and
// ErrInsufficientStock is returned. "add" and "set" clamp at zero.
func (ps *ProductService) UpdateStock(ctx context.Context, productID uuid.UUID, req *structs.StockUpdateRequest) (*tables.Product, error) {
	operation := req.Operation
	if operation == "" {
		operation = "set"
	}

	var rows []tables.Product
	var err error

	switch operation {
	case "set":
		quantity := req.Quantity
		if quantity < 0 {
			quantity = 0
		}
		rows, err = database.Query[tables.Product](ps.db).
			Where("id", productID).
			UpdateExprReturning(ctx, "stock_quantity = ?", quantity)
	case "add":
		rows, err = database.Query[tables.Product](ps.db).
			Where("id", productID).
			UpdateExprReturning(ctx, "stock_quantity = GREATEST(stock_quantity + ?, 0)", req.Quantity)
	case "subtract":
		return ps.ReduceStock(ctx, productID, req.Quantity)
	default:
		return nil, fmt.Errorf("invalid stock operation: %s", operation)
	}

	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if len(rows) == 0 {
		return nil, lib.ErrNotFound
	}

	product := rows[0]
	ps.dispatcher.Dispatch(ctx, events.Event{
		Kind:       events.ProductSaved,
		ProductID:  productID,
		CategoryID: product.CategoryID,
	})
	return &product, nil
}

// ReduceStock atomically decrements stock, failing without change when
// fewer than quantity units remain.
func (ps *ProductService) ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) (*tables.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("reduce quantity must be positive, got %d", quantity)
	}

	rows, err := database.Query[tables.Product](ps.db).
		Where("id", productID).
		WhereOp("stock_quantity", ">=", quantity).
		UpdateExprReturning(ctx, "stock_quantity = stock_quantity - ?", quantity)
	if err != nil {
		return nil, lib.MapDBError(err)
	}

	if len(rows) == 0 {
		// Distinguish a missing product from an insufficient balance
		existing, err := database.Query[tables.Product](ps.db).Where("id", productID).First(ctx)
		if err != nil {
			return nil, lib.MapDBError(err)
		}
		if existing == nil {
			return nil, lib.ErrNotFound
		}
		ps.logger.Warn("Stock reduction rejected",
			gecho.Field("product_id", productID),
			gecho.Field("requested", quantity),
			gecho.Field("available", existing.StockQuantity),
		)
		return nil, lib.ErrInsufficientStock
	}

	product := rows[0]
	ps.dispatcher.Dispatch(ctx, events.Event{
		Kind:       events.ProductSaved,
		ProductID:  productID,
		CategoryID: product.CategoryID,
	})
	return &product, nil
}

// applyDefaultOptions sets default values for unspecified options
func (ps *ProductService) applyDefaultOptions(opts *ProductListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100 // Max page size for performance
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = "DESC"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
}

// validateOptions validates the provided options
func (ps *ProductService) validateOptions(opts *ProductListOptions) error {
	validSortFields := map[string]bool{
		"created_at":     true,
		"updated_at":     true,
		"price":          true,
		"name":           true,
		"sku":            true,
		"stock_quantity": true,
	}
	if !validSortFields[opts.SortBy] {
		return fmt.Errorf("invalid sort field: %s", opts.SortBy)
	}

	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return fmt.Errorf("invalid sort direction: %s (must be ASC or DESC)", opts.SortDirection)
	}

	if opts.Status != "" && !tables.ProductStatus(opts.Status).Valid() {
		return fmt.Errorf("invalid status filter: %s", opts.Status)
	}

	if opts.MinPrice != nil && opts.MaxPrice != nil && opts.MinPrice.GreaterThan(*opts.MaxPrice) {
		return fmt.Errorf("min_price cannot be greater than max_price")
	}

	return nil
}

// applyFilters applies all filter conditions to the query
func (ps *ProductService) applyFilters(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	if opts.Status != "" {
		query = query.Where("status", opts.Status)
	}

	if opts.CategoryID != nil {
		query = query.Where("category_id", *opts.CategoryID)
	}

	if opts.TagID != nil {
		query = query.WhereRaw(
			"id IN (SELECT product_id FROM product_tags WHERE tag_id = ?)",
			*opts.TagID,
		)
	}

	if opts.IsFeatured != nil {
		query = query.Where("is_featured", *opts.IsFeatured)
	}

	if opts.MinPrice != nil {
		query = query.WhereOp("price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("price", "<=", *opts.MaxPrice)
	}

	if opts.InStock != nil {
		if *opts.InStock {
			query = query.WhereOp("stock_quantity", ">", 0)
		} else {
			query = query.Where("stock_quantity", 0)
		}
	}

	// Search in name, description, or SKU
	if opts.SearchTerm != "" {
		searchPattern := "%" + opts.SearchTerm + "%"
		query = query.WhereRaw(
			"(name ILIKE ? OR description ILIKE ? OR sku ILIKE ?)",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if opts.CreatedAfter != nil {
		query = query.WhereOp("created_at", ">=", *opts.CreatedAfter)
	}
	if opts.CreatedBefore != nil {
		query = query.WhereOp("created_at", "<=", *opts.CreatedBefore)
	}

	return query
}

// applySorting applies sorting to the query
func (ps *ProductService) applySorting(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	var direction database.OrderDirection
	if opts.SortDirection == "ASC" {
		direction = database.ASC
	} else {
		direction = database.DESC
	}

	query = query.OrderBy(opts.SortBy, direction)

	// Secondary sort by ID for consistent ordering
	query = query.OrderBy("id", database.ASC)

	return query
}
