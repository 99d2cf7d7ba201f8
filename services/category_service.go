package services

import (
	"context"
	"fmt"
	"mesaifinal_server/cache"
	"mesaifinal_server/catalog"
	"mesaifinal_server/database"
	"mesaifinal_server/events"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type CategoryService struct {
	logger     *gecho.Logger
	cfg        *structs.Config
	db         *database.DB
	store      cache.Store
	dispatcher *events.Dispatcher
}

func NewCategoryService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, store cache.Store, dispatcher *events.Dispatcher) *CategoryService {
	return &CategoryService{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		store:      store,
		dispatcher: dispatcher,
	}
}

// snapshot returns the full category adjacency built from the cached row
// set. The row set lives under the tree key and is dropped by the
// category.saved/deleted handlers; the TTL is only a safety net.
func (cs *CategoryService) snapshot(ctx context.Context) (*catalog.Tree, error) {
	rows, err := cache.GetOrCompute(ctx, cs.store, cache.KeyCategoryTree, cs.cfg.Cache.TreeTTL,
		func(ctx context.Context) ([]tables.Category, error) {
			return database.Query[tables.Category](cs.db).
				OrderBy("sort_order", database.ASC).
				OrderBy("name", database.ASC).
				All(ctx)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load category snapshot: %w", err)
	}

	return catalog.NewTree(rows, cs.cfg.Catalog.MaxTreeDepth, cs.cfg.Catalog.PathSeparator), nil
}

// GetTree returns the nested category hierarchy.
func (cs *CategoryService) GetTree(ctx context.Context) ([]*catalog.TreeNode, error) {
	tree, err := cs.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	forest, err := tree.Forest()
	if err != nil {
		cs.logger.Error("Category hierarchy is malformed", gecho.Field("error", err))
		return nil, err
	}
	return forest, nil
}

// GetRoots returns active top-level categories.
func (cs *CategoryService) GetRoots(ctx context.Context) ([]tables.Category, error) {
	return cache.GetOrCompute(ctx, cs.store, cache.KeyRootCategories, cs.cfg.Cache.TreeTTL,
		func(ctx context.Context) ([]tables.Category, error) {
			return database.Query[tables.Category](cs.db).
				WhereNull("parent_id").
				Where("is_active", true).
				OrderBy("sort_order", database.ASC).
				OrderBy("name", database.ASC).
				All(ctx)
		})
}

// GetByID returns a category with its resolved full path, cached per id.
// The cached entry holds only the row and its path; the product count is
// derived per call from the category product listing, whose key product
// mutations do invalidate.
func (cs *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*tables.Category, error) {
	result, err := cache.GetOrCompute(ctx, cs.store, cache.KeyCategory(id), cs.cfg.Cache.AggregateTTL,
		func(ctx context.Context) (tables.Category, error) {
			category, err := database.Query[tables.Category](cs.db).Where("id", id).First(ctx)
			if err != nil {
				return tables.Category{}, lib.MapDBError(err)
			}
			if category == nil {
				return tables.Category{}, lib.ErrNotFound
			}
			if err := cs.resolvePath(ctx, category); err != nil {
				return tables.Category{}, err
			}
			return *category, nil
		})
	if err != nil {
		return nil, err
	}

	if err := cs.attachProductCount(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (cs *CategoryService) GetBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	category, err := database.Query[tables.Category](cs.db).Where("slug", slug).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}
	return cs.decorate(ctx, category)
}

// decorate fills the derived fields (full path, active product count).
func (cs *CategoryService) decorate(ctx context.Context, category *tables.Category) (*tables.Category, error) {
	if err := cs.resolvePath(ctx, category); err != nil {
		return nil, err
	}
	if err := cs.attachProductCount(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (cs *CategoryService) resolvePath(ctx context.Context, category *tables.Category) error {
	tree, err := cs.snapshot(ctx)
	if err != nil {
		return err
	}

	path, err := tree.FullPath(category.ID)
	if err != nil {
		cs.logger.Error("Failed to resolve category path",
			gecho.Field("category_id", category.ID),
			gecho.Field("error", err),
		)
		return err
	}
	category.FullPath = &path
	return nil
}

// attachProductCount sets the published product count from the direct
// category listing, so it goes stale and fresh together with that listing.
func (cs *CategoryService) attachProductCount(ctx context.Context, category *tables.Category) error {
	products, err := cs.GetProducts(ctx, category.ID, false)
	if err != nil {
		return err
	}
	count := len(products)
	category.ProductCount = &count
	return nil
}

// List returns all categories; inactive ones only for staff callers.
func (cs *CategoryService) List(ctx context.Context, includeInactive bool) ([]tables.Category, error) {
	query := database.Query[tables.Category](cs.db).
		OrderBy("sort_order", database.ASC).
		OrderBy("name", database.ASC)
	if !includeInactive {
		query = query.Where("is_active", true)
	}

	categories, err := query.All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return categories, nil
}

// Descendants returns every category below id, excluding id itself.
func (cs *CategoryService) Descendants(ctx context.Context, id uuid.UUID) ([]tables.Category, error) {
	tree, err := cs.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Descendants(id)
}

// GetProducts returns published products in a category, optionally covering
// the whole subtree, cached under the category products key.
func (cs *CategoryService) GetProducts(ctx context.Context, id uuid.UUID, includeDescendants bool) ([]tables.Product, error) {
	tree, err := cs.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if tree.Get(id) == nil {
		return nil, lib.ErrNotFound
	}

	// Subtree listings are not cached separately; the direct listing is the
	// hot path the invalidation table covers.
	if !includeDescendants {
		return cache.GetOrCompute(ctx, cs.store, cache.KeyCategoryProducts(id), cs.cfg.Cache.AggregateTTL,
			func(ctx context.Context) ([]tables.Product, error) {
				return cs.queryProducts(ctx, []any{id})
			})
	}

	ids := []any{id}
	descendantIDs, err := tree.DescendantIDs(id)
	if err != nil {
		return nil, err
	}
	for _, did := range descendantIDs {
		ids = append(ids, did)
	}
	return cs.queryProducts(ctx, ids)
}

func (cs *CategoryService) queryProducts(ctx context.Context, categoryIDs []any) ([]tables.Product, error) {
	products, err := database.Query[tables.Product](cs.db).
		WhereIn("category_id", categoryIDs).
		Where("status", string(tables.ProductStatusPublished)).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return products, nil
}

// Create inserts a category after validating the parent link.
func (cs *CategoryService) Create(ctx context.Context, req *structs.CreateCategoryRequest) (*tables.Category, error) {
	startTime := time.Now()

	slug := req.Slug
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}

	category := &tables.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if req.ParentID != nil {
		tree, err := cs.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if tree.Get(*req.ParentID) == nil {
			return nil, lib.ErrNotFound
		}
		if err := tree.ValidateParent(uuid.New(), req.ParentID); err != nil {
			return nil, err
		}
	}

	category, err := database.Query[tables.Category](cs.db).Insert(ctx, category)
	if err != nil {
		mappedErr := lib.MapDBError(err)
		if lib.IsUniqueViolation(mappedErr) {
			cs.logger.Warn("Category creation failed - duplicate name or slug",
				gecho.Field("name", req.Name),
				gecho.Field("slug", slug),
			)
		} else {
			cs.logger.Error("Failed to create category", gecho.Field("error", mappedErr))
		}
		return nil, mappedErr
	}

	cs.dispatcher.Dispatch(ctx, events.Event{
		Kind:       events.CategorySaved,
		CategoryID: category.ID,
		ParentID:   category.ParentID,
	})

	cs.logger.Info("Category created",
		gecho.Field("id", category.ID),
		gecho.Field("slug", category.Slug),
		gecho.Field("duration", time.Since(startTime)),
	)
	return category, nil
}

// Update applies a partial update, re-validating the tree on parent moves.
func (cs *CategoryService) Update(ctx context.Context, id uuid.UUID, req *structs.UpdateCategoryRequest) (*tables.Category, error) {
	existing, err := database.Query[tables.Category](cs.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if existing == nil {
		return nil, lib.ErrNotFound
	}

	updateData := make(map[string]any)
	if req.Name != nil {
		updateData["name"] = *req.Name
		updateData["slug"] = lib.Slugify(*req.Name)
	}
	if req.Description != nil {
		updateData["description"] = *req.Description
	}
	if req.IsActive != nil {
		updateData["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updateData["sort_order"] = *req.SortOrder
	}

	if req.ClearParent {
		updateData["parent_id"] = nil
	} else if req.ParentID != nil {
		tree, err := cs.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		// Re-parenting must not close a cycle through this category
		if err := tree.ValidateParent(id, req.ParentID); err != nil {
			cs.logger.Warn("Rejected category parent change",
				gecho.Field("category_id", id),
				gecho.Field("parent_id", *req.ParentID),
				gecho.Field("error", err),
			)
			return nil, err
		}
		updateData["parent_id"] = *req.ParentID
	}

	if len(updateData) > 0 {
		updateData["updated_at"] = time.Now()
		if _, err := database.Query[tables.Category](cs.db).Where("id", id).Update(ctx, updateData); err != nil {
			return nil, lib.MapDBError(err)
		}
	}

	updated, err := database.Query[tables.Category](cs.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}

	cs.dispatcher.Dispatch(ctx, events.Event{
		Kind:       events.CategorySaved,
		CategoryID: id,
		ParentID:   updated.ParentID,
	})

	return updated, nil
}

// Delete removes a category unless it or any descendant still holds
// products.
func (cs *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := database.Query[tables.Category](cs.db).Where("id", id).First(ctx)
	if err != nil {
		return lib.MapDBError(err)
	}
	if existing == nil {
		return lib.ErrNotFound
	}

	tree, err := cs.snapshot(ctx)
	if err != nil {
		return err
	}

	ids := []any{id}
	descendantIDs, err := tree.DescendantIDs(id)
	if err != nil {
		return err
	}
	for _, did := range descendantIDs {
		ids = append(ids, did)
	}

	productCount, err := database.Query[tables.Product](cs.db).WhereIn("category_id", ids).Count(ctx)
	if err != nil {
		return lib.MapDBError(err)
	}
	if productCount > 0 {
		cs.logger.Warn("Refused to delete category with products in subtree",
			gecho.Field("category_id", id),
			gecho.Field("product_count", productCount),
		)
		return lib.ErrProtectedDelete
	}

	// Capture relations before the row disappears
	parentID := existing.ParentID

	if _, err := database.Query[tables.Category](cs.db).Where("id", id).Delete(ctx); err != nil {
		return lib.MapDBError(err)
	}

	cs.dispatcher.Dispatch(ctx, events.Event{
		Kind:       events.CategoryDeleted,
		CategoryID: id,
		ParentID:   parentID,
	})

	// The database cascades the delete through the subtree, but the event
	// only names the root; drop the descendants' entries here.
	cs.invalidateDescendants(ctx, id, descendantIDs)

	cs.logger.Info("Category deleted", gecho.Field("id", id))
	return nil
}

// invalidateDescendants drops the per-category and listing entries of
// cascade-deleted descendants. Failures are logged, not propagated; the
// delete already happened.
func (cs *CategoryService) invalidateDescendants(ctx context.Context, id uuid.UUID, descendantIDs []uuid.UUID) {
	if len(descendantIDs) == 0 {
		return
	}

	keys := make([]string, 0, 2*len(descendantIDs))
	for _, did := range descendantIDs {
		keys = append(keys, cache.KeyCategory(did), cache.KeyCategoryProducts(did))
	}
	if err := cs.store.Delete(ctx, keys...); err != nil {
		cs.logger.Warn("Failed to invalidate descendant category caches",
			gecho.Field("category_id", id),
			gecho.Field("error", err),
		)
	}
}
