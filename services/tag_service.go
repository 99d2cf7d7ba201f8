package services

import (
	"context"
	"mesaifinal_server/cache"
	"mesaifinal_server/database"
	"mesaifinal_server/events"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type TagService struct {
	logger     *gecho.Logger
	cfg        *structs.Config
	db         *database.DB
	store      cache.Store
	dispatcher *events.Dispatcher
}

func NewTagService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, store cache.Store, dispatcher *events.Dispatcher) *TagService {
	return &TagService{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		store:      store,
		dispatcher: dispatcher,
	}
}

// List returns tags with their product counts; inactive tags only for staff.
func (ts *TagService) List(ctx context.Context, includeInactive bool) ([]tables.Tag, error) {
	query := database.Query[tables.Tag](ts.db).OrderBy("name", database.ASC)
	if !includeInactive {
		query = query.Where("is_active", true)
	}

	tags, err := query.All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}

	type tagCount struct {
		TagID uuid.UUID `bun:"tag_id"`
		Count int       `bun:"count"`
	}
	counts, err := database.RawQuery[tagCount](ts.db, ctx,
		"SELECT tag_id, COUNT(*) AS count FROM product_tags GROUP BY tag_id",
	)
	if err != nil {
		ts.logger.Warn("Failed to load tag product counts", gecho.Field("error", err))
		return tags, nil
	}

	countByID := make(map[uuid.UUID]int, len(counts))
	for _, c := range counts {
		countByID[c.TagID] = c.Count
	}
	for i := range tags {
		count := countByID[tags[i].ID]
		tags[i].ProductCount = &count
	}

	return tags, nil
}

func (ts *TagService) GetByID(ctx context.Context, id uuid.UUID) (*tables.Tag, error) {
	tag, err := database.Query[tables.Tag](ts.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if tag == nil {
		return nil, lib.ErrNotFound
	}

	count, err := database.Query[tables.ProductTag](ts.db).Where("tag_id", id).Count(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	tag.ProductCount = &count

	return tag, nil
}

func (ts *TagService) GetBySlug(ctx context.Context, slug string) (*tables.Tag, error) {
	tag, err := database.Query[tables.Tag](ts.db).Where("slug", slug).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if tag == nil {
		return nil, lib.ErrNotFound
	}
	return tag, nil
}

// GetProducts returns published products carrying the tag, cached under the
// tag products key.
func (ts *TagService) GetProducts(ctx context.Context, tagID uuid.UUID) ([]tables.Product, error) {
	tag, err := database.Query[tables.Tag](ts.db).Where("id", tagID).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if tag == nil {
		return nil, lib.ErrNotFound
	}

	return cache.GetOrCompute(ctx, ts.store, cache.KeyTagProducts(tagID), ts.cfg.Cache.AggregateTTL,
		func(ctx context.Context) ([]tables.Product, error) {
			return database.Query[tables.Product](ts.db).
				WhereRaw("id IN (SELECT product_id FROM product_tags WHERE tag_id = ?)", tagID).
				Where("status", string(tables.ProductStatusPublished)).
				OrderBy("created_at", database.DESC).
				All(ctx)
		})
}

func (ts *TagService) Create(ctx context.Context, req *structs.CreateTagRequest) (*tables.Tag, error) {
	slug := req.Slug
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}

	tag := &tables.Tag{
		Name:     req.Name,
		Slug:     slug,
		IsActive: true,
	}
	if req.Color != "" {
		tag.Color = req.Color
	}
	if req.IsActive != nil {
		tag.IsActive = *req.IsActive
	}

	tag, err := database.Query[tables.Tag](ts.db).Insert(ctx, tag)
	if err != nil {
		mappedErr := lib.MapDBError(err)
		if lib.IsUniqueViolation(mappedErr) {
			ts.logger.Warn("Tag creation failed - duplicate name or slug",
				gecho.Field("name", req.Name),
				gecho.Field("slug", slug),
			)
		}
		return nil, mappedErr
	}

	ts.logger.Info("Tag created", gecho.Field("id", tag.ID), gecho.Field("slug", tag.Slug))
	return tag, nil
}

func (ts *TagService) Update(ctx context.Context, id uuid.UUID, req *structs.UpdateTagRequest) (*tables.Tag, error) {
	existing, err := database.Query[tables.Tag](ts.db).Where("id", id).First(ctx)
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
	if req.Color != nil {
		updateData["color"] = *req.Color
	}
	if req.IsActive != nil {
		updateData["is_active"] = *req.IsActive
	}

	if len(updateData) > 0 {
		updateData["updated_at"] = time.Now()
		if _, err := database.Query[tables.Tag](ts.db).Where("id", id).Update(ctx, updateData); err != nil {
			return nil, lib.MapDBError(err)
		}
	}

	// Renames and visibility flips change the cached product listings
	if err := ts.store.Delete(ctx, cache.KeyTagProducts(id)); err != nil {
		ts.logger.Warn("Failed to invalidate tag products cache",
			gecho.Field("tag_id", id),
			gecho.Field("error", err),
		)
	}

	return database.Query[tables.Tag](ts.db).Where("id", id).First(ctx)
}

// Delete removes a tag. Join rows cascade at the database level, so the
// affected products only lose the label.
func (ts *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := database.Query[tables.Tag](ts.db).Where("id", id).First(ctx)
	if err != nil {
		return lib.MapDBError(err)
	}
	if existing == nil {
		return lib.ErrNotFound
	}

	if _, err := database.Query[tables.Tag](ts.db).Where("id", id).Delete(ctx); err != nil {
		return lib.MapDBError(err)
	}

	if err := ts.store.Delete(ctx, cache.KeyTagProducts(id)); err != nil {
		ts.logger.Warn("Failed to invalidate tag products cache",
			gecho.Field("tag_id", id),
			gecho.Field("error", err),
		)
	}

	ts.logger.Info("Tag deleted", gecho.Field("id", id))
	return nil
}
