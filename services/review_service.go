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

type ReviewService struct {
	logger     *gecho.Logger
	cfg        *structs.Config
	db         *database.DB
	store      cache.Store
	dispatcher *events.Dispatcher
}

func NewReviewService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, store cache.Store, dispatcher *events.Dispatcher) *ReviewService {
	return &ReviewService{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		store:      store,
		dispatcher: dispatcher,
	}
}

// ListForProduct returns approved reviews for a product, newest first,
// cached under the product reviews key.
func (rs *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID) ([]tables.Review, error) {
	product, err := database.Query[tables.Product](rs.db).Where("id", productID).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	return cache.GetOrCompute(ctx, rs.store, cache.KeyProductReviews(productID), rs.cfg.Cache.AggregateTTL,
		func(ctx context.Context) ([]tables.Review, error) {
			return database.Query[tables.Review](rs.db).
				Where("product_id", productID).
				Where("is_approved", true).
				With("User").
				OrderBy("created_at", database.DESC).
				All(ctx)
		})
}

// ListForUser returns every review a user has written, approved or not,
// newest first. Uncached; a user's own review list is a rare read.
func (rs *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID) ([]tables.Review, error) {
	return database.Query[tables.Review](rs.db).
		Where("user_id", userID).
		With("Product").
		OrderBy("created_at", database.DESC).
		All(ctx)
}

// ListPending returns unapproved reviews for moderation, oldest first.
func (rs *ReviewService) ListPending(ctx context.Context, page, pageSize int) (*database.PaginationResult[tables.Review], error) {
	query := database.Query[tables.Review](rs.db).
		Where("is_approved", false).
		With("Product").
		With("User").
		OrderBy("created_at", database.ASC)

	return database.Paginate(query, ctx, page, pageSize)
}

func (rs *ReviewService) GetByID(ctx context.Context, id uuid.UUID) (*tables.Review, error) {
	review, err := database.Query[tables.Review](rs.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if review == nil {
		return nil, lib.ErrNotFound
	}
	return review, nil
}

// Create inserts a review. The (product, user) unique constraint surfaces a
// second review from the same user as a conflict.
func (rs *ReviewService) Create(ctx context.Context, productID, userID uuid.UUID, req *structs.CreateReviewRequest) (*tables.Review, error) {
	startTime := time.Now()

	product, err := database.Query[tables.Product](rs.db).Where("id", productID).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	review := &tables.Review{
		ProductID:          productID,
		UserID:             userID,
		Rating:             req.Rating,
		Title:              req.Title,
		Content:            req.Content,
		IsVerifiedPurchase: req.IsVerifiedPurchase,
		IsApproved:         true,
	}

	review, err = database.Query[tables.Review](rs.db).Insert(ctx, review)
	if err != nil {
		mappedErr := lib.MapDBError(err)
		if lib.IsUniqueViolation(mappedErr) {
			rs.logger.Warn("Duplicate review rejected",
				gecho.Field("product_id", productID),
				gecho.Field("user_id", userID),
			)
		} else {
			rs.logger.Error("Failed to create review", gecho.Field("error", mappedErr))
		}
		return nil, mappedErr
	}

	rs.dispatcher.Dispatch(ctx, events.Event{
		Kind:      events.ReviewSaved,
		ReviewID:  review.ID,
		ProductID: productID,
	})

	rs.logger.Info("Review created",
		gecho.Field("id", review.ID),
		gecho.Field("product_id", productID),
		gecho.Field("rating", review.Rating),
		gecho.Field("duration", time.Since(startTime)),
	)
	return review, nil
}

// Update lets the author revise their review. Anyone else gets forbidden.
func (rs *ReviewService) Update(ctx context.Context, id, userID uuid.UUID, req *structs.UpdateReviewRequest) (*tables.Review, error) {
	existing, err := rs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, lib.ErrForbidden
	}

	updateData := make(map[string]any)
	if req.Rating != nil {
		updateData["rating"] = *req.Rating
	}
	if req.Title != nil {
		updateData["title"] = *req.Title
	}
	if req.Content != nil {
		updateData["content"] = *req.Content
	}

	if len(updateData) > 0 {
		updateData["updated_at"] = time.Now()
		if _, err := database.Query[tables.Review](rs.db).Where("id", id).Update(ctx, updateData); err != nil {
			return nil, lib.MapDBError(err)
		}
	}

	rs.dispatcher.Dispatch(ctx, events.Event{
		Kind:      events.ReviewSaved,
		ReviewID:  id,
		ProductID: existing.ProductID,
	})

	return database.Query[tables.Review](rs.db).Where("id", id).First(ctx)
}

// Delete removes a review, allowed for the author or staff. The product id
// is captured before the delete for the invalidation event.
func (rs *ReviewService) Delete(ctx context.Context, id, callerID uuid.UUID, callerIsStaff bool) error {
	existing, err := rs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != callerID && !callerIsStaff {
		return lib.ErrForbidden
	}

	productID := existing.ProductID

	if _, err := database.Query[tables.Review](rs.db).Where("id", id).Delete(ctx); err != nil {
		return lib.MapDBError(err)
	}

	rs.dispatcher.Dispatch(ctx, events.Event{
		Kind:      events.ReviewDeleted,
		ReviewID:  id,
		ProductID: productID,
	})

	rs.logger.Info("Review deleted", gecho.Field("id", id), gecho.Field("product_id", productID))
	return nil
}

// SetApproval moderates a review. Flipping approval changes the visible
// listing and the rating aggregate, so both are invalidated via the event.
func (rs *ReviewService) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*tables.Review, error) {
	existing, err := rs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updateData := map[string]any{
		"is_approved": approved,
		"updated_at":  time.Now(),
	}
	if _, err := database.Query[tables.Review](rs.db).Where("id", id).Update(ctx, updateData); err != nil {
		return nil, lib.MapDBError(err)
	}

	rs.dispatcher.Dispatch(ctx, events.Event{
		Kind:      events.ReviewSaved,
		ReviewID:  id,
		ProductID: existing.ProductID,
	})

	rs.logger.Info("Review moderation applied",
		gecho.Field("id", id),
		gecho.Field("approved", approved),
	)
	return database.Query[tables.Review](rs.db).Where("id", id).First(ctx)
}

// MarkHelpful atomically bumps the helpful vote counter.
func (rs *ReviewService) MarkHelpful(ctx context.Context, id uuid.UUID) (*tables.Review, error) {
	rows, err := database.Query[tables.Review](rs.db).
		Where("id", id).
		UpdateExprReturning(ctx, "helpful_votes = helpful_votes + 1")
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if len(rows) == 0 {
		return nil, lib.ErrNotFound
	}

	review := rows[0]
	rs.dispatcher.Dispatch(ctx, events.Event{
		Kind:      events.ReviewSaved,
		ReviewID:  review.ID,
		ProductID: review.ProductID,
	})
	return &review, nil
}

// GetRatingSummary returns the approved-review aggregate for a product,
// cached under the product rating key.
func (rs *ReviewService) GetRatingSummary(ctx context.Context, productID uuid.UUID) (*tables.RatingSummary, error) {
	summary, err := cache.GetOrCompute(ctx, rs.store, cache.KeyProductRating(productID), rs.cfg.Cache.AggregateTTL,
		func(ctx context.Context) (tables.RatingSummary, error) {
			row, err := database.RawQueryOne[tables.RatingSummary](rs.db, ctx,
				"SELECT product_id, COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count FROM reviews WHERE product_id = ? AND is_approved = TRUE GROUP BY product_id",
				productID,
			)
			if err != nil {
				return tables.RatingSummary{}, err
			}
			if row == nil {
				// No approved reviews yet
				return tables.RatingSummary{ProductID: productID}, nil
			}
			return *row, nil
		})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
