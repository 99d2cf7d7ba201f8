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

type UserService struct {
	logger     *gecho.Logger
	cfg        *structs.Config
	db         *database.DB
	store      cache.Store
	dispatcher *events.Dispatcher
}

func NewUserService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, store cache.Store, dispatcher *events.Dispatcher) *UserService {
	return &UserService{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		store:      store,
		dispatcher: dispatcher,
	}
}

// RegisterEventHandlers subscribes the profile auto-creation handler. Every
// created user gets a profile row without the registration flow knowing
// about profiles at all.
func (us *UserService) RegisterEventHandlers(d *events.Dispatcher) {
	d.Register(events.UserCreated, func(ctx context.Context, e events.Event) error {
		_, err := us.EnsureProfile(ctx, e.UserID)
		return err
	})
}

// EnsureProfile gets or creates the profile row for a user. The insert is an
// ON CONFLICT DO NOTHING upsert, so concurrent calls race safely.
func (us *UserService) EnsureProfile(ctx context.Context, userID uuid.UUID) (*tables.UserProfile, error) {
	profile := &tables.UserProfile{
		ID:     uuid.New(),
		UserID: userID,
	}
	if _, err := database.Upsert(us.db, ctx, profile, "user_id"); err != nil {
		return nil, lib.MapDBError(err)
	}

	// Re-select: on conflict the upsert leaves the existing row untouched.
	existing, err := database.Query[tables.UserProfile](us.db).Where("user_id", userID).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if existing == nil {
		return nil, lib.ErrNotFound
	}
	return existing, nil
}

// List returns users with their profiles, paginated, newest first.
func (us *UserService) List(ctx context.Context, page, pageSize int) (*database.PaginationResult[tables.User], error) {
	query := database.Query[tables.User](us.db).
		With("Profile").
		OrderBy("created_at", database.DESC)

	return database.Paginate(query, ctx, page, pageSize)
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	user, err := database.Query[tables.User](us.db).
		Where("id", id).
		With("Profile").
		First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}
	return user, nil
}

// Update applies a partial user update. Role and active-status changes are
// only honored when the caller is an admin; other callers get forbidden if
// they attempt them.
func (us *UserService) Update(ctx context.Context, id uuid.UUID, req *structs.UpdateUserRequest, callerIsAdmin bool) (*tables.User, error) {
	existing, err := database.Query[tables.User](us.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if existing == nil {
		return nil, lib.ErrNotFound
	}

	if (req.Role != nil || req.IsActive != nil) && !callerIsAdmin {
		return nil, lib.ErrForbidden
	}

	updateData := make(map[string]any)
	if req.FirstName != nil {
		updateData["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updateData["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		updateData["phone_number"] = *req.PhoneNumber
	}
	if req.Bio != nil {
		updateData["bio"] = *req.Bio
	}
	if req.Role != nil {
		if !tables.Role(*req.Role).Valid() {
			return nil, lib.ErrForbidden
		}
		updateData["role"] = *req.Role
	}
	if req.IsActive != nil {
		updateData["is_active"] = *req.IsActive
	}

	if len(updateData) > 0 {
		updateData["updated_at"] = time.Now()
		if _, err := database.Query[tables.User](us.db).Where("id", id).Update(ctx, updateData); err != nil {
			return nil, lib.MapDBError(err)
		}
	}

	// Cached identity and permission snapshots are stale after any change
	if err := us.store.Delete(ctx, cache.KeyUser(id), cache.KeyUserPermissions(id)); err != nil {
		us.logger.Warn("Failed to invalidate user caches",
			gecho.Field("user_id", id),
			gecho.Field("error", err),
		)
	}
	if req.Role != nil || req.IsActive != nil {
		if err := us.store.Delete(ctx, cache.KeyUserStats); err != nil {
			us.logger.Warn("Failed to invalidate user stats", gecho.Field("error", err))
		}
	}

	return us.GetByID(ctx, id)
}

// Delete removes a user; the profile and their reviews cascade at the
// database level. The deletion event clears the per-user caches.
func (us *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := database.Query[tables.User](us.db).Where("id", id).First(ctx)
	if err != nil {
		return lib.MapDBError(err)
	}
	if existing == nil {
		return lib.ErrNotFound
	}

	if _, err := database.Query[tables.User](us.db).Where("id", id).Delete(ctx); err != nil {
		return lib.MapDBError(err)
	}

	us.dispatcher.Dispatch(ctx, events.Event{
		Kind:   events.UserDeleted,
		UserID: id,
	})

	us.logger.Info("User deleted", gecho.Field("id", id))
	return nil
}

// GetProfile returns a user's profile, cached per user. The profile is
// created on demand for users that predate auto-creation.
func (us *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*tables.UserProfile, error) {
	profile, err := cache.GetOrCompute(ctx, us.store, cache.KeyUserProfile(userID), us.cfg.Cache.AggregateTTL,
		func(ctx context.Context) (tables.UserProfile, error) {
			user, err := database.Query[tables.User](us.db).Where("id", userID).First(ctx)
			if err != nil {
				return tables.UserProfile{}, lib.MapDBError(err)
			}
			if user == nil {
				return tables.UserProfile{}, lib.ErrNotFound
			}

			p, err := us.EnsureProfile(ctx, userID)
			if err != nil {
				return tables.UserProfile{}, err
			}
			return *p, nil
		})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile update for the user.
func (us *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *structs.UpdateProfileRequest) (*tables.UserProfile, error) {
	if _, err := us.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	updateData := make(map[string]any)
	if req.DateOfBirth != nil {
		updateData["date_of_birth"] = *req.DateOfBirth
	}
	if req.Address != nil {
		updateData["address"] = *req.Address
	}
	if req.City != nil {
		updateData["city"] = *req.City
	}
	if req.Country != nil {
		updateData["country"] = *req.Country
	}
	if req.Website != nil {
		updateData["website"] = *req.Website
	}

	if len(updateData) > 0 {
		updateData["updated_at"] = time.Now()
		if _, err := database.Query[tables.UserProfile](us.db).Where("user_id", userID).Update(ctx, updateData); err != nil {
			return nil, lib.MapDBError(err)
		}
	}

	if err := us.store.Delete(ctx, cache.KeyUserProfile(userID)); err != nil {
		us.logger.Warn("Failed to invalidate user profile cache",
			gecho.Field("user_id", userID),
			gecho.Field("error", err),
		)
	}

	profile, err := database.Query[tables.UserProfile](us.db).Where("user_id", userID).First(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return profile, nil
}

// GetStats returns account totals by state and role, cached under the user
// stats key and invalidated on user creation and deletion.
func (us *UserService) GetStats(ctx context.Context) (*structs.UserStats, error) {
	stats, err := cache.GetOrCompute(ctx, us.store, cache.KeyUserStats, us.cfg.Cache.AggregateTTL,
		func(ctx context.Context) (structs.UserStats, error) {
			var stats structs.UserStats

			type roleCount struct {
				Role     string `bun:"role"`
				Active   int    `bun:"active"`
				Inactive int    `bun:"inactive"`
			}
			rows, err := database.RawQuery[roleCount](us.db, ctx, `
				SELECT
					role,
					COUNT(*) FILTER (WHERE is_active) AS active,
					COUNT(*) FILTER (WHERE NOT is_active) AS inactive
				FROM users
				GROUP BY role`,
			)
			if err != nil {
				return stats, err
			}

			stats.UsersByRole = make(map[string]int, len(rows))
			for _, row := range rows {
				stats.UsersByRole[row.Role] = row.Active + row.Inactive
				stats.ActiveUsers += row.Active
				stats.InactiveUsers += row.Inactive
			}
			stats.TotalUsers = stats.ActiveUsers + stats.InactiveUsers
			return stats, nil
		})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
