package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"mesaifinal_server/cache"
	"mesaifinal_server/database"
	"mesaifinal_server/events"
	"mesaifinal_server/lib"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

var DefaultParams = &structs.ArgonParams{
	Memory:  64 * 1024, // 64 MB
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

type AuthService struct {
	logger     *gecho.Logger
	cfg        *structs.Config
	db         *database.DB
	store      cache.Store
	dispatcher *events.Dispatcher
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB, store cache.Store, dispatcher *events.Dispatcher) *AuthService {
	return &AuthService{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		store:      store,
		dispatcher: dispatcher,
	}
}

func (as *AuthService) Login(ctx context.Context, authRequest *structs.AuthRequest) (*tables.User, error) {
	startTime := time.Now()
	user, err := database.Query[tables.User](as.db).Where("email", authRequest.Email).First(ctx)
	if err != nil {
		mappedErr := lib.MapDBError(err)

		// Could be a legitimate "user not found", keep it at debug
		as.logger.Debug("Database query during login",
			gecho.Field("identifier", authRequest.Email),
			gecho.Field("error_detail", lib.GetDetailForLogging(mappedErr)),
		)

		if !lib.IsNotFound(mappedErr) {
			as.logger.Error("Unexpected database error during login",
				gecho.Field("error", mappedErr),
				gecho.Field("original_error", err),
			)
		}

		// Always return invalid credentials (don't leak user existence)
		return nil, lib.ErrInvalidCredentials
	}

	// First() returns nil, nil for no results
	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", authRequest.Email))
		return nil, lib.ErrInvalidCredentials
	}

	if !user.IsActive {
		as.logger.Warn("Inactive user attempted login", gecho.Field("user_id", user.ID))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := as.VerifyPassword(authRequest.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.ID),
		)
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", authRequest.Email),
			gecho.Field("user_id", user.ID),
		)
		return nil, lib.ErrInvalidCredentials
	}

	elapsedTime := time.Since(startTime)
	as.logger.Debug("User logged in successfully", gecho.Field("user_id", user.ID), gecho.Field("elapsed_time_ms", elapsedTime.Milliseconds()))

	// Remove password hash before returning user
	user.PasswordHash = ""

	if cacheErr := as.SetUserInCache(ctx, user); cacheErr != nil {
		as.logger.Warn("Failed to set user in cache after login", gecho.Field("error", cacheErr), gecho.Field("user_id", user.ID))
	}

	return user, nil
}

func (as *AuthService) Register(ctx context.Context, registerRequest *structs.RegisterRequest) (*tables.User, error) {
	startTime := time.Now()
	passwordHash, err := as.HashPassword(registerRequest.Password, DefaultParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}
	user := &tables.User{
		Username:     registerRequest.Username,
		Email:        registerRequest.Email,
		PasswordHash: passwordHash,
		FirstName:    registerRequest.FirstName,
		LastName:     registerRequest.LastName,
		PhoneNumber:  registerRequest.Phone,
		Role:         tables.RoleUser,
		IsActive:     true,
	}
	user, err = database.Query[tables.User](as.db).Insert(ctx, user)
	if err != nil {
		mappedErr := lib.MapDBError(err)

		if lib.IsUniqueViolation(mappedErr) {
			as.logger.Warn("Registration failed - duplicate user",
				gecho.Field("username", registerRequest.Username),
				gecho.Field("email", registerRequest.Email),
			)
		} else {
			as.logger.Error("Database error during registration",
				gecho.Field("error", mappedErr),
				gecho.Field("username", registerRequest.Username),
			)
		}

		return nil, mappedErr
	}

	// Profile auto-creation and stats invalidation hang off this event
	as.dispatcher.Dispatch(ctx, events.Event{Kind: events.UserCreated, UserID: user.ID})

	elapsedTime := time.Since(startTime)
	as.logger.Debug("User registered successfully", gecho.Field("user_id", user.ID), gecho.Field("elapsed_time_ms", elapsedTime.Milliseconds()))

	// Remove password hash before returning user
	user.PasswordHash = ""

	return user, nil
}

// ChangePassword verifies the current password before replacing it.
func (as *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *structs.ChangePasswordRequest) error {
	user, err := database.Query[tables.User](as.db).Where("id", userID).First(ctx)
	if err != nil {
		return lib.MapDBError(err)
	}
	if user == nil {
		return lib.ErrNotFound
	}

	valid, err := as.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !valid {
		return lib.ErrInvalidCredentials
	}

	newHash, err := as.HashPassword(req.NewPassword, DefaultParams)
	if err != nil {
		return err
	}

	_, err = database.Query[tables.User](as.db).Where("id", userID).Update(ctx, map[string]any{
		"password_hash": newHash,
		"updated_at":    time.Now(),
	})
	if err != nil {
		return lib.MapDBError(err)
	}

	if err := as.DeleteUserFromCache(ctx, userID); err != nil {
		as.logger.Warn("Failed to clear user cache after password change", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
	return nil
}

// HashPassword hashes a plain-text password and returns a string and possible error
func (as *AuthService) HashPassword(password string, p *structs.ArgonParams) (string, error) {
	salt, err := generateSalt(p.SaltLen)
	if err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)
	// format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	params := fmt.Sprintf("m=%d,t=%d,p=%d", p.Memory, p.Time, p.Threads)
	encoded := fmt.Sprintf("$argon2id$v=19$%s$%s$%s", params, b64Salt, b64Hash)
	return encoded, nil
}

func generateSalt(n uint32) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// VerifyPassword verifies a plain-text password against a hashed password
func (as *AuthService) VerifyPassword(password, hashedPassword string) (bool, error) {
	parts, err := lib.DecodeArgon2Hash(hashedPassword)
	if err != nil {
		return false, err
	}

	// Hash the input password with the same parameters
	hash := argon2.IDKey([]byte(password), parts.Salt, parts.Time, parts.Memory, parts.Threads, parts.KeyLen)

	// Compare the hashes
	return lib.SecureCompare(hash, parts.Hash), nil
}

// GenerateAccessToken generates a JWT access token for the given user
func (as *AuthService) GenerateAccessToken(user *tables.User) (string, error) {
	return as.generateToken(user, as.cfg.Auth.AccessTokenSecret, as.GetAccessTokenExpiration())
}

// GenerateRefreshToken generates a JWT refresh token for the given user
func (as *AuthService) GenerateRefreshToken(user *tables.User) (string, error) {
	return as.generateToken(user, as.cfg.Auth.RefreshTokenSecret, as.GetRefreshTokenExpiration())
}

func (as *AuthService) generateToken(user *tables.User, secret string, exp time.Time) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.New().String(),
	})
	return token.SignedString([]byte(secret))
}

// GetAccessTokenExpiration returns the expiration time for access tokens
func (as *AuthService) GetAccessTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.AccessTokenExpiry)
}

// GetRefreshTokenExpiration returns the expiration time for refresh tokens
func (as *AuthService) GetRefreshTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.RefreshTokenExpiry)
}

func (as *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*tables.AuthResponse, error) {
	claims, err := lib.ParseToken(refreshToken, false, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Error("Failed to parse refresh token", gecho.Field("error", err))
		return nil, lib.ErrInvalidToken
	}

	if time.Now().After(claims.Exp) {
		as.logger.Warn("Refresh token has expired", gecho.Field("exp", claims.Exp))
		return nil, lib.ErrExpiredToken
	}

	isBlacklisted, err := as.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}

	if isBlacklisted {
		as.logger.Warn("Refresh token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}

	user, err := as.GetUserByID(ctx, claims.Sub)
	if err != nil {
		as.logger.Error("Failed to get user by ID during token refresh", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, lib.ErrInvalidToken
	}

	newAccessToken, err := as.GenerateAccessToken(user)
	if err != nil {
		as.logger.Error("Failed to generate new access token during refresh", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, err
	}

	newRefreshToken, err := as.GenerateRefreshToken(user)
	if err != nil {
		as.logger.Error("Failed to generate new refresh token during refresh", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, err
	}

	return &tables.AuthResponse{
		User:         user,
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (as *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*tables.User, error) {
	// Try to get user from cache first
	cachedUser, err := cache.GetJSON[tables.User](ctx, as.store, cache.KeyUser(userID))
	if err != nil {
		as.logger.Warn("Failed to get user from cache", gecho.Field("error", err), gecho.Field("user_id", userID))
	} else if cachedUser != nil {
		as.logger.Debug("User retrieved from cache", gecho.Field("user_id", userID))
		return cachedUser, nil
	}

	// Cache miss - fetch user from database
	user, err := database.Query[tables.User](as.db).Where("id", userID).First(ctx)
	if err != nil {
		as.logger.Error("Failed to find user by ID", gecho.Field("error", err), gecho.Field("user_id", userID))
		return nil, lib.MapDBError(err)
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}
	user.PasswordHash = ""

	// Cache the user asynchronously
	go func() {
		if err := as.SetUserInCache(context.Background(), user); err != nil {
			as.logger.Warn("Failed to cache user after DB fetch", gecho.Field("error", err), gecho.Field("user_id", userID))
		}
	}()

	return user, nil
}

// BlacklistToken adds a token's jti to the blacklist until its natural expiry
func (as *AuthService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := as.cfg.Auth.BlacklistCacheTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}
	return as.store.Set(ctx, cache.KeyTokenBlacklist(jti), "true", ttl)
}

// IsTokenBlacklisted checks if a JTI has been revoked
func (as *AuthService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	val, err := as.store.Get(ctx, cache.KeyTokenBlacklist(jti))
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

// SetUserInCache stores a user object in cache with TTL
func (as *AuthService) SetUserInCache(ctx context.Context, user *tables.User) error {
	if user == nil {
		return nil
	}
	return cache.SetJSON(ctx, as.store, cache.KeyUser(user.ID), user, as.cfg.Auth.CacheUserTTL)
}

// DeleteUserFromCache removes a user object from cache
func (as *AuthService) DeleteUserFromCache(ctx context.Context, userID uuid.UUID) error {
	return as.store.Delete(ctx, cache.KeyUser(userID))
}

func (as *AuthService) GetAccessTokenSecret() string {
	return as.cfg.Auth.AccessTokenSecret
}

func (as *AuthService) GetRefreshTokenSecret() string {
	return as.cfg.Auth.RefreshTokenSecret
}

func (as *AuthService) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	updates := map[string]any{
		"last_login": time.Now(),
	}
	_, err := database.Query[tables.User](as.db).Where("id", userID).Update(ctx, updates)
	if err != nil {
		return lib.MapDBError(err)
	}
	return nil
}
