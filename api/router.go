package api

import (
	"context"
	"mesaifinal_server/api/middleware"
	"mesaifinal_server/cache"
	"mesaifinal_server/config"
	"mesaifinal_server/database"
	"mesaifinal_server/events"
	"mesaifinal_server/services"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App() chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel(config.GetLogLevel())
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	// db
	db := database.GetInstance()

	// config
	cfg := config.GetConfig()

	// cache store, falls back to in-process memory when Redis is unreachable
	store := newStore(standardLogger)

	// event dispatcher drives cache invalidation and profile provisioning
	dispatcher := events.NewDispatcher(standardLogger)

	// services
	sm := services.NewServiceManager(standardLogger, cfg, db, store, dispatcher)

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger, sm.AuthService, store)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(10 * 1024 * 1024))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(gecho.Handlers.CreateLoggingMiddleware(mwLogger))
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)

	// Rate limiting
	r.Use(mw.RateLimitMiddleware())

	// Register all routes
	NewRouterManager(standardLogger, cfg, sm, mw, store).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the Mesaifinal API"),
			gecho.Send(),
		)
	})

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}

func newStore(logger *gecho.Logger) cache.Store {
	redisStore := cache.NewRedisStore()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisStore.Ping(ctx); err != nil {
		logger.Warn("Redis unavailable, using in-process cache", gecho.Field("error", err))
		return cache.NewMemoryStore()
	}

	return redisStore
}
