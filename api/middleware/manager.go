package middleware

import (
	"mesaifinal_server/cache"
	"mesaifinal_server/services"
	"mesaifinal_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	cfg         *structs.Config
	logger      *gecho.Logger
	authService *services.AuthService
	store       cache.Store
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, authService *services.AuthService, store cache.Store) *Middleware {
	return &Middleware{
		cfg:         cfg,
		logger:      logger,
		authService: authService,
		store:       store,
	}
}
