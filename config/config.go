package config

import (
	"mesaifinal_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "Mesaifinal_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8080"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			},
			Cors: &structs.CorsConfig{
				AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"localhost", "http://localhost:3000"}),
				AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
				AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "Authorization"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Database: &structs.DatabaseConfig{
				Host:         getEnvAsString("DB_HOST", "localhost"),
				Port:         getEnvAsInt("DB_PORT", 5432),
				User:         getEnvAsString("DB_USER", "postgres"),
				Password:     getEnvAsString("DB_PASSWORD", "password"),
				Name:         getEnvAsString("DB_NAME", "mesaifinal_db"),
				MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
				ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
				WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			},
			Cache: &structs.CacheConfig{
				Address:  getEnvAsString("CACHE_ADDRESS", "localhost:6379"),
				Username: getEnvAsString("CACHE_USERNAME", ""),
				Password: getEnvAsString("CACHE_PASSWORD", ""),
				DB:       getEnvAsInt("CACHE_DB", 0),

				PoolSize:     getEnvAsInt("CACHE_POOL_SIZE", 10),
				MinIdleConns: getEnvAsInt("CACHE_MIN_IDLE_CONNS", 2),
				MaxIdleConns: getEnvAsInt("CACHE_MAX_IDLE_CONNS", 5),
				PoolTimeout:  getEnvAsTimeDuration("CACHE_POOL_TIMEOUT", 4*time.Second),
				IdleTimeout:  getEnvAsTimeDuration("CACHE_IDLE_TIMEOUT", 5*time.Minute),

				DialTimeout:  getEnvAsTimeDuration("CACHE_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:  getEnvAsTimeDuration("CACHE_READ_TIMEOUT", 3*time.Second),
				WriteTimeout: getEnvAsTimeDuration("CACHE_WRITE_TIMEOUT", 3*time.Second),

				MaxRetries:      getEnvAsInt("CACHE_MAX_RETRIES", 3),
				MinRetryBackoff: getEnvAsTimeDuration("CACHE_MIN_RETRY_BACKOFF", 8*time.Millisecond),
				MaxRetryBackoff: getEnvAsTimeDuration("CACHE_MAX_RETRY_BACKOFF", 512*time.Millisecond),

				AggregateTTL: getEnvAsTimeDuration("CACHE_AGGREGATE_TTL", 24*time.Hour),
				TreeTTL:      getEnvAsTimeDuration("CACHE_TREE_TTL", 24*time.Hour),
			},
			Auth: &structs.AuthConfig{
				CookieDomain:       getEnvAsString("AUTH_COOKIE_DOMAIN", ""),
				AccessTokenSecret:  getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
				AccessTokenExpiry:  getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
				RefreshTokenSecret: getEnvAsString("AUTH_REFRESH_TOKEN_SECRET", "default_refresh_secret"),
				RefreshTokenExpiry: getEnvAsTimeDuration("AUTH_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
				BlacklistCacheTTL:  getEnvAsTimeDuration("AUTH_BLACKLIST_CACHE_TTL", 7*24*time.Hour),
				CacheUserTTL:       getEnvAsTimeDuration("AUTH_CACHE_USER_TTL", 10*time.Minute),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),

				GeneralLimit:  getEnvAsInt("RATE_LIMIT_GENERAL_LIMIT", 120),
				GeneralWindow: getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", 1*time.Minute),

				AuthLimit:  getEnvAsInt("RATE_LIMIT_AUTH_LIMIT", 10),
				AuthWindow: getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", 1*time.Minute),

				WriteLimit:  getEnvAsInt("RATE_LIMIT_WRITE_LIMIT", 30),
				WriteWindow: getEnvAsTimeDuration("RATE_LIMIT_WRITE_WINDOW", 1*time.Minute),

				ExpensiveLimit:  getEnvAsInt("RATE_LIMIT_EXPENSIVE_LIMIT", 60),
				ExpensiveWindow: getEnvAsTimeDuration("RATE_LIMIT_EXPENSIVE_WINDOW", 1*time.Minute),
			},
			Catalog: &structs.CatalogConfig{
				MaxTreeDepth:      getEnvAsInt("CATALOG_MAX_TREE_DEPTH", 100),
				PathSeparator:     getEnvAsString("CATALOG_PATH_SEPARATOR", " > "),
				LowStockThreshold: getEnvAsInt("CATALOG_LOW_STOCK_THRESHOLD", 10),
			},
		}
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
