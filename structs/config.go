package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Database *DatabaseConfig
	Cache    *CacheConfig
	Auth      *AuthConfig
	Catalog   *CatalogConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Mesaifinal
	Environment    string        // development, production
	Port           string        // :8080
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration // in seconds
	MaxIdleTime  time.Duration // in seconds
	ReadTimeout  time.Duration // in seconds
	WriteTimeout time.Duration // in seconds
}

type CacheConfig struct {
	Address  string
	Username string
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
	MaxIdleConns int
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration

	// TTL safety nets for derived aggregates; invalidation is event-driven,
	// these only bound staleness after a missed invalidation.
	AggregateTTL time.Duration
	TreeTTL      time.Duration
}

type AuthConfig struct {
	CookieDomain       string
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	BlacklistCacheTTL  time.Duration
	CacheUserTTL       time.Duration
}

type RateLimitConfig struct {
	Enabled bool

	GeneralLimit  int
	GeneralWindow time.Duration

	AuthLimit  int
	AuthWindow time.Duration

	WriteLimit  int
	WriteWindow time.Duration

	ExpensiveLimit  int
	ExpensiveWindow time.Duration
}

type CatalogConfig struct {
	// MaxTreeDepth bounds category path resolution; anything deeper is
	// reported as a data-integrity error instead of walking further.
	MaxTreeDepth int
	// PathSeparator joins ancestor names in full category paths.
	PathSeparator string
	// LowStockThreshold is the default cutoff for the low-stock report.
	LowStockThreshold int
}
