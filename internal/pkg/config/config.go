package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Public PublicConfig
	HTTP   HTTPConfig

	AuditWorkers      int  `env:"AUDIT_WORKERS,       default=4"`
	EnableDebugRoutes bool `env:"ENABLE_DEBUG_ROUTES, default=false"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	JWTTTL     time.Duration `env:"JWT_TTL,    default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
	// Sign-in and sign-up attempts per client IP.
	RatePerSec float64 `env:"AUTH_RATE_PER_SEC, default=5"`
	RateBurst  int     `env:"AUTH_RATE_BURST,   default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=resume_api"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type PublicConfig struct {
	CacheTTL        time.Duration `env:"PUBLIC_CACHE_TTL,  default=30s"`
	LinkMaxAttempts int           `env:"LINK_MAX_ATTEMPTS, default=10"`
}

type HTTPConfig struct {
	CORSOrigins  []string `env:"CORS_ORIGINS,  default=*"`
	CookieSecure bool     `env:"COOKIE_SECURE, default=false"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := loadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func loadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < 32 && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
	}
	if c.Auth.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.JWTTTL)
	}
	if c.Public.LinkMaxAttempts <= 0 {
		return fmt.Errorf("LINK_MAX_ATTEMPTS must be positive, got %d", c.Public.LinkMaxAttempts)
	}
	return nil
}
