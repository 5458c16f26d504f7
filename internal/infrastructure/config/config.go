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

	// JWTSecret signs every bearer token. No default on purpose: a missing
	// secret must abort startup, never degrade per-request.
	JWTSecret string `env:"JWT_SECRET"`

	Admin     AdminConfig
	Token     TokenConfig
	Reset     ResetConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
}

// AdminConfig provisions the single operator identity out-of-band. The hash
// is a precomputed bcrypt hash; the plaintext admin password never reaches
// this service.
type AdminConfig struct {
	Email        string `env:"ADMIN_EMAIL"`
	PasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

// TokenConfig sets the per-role session TTLs. Admin sessions are short,
// customer sessions are long; the two are independent knobs.
type TokenConfig struct {
	AdminTTL    time.Duration `env:"ADMIN_TOKEN_TTL,    default=12h"`
	CustomerTTL time.Duration `env:"CUSTOMER_TOKEN_TTL, default=168h"`
}

type ResetConfig struct {
	TokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=1h"`
}

// RouteLimit parameterizes one route class's fixed window.
type RouteLimit struct {
	Window  time.Duration `env:"WINDOW,  default=15m"`
	Max     int64         `env:"MAX,     default=10"`
	Message string        `env:"MESSAGE, default=too many requests"`
}

// RateLimitConfig carries independent windows per protected route class.
// Backend selects the counter store: "memory" (single process) or "redis"
// (shared across instances).
type RateLimitConfig struct {
	Backend  string     `env:"RATE_LIMIT_BACKEND, default=memory"`
	Login    RouteLimit `env:", prefix=RATE_LIMIT_LOGIN_"`
	Register RouteLimit `env:", prefix=RATE_LIMIT_REGISTER_"`
	Forgot   RouteLimit `env:", prefix=RATE_LIMIT_FORGOT_"`
	Reset    RouteLimit `env:", prefix=RATE_LIMIT_RESET_"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront_identity"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SMTPConfig configures the reset-mail relay. An empty Host selects the
// log-only sender, which is the development default.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM, default=no-reply@storefront.local"`
	BaseURL  string `env:"RESET_BASE_URL, default=http://localhost:8080"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
