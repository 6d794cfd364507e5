package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devJWTSecret is the weak fallback used outside production.
const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Port      string        `env:"PORT,       default=5005"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=2h"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`

	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	Mongo     MongoConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Mail      MailConfig

	WebhookURL string `env:"WEBHOOK_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=uixom"`
}

// RedisConfig is optional: an empty Addr disables the login throttle.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type CORSConfig struct {
	Origins          []string `env:"CORS_ORIGINS, default=*"`
	AllowCredentials bool     `env:"CORS_CREDENTIALS, default=false"`
}

type RateLimitConfig struct {
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
	Max    int           `env:"RATE_LIMIT_MAX,    default=300"`
}

// MailConfig drives the outbound notification mail. The feature is silently
// disabled unless host, from address and at least one recipient are set.
type MailConfig struct {
	Host           string   `env:"SMTP_HOST"`
	Port           int      `env:"SMTP_PORT, default=587"`
	User           string   `env:"SMTP_USER"`
	Pass           string   `env:"SMTP_PASS"`
	From           string   `env:"MAIL_FROM"`
	ReplyTo        string   `env:"MAIL_REPLY_TO"`
	TeamRecipients []string `env:"MAIL_TEAM_RECIPIENTS"`
}

// Enabled reports whether every required mail setting is present.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.From != "" && len(m.TeamRecipients) > 0
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
// A signing secret is mandatory in production; elsewhere a weak dev default
// is substituted.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("config: JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return &cfg, nil
}
