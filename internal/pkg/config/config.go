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

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	S3    S3Config
	Audit AuditConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL,   default=48h"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL,  default=48h"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginCooldown    time.Duration `env:"LOGIN_COOLDOWN,     default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=notes"`
}

// RedisConfig backs the login throttle. Every API instance must point at the
// same database for the throttle to hold across replicas.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// S3Config describes the attachment bucket. An empty Bucket disables uploads.
// Static keys are optional; without them the default AWS credential chain is used.
type S3Config struct {
	Bucket       string        `env:"S3_BUCKET"`
	Region       string        `env:"S3_REGION,     default=ap-south-1"`
	Endpoint     string        `env:"S3_ENDPOINT"`
	AccessKey    string        `env:"S3_ACCESS_KEY"`
	SecretKey    string        `env:"S3_SECRET_KEY"`
	UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL, default=24h"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("config: token lifetimes must be positive")
	}
	if cfg.Audit.Workers < 1 {
		cfg.Audit.Workers = 1
	}
	return &cfg, nil
}
