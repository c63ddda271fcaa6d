package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=3001"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	StoreDriver string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH,  default=sweetconnect.db"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Mail   MailConfig
	Notify NotifyConfig
	WS     WSConfig
	Seed   SeedConfig

	SharedDisplayName string `env:"SHARED_DISPLAY_NAME, default=Tharun"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=sweetconnect"`
}

// RedisConfig is optional: an empty address disables the recency tracker.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// MailConfig selects SMTP when Host is set; otherwise mail is only logged.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,      default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM,      default=no-reply@sweetconnect.local"`
	FromName string `env:"MAIL_FROM_NAME, default=SweetConnect"`
	AppURL   string `env:"APP_URL,        default=http://localhost:3000"`
}

type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
	Buffer  int `env:"NOTIFY_BUFFER,  default=256"`
}

type WSConfig struct {
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS,     default=http://localhost:3000"`
	MaxMessageSize int64         `env:"WS_MAX_MESSAGE_SIZE, default=4096"`
	RateBurst      int           `env:"WS_RATE_BURST,       default=5"`
	RateInterval   time.Duration `env:"WS_RATE_INTERVAL,    default=1s"`
}

// SeedConfig describes the accounts created at startup when missing.
type SeedConfig struct {
	AdminEmail            string `env:"SEED_ADMIN_EMAIL"`
	AdminPassword         string `env:"SEED_ADMIN_PASSWORD"`
	CorrespondentEmail    string `env:"SEED_CORRESPONDENT_EMAIL"`
	CorrespondentPassword string `env:"SEED_CORRESPONDENT_PASSWORD"`
	CorrespondentName     string `env:"SEED_CORRESPONDENT_NAME"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), nil)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom processes configuration from lookuper, or the OS environment when
// lookuper is nil, and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch strings.ToLower(c.StoreDriver) {
	case "sqlite", "mongo":
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or mongo, got %q", c.StoreDriver)
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults
// (JSON logs, no swagger UI).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
