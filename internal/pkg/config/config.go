package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Portal PortalConfig
	API    APIConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Mail   MailConfig
}

// PortalConfig drives `clinic portal`.
type PortalConfig struct {
	Port             string        `env:"PORT,               default=8080"`
	ClinicAPIURL     string        `env:"CLINIC_API_URL,     default=http://localhost:5000/api"`
	ClinicAPITimeout time.Duration `env:"CLINIC_API_TIMEOUT, default=10s"`
	SessionSecret    string        `env:"SESSION_SECRET"`
	SessionTTL       time.Duration `env:"SESSION_TTL,        default=12h"`
	DashboardRefresh time.Duration `env:"DASHBOARD_REFRESH,  default=30s"`
	ToastTTL         time.Duration `env:"TOAST_TTL,          default=3s"`
	SubmitWindow     time.Duration `env:"SUBMIT_WINDOW,      default=5s"`
}

// APIConfig drives `clinic api`, the reference clinic backend.
type APIConfig struct {
	Port string `env:"API_PORT, default=5000"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ayursutra"`
}

// RedisConfig is optional: an empty Addr disables the portal submit guard.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type MailConfig struct {
	Workers  int    `env:"MAIL_WORKERS,  default=4"`
	From     string `env:"MAIL_FROM,     default=noreply@ayursutra.local"`
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT,     default=587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through an arbitrary lookuper (tests use a map).
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValidatePortal checks settings the portal cannot run without.
func (c *Config) ValidatePortal() error {
	if c.Portal.SessionSecret == "" && !c.IsDev() {
		return errors.New("SESSION_SECRET is required outside development")
	}
	if c.Portal.DashboardRefresh <= 0 {
		return fmt.Errorf("DASHBOARD_REFRESH must be positive, got %s", c.Portal.DashboardRefresh)
	}
	if c.Portal.ToastTTL <= 0 {
		return fmt.Errorf("TOAST_TTL must be positive, got %s", c.Portal.ToastTTL)
	}
	return nil
}
