package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Schema modes. SchemaModeReset drops every table before migrating, which
// wipes all users and viewing history.
const (
	SchemaModeMigrate = "migrate"
	SchemaModeReset   = "reset"
)

type Config struct {
	DatabasePath string `env:"DATABASE_PATH" env-default:"movie_app.db"`
	SchemaMode   string `env:"SCHEMA_MODE" env-default:"migrate"`
	SeedCatalog  bool   `env:"SEED_CATALOG" env-default:"false"`

	Host        string   `env:"HOST" env-default:"127.0.0.1"`
	Port        string   `env:"PORT" env-default:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	JwtSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"24h"`

	PredictorURL     string        `env:"PREDICTOR_URL" env-default:"http://localhost:5000"`
	PredictorTimeout time.Duration `env:"PREDICTOR_TIMEOUT" env-default:"10s"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads an optional .env file and then binds the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JwtSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set. This is critical for authentication")
	}
	if c.DatabasePath == "" {
		return errors.New("DATABASE_PATH is not set")
	}
	switch c.SchemaMode {
	case SchemaModeMigrate, SchemaModeReset:
	default:
		return fmt.Errorf("SCHEMA_MODE must be %q or %q, got %q", SchemaModeMigrate, SchemaModeReset, c.SchemaMode)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
