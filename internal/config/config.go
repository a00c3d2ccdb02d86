package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Browse    BrowseConfig    `yaml:"browse"`
	Seed      SeedConfig      `yaml:"seed"`
}

type ServerConfig struct {
	Host        string   `yaml:"host" env:"PREPS_SERVER_HOST"`
	Port        int      `yaml:"port" env:"PREPS_SERVER_PORT" validate:"min=1,max=65535"`
	CORSOrigins []string `yaml:"cors_origins" env:"PREPS_CORS_ORIGINS" envSeparator:","`
}

type DBConfig struct {
	Path string `yaml:"path" env:"PREPS_DB_PATH" validate:"required"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"PREPS_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Path  string `yaml:"path" env:"PREPS_LOG_PATH"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"PREPS_TRANSPORT_MODE" validate:"oneof=stdio http"`
}

type AuthConfig struct {
	Enabled   bool   `yaml:"enabled" env:"PREPS_AUTH_ENABLED"`
	JWTSecret string `yaml:"jwt_secret" env:"PREPS_AUTH_JWT_SECRET" validate:"required_if=Enabled true"`
}

type CatalogConfig struct {
	ListLimit       int           `yaml:"list_limit" env:"PREPS_CATALOG_LIST_LIMIT" validate:"min=1"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"PREPS_CATALOG_REFRESH_INTERVAL" validate:"min=0s"`
}

type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"PREPS_SEARCH_DEBOUNCE" validate:"min=1ms"`
}

type BrowseConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"PREPS_BROWSE_IDLE_TIMEOUT" validate:"min=1s"`
}

type SeedConfig struct {
	Path string `yaml:"path" env:"PREPS_SEED_PATH"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "preps.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: ModeStdio,
		},
		Catalog: CatalogConfig{
			ListLimit:       20,
			RefreshInterval: 5 * time.Minute,
		},
		Search: SearchConfig{
			Debounce: 400 * time.Millisecond,
		},
		Browse: BrowseConfig{
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PREPS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New()

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
