package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// DefaultAPIBaseURL is the REST backend used when nothing else is configured.
const DefaultAPIBaseURL = "http://localhost:8100/api"

type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
	Env  string `yaml:"env"  env:"SERVER_ENV"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"API_TIMEOUT"`
}

type DatabaseConfig struct {
	// Driver is one of postgres, mysql or sqlite.
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"`
	DSN    string `yaml:"url"    env:"DATABASE_URL"`
}

type SessionConfig struct {
	CookieName      string        `yaml:"cookie_name"      env:"SESSION_COOKIE_NAME"`
	Secure          bool          `yaml:"secure"           env:"SESSION_COOKIE_SECURE"`
	TTL             time.Duration `yaml:"ttl"              env:"SESSION_TTL"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"SESSION_CLEANUP_INTERVAL"`
}

type NotificationsConfig struct {
	Retention time.Duration `yaml:"retention" env:"NOTIFICATION_RETENTION"`
}

type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"  env:"OTEL_SERVICE_NAME"`
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure     bool   `yaml:"insecure"      env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	API           APIConfig           `yaml:"api"`
	Database      DatabaseConfig      `yaml:"database"`
	Session       SessionConfig       `yaml:"session"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

var AppConfig *Config

// Default returns the configuration used when neither a file nor the environment say otherwise.
func Default() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 3000
	cfg.Server.Env = "development"
	cfg.API.BaseURL = DefaultAPIBaseURL
	cfg.API.Timeout = 30 * time.Second
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:portal.db?_pragma=foreign_keys(1)"
	cfg.Session.CookieName = "portal_session"
	cfg.Session.TTL = 7 * 24 * time.Hour
	cfg.Session.CleanupInterval = time.Hour
	cfg.Notifications.Retention = 30 * 24 * time.Hour
	cfg.Telemetry.ServiceName = "accommodation-portal"
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path (optional) and
// finally the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv overlays environment variables onto target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.API.BaseURL == "" {
		return errors.New("api base url must not be empty")
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name must not be empty")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}

// Addr is the listen address of the portal.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// LoadConfig loads the configuration from CONFIG_PATH (default config/config.yaml)
// into AppConfig.
func LoadConfig() error {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		if err := LoadConfig(); err != nil {
			cfg := Default()
			AppConfig = &cfg
		}
	}
	return AppConfig
}
