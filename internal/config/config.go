package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the portal configuration
type Config struct {
	Server struct {
		Port      string `yaml:"port" env:"SERVER_PORT"`
		Mode      string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
	} `yaml:"server"`

	API struct {
		BaseURL string `yaml:"base_url" env:"API_BASE_URL"`
		Timeout string `yaml:"timeout" env:"API_TIMEOUT"`
	} `yaml:"api"`

	Session struct {
		Secret          string `yaml:"secret" env:"SESSION_SECRET"`
		TTL             string `yaml:"ttl" env:"SESSION_TTL"`
		CookieName      string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		CookieSecure    bool   `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
		Issuer          string `yaml:"issuer" env:"SESSION_ISSUER"`
		Store           string `yaml:"store" env:"SESSION_STORE"`
		CleanupInterval string `yaml:"cleanup_interval" env:"SESSION_CLEANUP_INTERVAL"`
		ResetCodeTTL    string `yaml:"reset_code_ttl" env:"SESSION_RESET_CODE_TTL"`
	} `yaml:"session"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	SMTP struct {
		Host        string `yaml:"host" env:"SMTP_HOST"`
		Port        int    `yaml:"port" env:"SMTP_PORT"`
		Username    string `yaml:"username" env:"SMTP_USERNAME"`
		Password    string `yaml:"password" env:"SMTP_PASSWORD"`
		FromAddress string `yaml:"from_address" env:"SMTP_FROM_ADDRESS"`
		FromName    string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		UseTLS      bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Import struct {
		MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"IMPORT_MAX_UPLOAD_BYTES"`
	} `yaml:"import"`

	Form struct {
		ClientNames []string `yaml:"client_names" env:"FORM_CLIENT_NAMES"`
	} `yaml:"form"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// Session store kinds
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// LoadConfig loads configuration from .env, a YAML file and environment variables, in that order
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; a missing file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.PublicURL = "http://localhost:8080"

	config.API.BaseURL = "http://127.0.0.1:8000"
	config.API.Timeout = "15s"

	config.Session.TTL = "12h"
	config.Session.CookieName = "portal_session"
	config.Session.Issuer = "interview-portal"
	config.Session.Store = StoreMemory
	config.Session.CleanupInterval = "5m"
	config.Session.ResetCodeTTL = "15m"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "interview_portal"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 10
	config.Database.MaxIdleConns = 2
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.SMTP.Port = 587
	config.SMTP.FromName = "Interview Portal"

	config.Import.MaxUploadBytes = 10 << 20

	config.Form.ClientNames = []string{"Client A", "Client B", "Client C"}

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	base, err := url.Parse(config.API.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("api base_url must be an absolute URL, got %q", config.API.BaseURL)
	}

	durations := map[string]string{
		"api timeout":              config.API.Timeout,
		"session ttl":              config.Session.TTL,
		"session cleanup interval": config.Session.CleanupInterval,
		"session reset code ttl":   config.Session.ResetCodeTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch config.Session.Store {
	case StoreMemory:
	case StorePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", config.Session.Store)
	}

	if config.Import.MaxUploadBytes <= 0 {
		return fmt.Errorf("import max_upload_bytes must be positive")
	}

	if len(config.Form.ClientNames) == 0 {
		return fmt.Errorf("at least one form client name is required")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// UsesPostgres reports whether the session and reset stores live in PostgreSQL
func (c *Config) UsesPostgres() bool {
	return c.Session.Store == StorePostgres
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
