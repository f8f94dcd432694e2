package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverFirestore = "firestore"
	DriverSQLite    = "sqlite"
	DriverMemory    = "memory"
)

// Config holds all recipebox configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Images  ImagesConfig  `yaml:"images"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// DefaultViewportWidth is used by /recipes/view when the client does not
	// send its width.
	DefaultViewportWidth int    `yaml:"default_viewport_width"`
	ShutdownTimeout      string `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver          string `yaml:"driver"` // firestore, sqlite, memory
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Collection      string `yaml:"collection"`
	SQLitePath      string `yaml:"sqlite_path"`
}

type ImagesConfig struct {
	// Height resized images are scaled to; width keeps the aspect ratio.
	Height uint `yaml:"height"`
	// MaxWidth caps the scaled width, so very wide sources are refused.
	MaxWidth uint `yaml:"max_width"`
	// MaxBytes limits how much of a fetched image is read.
	MaxBytes int64  `yaml:"max_bytes"`
	Timeout  string `yaml:"timeout"`
}

type ImportConfig struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                 ":8080",
			AllowedOrigins:       []string{"*"},
			DefaultViewportWidth: 1024,
			ShutdownTimeout:      "10s",
		},
		Storage: StorageConfig{
			Driver:          DriverFirestore,
			ProjectID:       "recipes-433314",
			CredentialsFile: "recipes-433314-92ae1fbf7aca.json",
			Collection:      "recipes",
			SQLitePath:      "recipes.db",
		},
		Images: ImagesConfig{
			Height:   500,
			MaxWidth: 2000,
			MaxBytes: 20 << 20,
			Timeout:  "15s",
		},
		Import: ImportConfig{
			Timeout:   "25s",
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.Storage.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Storage.CredentialsFile = v
	}
	if v := os.Getenv("RECIPES_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("RECIPES_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
}

// Validate checks values the server cannot start without.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFirestore:
		if c.Storage.ProjectID == "" {
			return fmt.Errorf("storage.project_id is required for the firestore driver")
		}
		if c.Storage.Collection == "" {
			return fmt.Errorf("storage.collection is required for the firestore driver")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Images.Height == 0 {
		return fmt.Errorf("images.height must be positive")
	}
	if c.Images.MaxWidth == 0 {
		return fmt.Errorf("images.max_width must be positive")
	}
	if c.Images.MaxBytes <= 0 {
		return fmt.Errorf("images.max_bytes must be positive")
	}
	for name, d := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"images.timeout":          c.Images.Timeout,
		"import.timeout":          c.Import.Timeout,
	} {
		if _, err := parseDuration(d); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
