// Package config loads and validates the application configuration: the
// storage backend selection (spec §6.1) plus general settings, grounded
// on the teacher's defaults-plus-validate-plus-load-from-file shape in
// internal/config/daemon_config.go, adapted from JSON to YAML since the
// original Rust implementation's config (original_source
// crates/core/src/config.rs) is TOML-shaped with nested optional
// sections that YAML reproduces more naturally in Go than JSON tags
// would.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pace-org/pace-go/internal/domain"
)

// StorageKind selects which backend the façade constructs (spec §6.1).
type StorageKind string

const (
	StorageKindFile     StorageKind = "file"
	StorageKindDatabase StorageKind = "database"
	StorageKindInMemory StorageKind = "in-memory"
)

// DatabaseEngine is the `kind` under a `database` storage configuration
// (spec §6.1); only Sqlite is acknowledged, the rest fail validation
// with UnsupportedDatabaseEngine.
type DatabaseEngine string

const (
	DatabaseEngineSqlite     DatabaseEngine = "sqlite"
	DatabaseEnginePostgres   DatabaseEngine = "postgres"
	DatabaseEngineMySQL      DatabaseEngine = "mysql"
	DatabaseEngineSQLServer  DatabaseEngine = "sql-server"
)

// StorageConfig carries the parameters for whichever StorageKind is
// selected (spec §6.1).
type StorageConfig struct {
	Kind StorageKind `yaml:"kind"`
	// Location is the file path, used when Kind == StorageKindFile.
	Location string `yaml:"location,omitempty"`
	// Database carries the sqlite/postgres/... parameters, used when
	// Kind == StorageKindDatabase.
	Database DatabaseConfig `yaml:"database,omitempty"`
}

// DatabaseConfig is the `database` storage kind's parameter set (spec
// §6.1: "kind: {sqlite,postgres,mysql,sql-server}, url: string").
type DatabaseConfig struct {
	Engine DatabaseEngine `yaml:"engine,omitempty"`
	URL    string         `yaml:"url,omitempty"`
}

// GeneralConfig carries the settings that apply regardless of storage
// backend (spec §6.1, SPEC_FULL.md §3.x supplement).
type GeneralConfig struct {
	// DefaultTimeZone resolves user-supplied wall times that carry no
	// explicit offset (spec §6.1).
	DefaultTimeZone string `yaml:"default_time_zone"`
	// CategorySeparator splits a stored category into head/tail (spec
	// §6.1, default "::").
	CategorySeparator string `yaml:"category_separator"`
	// MostRecentCount is the default count for ListMostRecent when a
	// caller doesn't supply one (SPEC_FULL.md §3.x, from the original's
	// GeneralConfig::most_recent_count, default 9).
	MostRecentCount int `yaml:"most_recent_count"`
}

// AppConfig is the top-level, on-disk application configuration.
type AppConfig struct {
	General GeneralConfig `yaml:"general"`
	Storage StorageConfig `yaml:"storage"`
}

// DefaultConfig returns the zero-configuration defaults (spec §6.1,
// SPEC_FULL.md §3.x): in-memory storage, UTC, "::" separator, 9 most
// recent.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		General: GeneralConfig{
			DefaultTimeZone:   "UTC",
			CategorySeparator: "::",
			MostRecentCount:   9,
		},
		Storage: StorageConfig{
			Kind: StorageKindInMemory,
		},
	}
}

// Load reads and validates the configuration at path, falling back to
// defaults when path is empty or does not exist — mirroring the
// teacher's LoadDaemonConfig "start with defaults, overlay file if
// present" behavior.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the parent directory if
// needed (mirrors the teacher's SaveToFile).
func (cfg *AppConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create config directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}

// Validate checks internal consistency (spec §6.1 "UnsupportedDatabaseEngine").
func (cfg *AppConfig) Validate() error {
	if cfg.General.CategorySeparator == "" {
		return fmt.Errorf("config: category_separator must not be empty")
	}
	if cfg.General.MostRecentCount <= 0 {
		return fmt.Errorf("config: most_recent_count must be positive")
	}

	switch cfg.Storage.Kind {
	case StorageKindInMemory:
		return nil
	case StorageKindFile:
		if cfg.Storage.Location == "" {
			return fmt.Errorf("config: storage.location is required for the file backend")
		}
		return nil
	case StorageKindDatabase:
		if cfg.Storage.Database.Engine != DatabaseEngineSqlite {
			return fmt.Errorf("config: engine %q: %w", cfg.Storage.Database.Engine, domain.ErrUnsupportedDatabaseEngine)
		}
		return nil
	default:
		return fmt.Errorf("config: unknown storage kind %q", cfg.Storage.Kind)
	}
}

// DefaultConfigPath returns the conventional config file location under
// the user's config directory (e.g. $XDG_CONFIG_HOME/pace/config.yaml),
// used by the `pace setup` command when no explicit path is given.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine user config directory: %w", err)
	}
	return filepath.Join(dir, "pace", "config.yaml"), nil
}
