package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the data directory.
const FileName = "budgetflow.yaml"

// Environment variables that override the config file.
const (
	EnvUser     = "BUDGETFLOW_USER"
	EnvDataDir  = "BUDGETFLOW_DATA_DIR"
	EnvStorage  = "BUDGETFLOW_STORAGE"
	EnvLogLevel = "BUDGETFLOW_LOG_LEVEL"
)

// Config represents the top-level budgetflow.yaml configuration.
type Config struct {
	User    string        `yaml:"user"`
	Storage StorageConfig `yaml:"storage"`
	Import  ImportConfig  `yaml:"import"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`    // relative to the data dir
}

// ImportConfig controls the import directory workflow.
type ImportConfig struct {
	Dir    string `yaml:"dir"`
	Parser string `yaml:"parser"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads a budgetflow.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir reads the config of a data directory, falling back to Default when
// the directory has not been initialized.
func LoadDir(dataDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dataDir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(user string) *Config {
	return &Config{
		User: user,
		Storage: StorageConfig{
			Backend: "file",
			Path:    "data",
		},
		Import: ImportConfig{
			Dir:    "import",
			Parser: "csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadEnvFile loads variables from a .env file into the process environment.
// A missing file is not an error. Variables already set are kept.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any BUDGETFLOW_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v := getEnv(EnvUser); v != "" {
		cfg.User = v
	}
	if v := getEnv(EnvStorage); v != "" {
		cfg.Storage.Backend = v
	}
	if v := getEnv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// DataDir resolves the data directory: flag, then BUDGETFLOW_DATA_DIR, then
// ~/.budgetflow.
func DataDir(flag string) string {
	if flag != "" {
		return flag
	}
	if v := getEnv(EnvDataDir); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".budgetflow"
	}
	return filepath.Join(home, ".budgetflow")
}

// StoragePath returns the storage location inside dataDir. An empty path
// means "data" for the file backend and "budgetflow.db" for sqlite.
func (c *Config) StoragePath(dataDir string) string {
	p := c.Storage.Path
	if p == "" {
		p = "data"
		if strings.EqualFold(c.Storage.Backend, "sqlite") {
			p = "budgetflow.db"
		}
	}
	return resolve(dataDir, p)
}

// ImportDir returns the import directory inside dataDir.
func (c *Config) ImportDir(dataDir string) string {
	if c.Import.Dir == "" {
		return resolve(dataDir, "import")
	}
	return resolve(dataDir, c.Import.Dir)
}

// MetricsTextfile returns the metrics textfile path, or "" when disabled.
func (c *Config) MetricsTextfile(dataDir string) string {
	if c.Metrics.Textfile == "" {
		return ""
	}
	return resolve(dataDir, c.Metrics.Textfile)
}

func resolve(dataDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
