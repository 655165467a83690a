package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/storage"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = ".formbuilder.yaml"

// Config holds the formbuilder configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // memory, file, sqlite
	Path   string `yaml:"path"`
	Key    string `yaml:"key"`
	// FileMode is the octal permission of documents written by the file
	// driver.
	FileMode string `yaml:"file_mode"`
	// Table and BusyTimeout apply to the sqlite driver only.
	Table       string `yaml:"table"`
	BusyTimeout string `yaml:"busy_timeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:      string(storage.DriverFile),
			Key:         storage.DefaultKey,
			FileMode:    "0644",
			Table:       "kv",
			BusyTimeout: "5s",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %q: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if driver := os.Getenv("FORMBUILDER_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if path := os.Getenv("FORMBUILDER_STORAGE_PATH"); path != "" {
		c.Storage.Path = path
	}
	if key := os.Getenv("FORMBUILDER_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if level := os.Getenv("FORMBUILDER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	switch c.Driver() {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("config: storage.key is required")
	}
	if _, err := c.busyTimeout(); err != nil {
		return err
	}
	if _, err := c.fileMode(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// Driver returns the normalized storage driver.
func (c *Config) Driver() storage.Driver {
	return storage.Driver(strings.ToLower(strings.TrimSpace(c.Storage.Driver)))
}

// StoragePath returns the configured path or the driver's default location
// under .formbuilder.
func (c *Config) StoragePath() string {
	if path := strings.TrimSpace(c.Storage.Path); path != "" {
		return path
	}
	switch c.Driver() {
	case storage.DriverSQLite:
		return filepath.Join(".formbuilder", "forms.db")
	case storage.DriverFile:
		return filepath.Join(".formbuilder", "forms")
	default:
		return ""
	}
}

// StorageOptions maps the storage section onto backend options.
func (c *Config) StorageOptions() []storage.Option {
	opts := []storage.Option{storage.WithPath(c.StoragePath())}
	if c.Storage.Table != "" {
		opts = append(opts, storage.WithTable(c.Storage.Table))
	}
	if timeout, err := c.busyTimeout(); err == nil && timeout > 0 {
		opts = append(opts, storage.WithBusyTimeout(timeout))
	}
	if mode, err := c.fileMode(); err == nil && mode != 0 {
		opts = append(opts, storage.WithFileMode(mode))
	}
	return opts
}

func (c *Config) fileMode() (os.FileMode, error) {
	raw := strings.TrimSpace(c.Storage.FileMode)
	if raw == "" {
		return 0, nil
	}
	mode, err := strconv.ParseUint(raw, 8, 32)
	if err != nil || mode > 0o777 {
		return 0, fmt.Errorf("config: storage.file_mode %q is not an octal permission", raw)
	}
	return os.FileMode(mode), nil
}

func (c *Config) busyTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Storage.BusyTimeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: storage.busy_timeout: %w", err)
	}
	return d, nil
}

// Logger builds a zap logger from the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log.level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if c.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}
