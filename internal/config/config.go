// Package config loads runtime settings for the parallel reader.
//
// Precedence, highest first: CLI flags (applied by the caller),
// PARALLEL_* environment variables, the YAML config file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/JuniperParallel/internal/logging"
	"github.com/FocuswithJustin/JuniperParallel/internal/validation"
)

// EnvPrefix is prepended to every environment override, e.g.
// PARALLEL_SERVER_PORT.
const EnvPrefix = "PARALLEL"

// Config holds all settings.
type Config struct {
	DataDir          string `mapstructure:"data_dir" yaml:"data_dir"`
	CanonicalDB      string `mapstructure:"canonical_db" yaml:"canonical_db"`
	CanonicalTable   string `mapstructure:"canonical_table" yaml:"canonical_table"`
	TranslationsDir  string `mapstructure:"translations_dir" yaml:"translations_dir"`
	TranslationTable string `mapstructure:"translation_table" yaml:"translation_table"`
	CatalogDB        string `mapstructure:"catalog_db" yaml:"catalog_db"`
	// Workers bounds how many translations are read at once.
	Workers int `mapstructure:"workers" yaml:"workers"`

	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// CacheConfig controls the verse text cache.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit      int      `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst      int      `mapstructure:"rate_burst" yaml:"rate_burst"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	// APIKey enables X-API-Key authentication when set.
	APIKey      string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	TLSCertFile string `mapstructure:"tls_cert_file" yaml:"tls_cert_file,omitempty"`
	TLSKeyFile  string `mapstructure:"tls_key_file" yaml:"tls_key_file,omitempty"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultDataDir is ~/.juniper-parallel, or a relative directory of the
// same name when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".juniper-parallel"
	}
	return filepath.Join(home, ".juniper-parallel")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:          DefaultDataDir(),
		CanonicalDB:      "quran.db",
		CanonicalTable:   "arabic_text",
		TranslationsDir:  "translations",
		TranslationTable: "verses",
		CatalogDB:        "catalog.db",
		Workers:          4,
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: 15 * time.Minute,
		},
		Server: ServerConfig{
			Port:           8080,
			RateLimit:      120,
			RateBurst:      20,
			AllowedOrigins: []string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration. An empty path searches ./config.yaml and then
// DefaultDataDir()/config.yaml; finding neither is not an error. An
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("canonical_db", d.CanonicalDB)
	v.SetDefault("canonical_table", d.CanonicalTable)
	v.SetDefault("translations_dir", d.TranslationsDir)
	v.SetDefault("translation_table", d.TranslationTable)
	v.SetDefault("catalog_db", d.CatalogDB)
	v.SetDefault("workers", d.Workers)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("server.tls_cert_file", d.Server.TLSCertFile)
	v.SetDefault("server.tls_key_file", d.Server.TLSKeyFile)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("data_dir must be set")
	case c.CanonicalTable == "" || c.TranslationTable == "":
		return fmt.Errorf("canonical_table and translation_table must be set")
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.Server.Port < 1 || c.Server.Port > 65535:
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	case c.Server.RateLimit < 0 || c.Server.RateBurst < 0:
		return fmt.Errorf("server.rate_limit and server.rate_burst must not be negative")
	case c.Server.APIKey != "" && len(c.Server.APIKey) < 16:
		return fmt.Errorf("server.api_key must be at least 16 characters (got %d)", len(c.Server.APIKey))
	case (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == ""):
		return fmt.Errorf("server.tls_cert_file and server.tls_key_file must be set together")
	}
	for _, p := range []struct{ key, value string }{
		{"data_dir", c.DataDir},
		{"canonical_db", c.CanonicalDB},
		{"translations_dir", c.TranslationsDir},
		{"catalog_db", c.CatalogDB},
	} {
		if err := validation.ValidatePath(p.value); err != nil {
			return fmt.Errorf("%s: %w", p.key, err)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}

// resolve joins p onto DataDir unless it is already absolute.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// CanonicalPath is the absolute or DataDir-relative canonical database.
func (c *Config) CanonicalPath() string { return c.resolve(c.CanonicalDB) }

// TranslationsPath is the directory holding translation databases.
func (c *Config) TranslationsPath() string { return c.resolve(c.TranslationsDir) }

// CatalogPath is the translation catalog database.
func (c *Config) CatalogPath() string { return c.resolve(c.CatalogDB) }

// TranslationPath is the database file for translation id.
func (c *Config) TranslationPath(id string) string {
	return filepath.Join(c.TranslationsPath(), id)
}

// InitLogging applies the Log section to the global logger.
func (c *Config) InitLogging() error {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// Marshal renders c as YAML.
func Marshal(c *Config) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// WriteFile writes c as YAML to path, creating parent directories. An
// existing file is left untouched unless overwrite is set.
func WriteFile(c *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
