package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). Environment variables
// override file values.
type Config struct {
	Server     ServerConfig  `yaml:"server"`
	Logging    LoggingConfig `yaml:"logging"`
	Cache      CacheConfig   `yaml:"cache"`
	BatteryDir string        `yaml:"battery_dir"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	Env         string `yaml:"env"`
	StaticDir   string `yaml:"static_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			Env:         "development",
			StaticDir:   "./static",
			MaxUploadMB: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		BatteryDir: "./examples/batteries",
	}
}

// Load reads path (optional, "" means defaults only), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file over the defaults without env overrides or
// validation.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("API_PORT", &c.Server.Port)
	str("API_ENV", &c.Server.Env)
	str("STATIC_DIR", &c.Server.StaticDir)
	str("BATTERY_DIR", &c.BatteryDir)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	if v, ok := lookup("MAX_UPLOAD_MB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_MB: %w", err)
		}
		c.Server.MaxUploadMB = n
	}
	if v, ok := lookup("ENABLE_RESULT_CACHE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ENABLE_RESULT_CACHE: %w", err)
		}
		c.Cache.Enabled = b
	}
	if v, ok := lookup("RESULT_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RESULT_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("server.port must be a port number, got %q", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("server.max_upload_mb must be > 0")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0 when the cache is enabled")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
