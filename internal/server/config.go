package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/finance-projection/internal/config"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"gopkg.in/yaml.v3"
)

// MemoryDatabase as the database path selects the in-memory store.
const MemoryDatabase = "memory"

// Environment variables read by ApplyEnv.
const (
	EnvAddress      = "PROJECTION_ADDRESS"
	EnvDatabasePath = "PROJECTION_DATABASE_PATH"
	EnvCorsOrigins  = "PROJECTION_CORS_ORIGINS"
)

// Config holds the projection server settings.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Logging       config.LoggingConfig `yaml:"logging"`
	// CorsOrigins lists the browser origins allowed to call the API. Empty
	// disables cross-origin access.
	CorsOrigins []string `yaml:"corsOrigins"`
	// DatabasePath locates the SQLite store backing the user routes, or
	// MemoryDatabase.
	DatabasePath string                  `yaml:"databasePath"`
	Projection   config.ProjectionConfig `yaml:"projection"`

	bodyLimit int64
}

func defaultConfig() *Config {
	cfg := &Config{
		Address:      constants.DefaultServerAddress,
		DatabasePath: constants.DefaultDatabasePath,
		bodyLimit:    constants.DefaultMaxUploadSizeBytes,
	}
	cfg.Projection.Normalize()
	return cfg
}

// LoadConfig reads the server settings from a YAML file. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file settings with non-empty values returned by lookup,
// normally os.Getenv.
func (c *Config) ApplyEnv(lookup func(string) string) {
	if addr := strings.TrimSpace(lookup(EnvAddress)); addr != "" {
		c.Address = addr
	}
	if path := strings.TrimSpace(lookup(EnvDatabasePath)); path != "" {
		c.DatabasePath = path
	}
	if origins := splitOrigins(lookup(EnvCorsOrigins)); len(origins) > 0 {
		c.CorsOrigins = origins
	}
}

// BodyLimit returns the maximum request body size in bytes.
func (c *Config) BodyLimit() int64 {
	return c.bodyLimit
}

// InMemory reports whether the server should run without a database file.
func (c *Config) InMemory() bool {
	return strings.EqualFold(c.DatabasePath, MemoryDatabase)
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.DatabasePath == "" {
		c.DatabasePath = constants.DefaultDatabasePath
	}
	c.Projection.Normalize()
	if err := c.Projection.Payoff.Validate(); err != nil {
		return fmt.Errorf("invalid projection settings: %w", err)
	}

	limit, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = constants.DefaultMaxUploadSizeBytes
	}
	c.bodyLimit = limit
	return nil
}

func splitOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a byte count with an optional binary unit suffix
// ("512", "256K", "10MB") into bytes. Blank input yields the default limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	digits := strings.TrimRightFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	unit := strings.TrimSpace(trimmed[len(digits):])
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
