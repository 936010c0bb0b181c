package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/woomy/internal/constants"
)

// Tool holds the configuration shared by woomycrypt and woomybatch.
type Tool struct {
	// Crypto
	HashLength int    `yaml:"hash_length"`
	KeyFile    string `yaml:"key_file"` // empty = built-in reference keys

	// Output
	DecSuffix string `yaml:"dec_suffix"`
	EncSuffix string `yaml:"enc_suffix"`
	LogLevel  string `yaml:"log_level"`

	Batch    BatchConfig    `yaml:"batch"`
	Database DatabaseConfig `yaml:"database"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Workers int    `yaml:"workers"`
	Pattern string `yaml:"pattern"` // filepath.Match pattern
}

// DatabaseConfig holds PostgreSQL connection parameters for the record archive.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultTool returns Tool config with the reference deployment parameters.
func DefaultTool() Tool {
	return Tool{
		HashLength: constants.HashSize,
		DecSuffix:  constants.DecSuffix,
		EncSuffix:  constants.EncSuffix,
		LogLevel:   "info",
		Batch: BatchConfig{
			Workers: 4,
			Pattern: "*",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "woomy",
			Password: "woomy",
			DBName:   "woomy",
			SSLMode:  "disable",
		},
	}
}

// LoadTool loads tool config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadTool(path string) (Tool, error) {
	cfg := DefaultTool()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Tool) Validate() error {
	// The signed record must still carry the clear prefix, so the hash
	// cannot be shorter than the padding.
	if c.HashLength < constants.PaddingSize || c.HashLength >= constants.MaxHashLength {
		return fmt.Errorf("hash_length %d out of range [%d, %d)", c.HashLength, constants.PaddingSize, constants.MaxHashLength)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	if c.DecSuffix == "" || c.EncSuffix == "" {
		return fmt.Errorf("output suffixes must not be empty")
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c Tool) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
