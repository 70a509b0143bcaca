// Package config loads mapper configuration from YAML with environment
// variable overrides. Environment variables always win for fields that
// support both.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the SQL structure mapper and its
// execution path.
type Config struct {
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	Mapper   MapperConfig   `yaml:"mapper"`
	Database DatabaseConfig `yaml:"database"`
}

// MapperConfig holds policy for the mapper itself. The core components do
// not enforce input-size limits; MaxSQLLength is the caller-imposed policy
// applied by the query service before parsing.
type MapperConfig struct {
	// MaxSQLLength is the longest SQL text accepted for reverse
	// engineering or execution preparation. Zero disables the check.
	MaxSQLLength int `yaml:"max_sql_length" env:"MAPPER_MAX_SQL_LENGTH" env-default:"100000"`

	// PrettyGenerate inserts a newline before each major clause keyword in
	// generated SQL. Display nicety only.
	PrettyGenerate bool `yaml:"pretty_generate" env:"MAPPER_PRETTY_GENERATE" env-default:"false"`

	// RejectInjection fails execution preparation when a string bind value
	// matches a SQL injection pattern.
	RejectInjection bool `yaml:"reject_injection" env:"MAPPER_REJECT_INJECTION" env-default:"true"`
}

// DatabaseConfig identifies the target RDBMS for the execution path.
// Type selects the driver and placeholder style: mysql, postgresql, or
// sqlserver.
type DatabaseConfig struct {
	Type string `yaml:"type" env:"DB_TYPE" env-default:"mysql"`
	DSN  string `yaml:"dsn" env:"DB_DSN" env-default:""`
}

// Load reads configuration from the given YAML file, overridden by
// environment variables. A missing file is not an error; the environment
// alone is used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mapper.MaxSQLLength < 0 {
		return fmt.Errorf("mapper.max_sql_length must not be negative, got %d", c.Mapper.MaxSQLLength)
	}
	switch c.Database.Type {
	case "mysql", "postgresql", "sqlserver":
		return nil
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
}
