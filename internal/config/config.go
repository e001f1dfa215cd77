// Package config resolves command defaults from an optional YAML file, an
// optional dotenv file and the process environment, in increasing order of
// precedence. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-linebuilder/pkg/dialect"
	"github.com/goliatone/go-linebuilder/pkg/rewrite"
)

const (
	EnvDialect     = "LINEBUILDER_DIALECT"
	EnvAccumulator = "LINEBUILDER_ACCUMULATOR"
	EnvDialectsDir = "LINEBUILDER_DIALECTS_DIR"
	EnvRules       = "LINEBUILDER_RULES"
	EnvVerbose     = "LINEBUILDER_VERBOSE"
)

// Config holds the resolved command settings.
type Config struct {
	Dialect     string `yaml:"dialect"`
	Accumulator string `yaml:"accumulator"`
	DialectsDir string `yaml:"dialectsDir"`
	Rules       string `yaml:"rules"`
	Verbose     bool   `yaml:"verbose"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Dialect: dialect.CSharpName,
		Rules:   rewrite.ScannerEvidenceName,
	}
}

// Sources lists where settings are read from. Empty paths are skipped.
type Sources struct {
	ConfigFile string
	EnvFile    string
	// Lookup reads process variables; os.LookupEnv when nil.
	Lookup func(string) (string, bool)
}

// Load resolves the configuration from src.
func Load(src Sources) (Config, error) {
	cfg := Defaults()

	if src.ConfigFile != "" {
		data, err := os.ReadFile(src.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", src.ConfigFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", src.ConfigFile, err)
		}
	}

	fileEnv := map[string]string{}
	if src.EnvFile != "" {
		values, err := godotenv.Read(src.EnvFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: read env file %s: %w", src.EnvFile, err)
		}
		fileEnv = values
	}

	lookup := src.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := fileEnv[key]
		return value, ok
	}

	apply := func(key string, dst *string) {
		if value, ok := get(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	apply(EnvDialect, &cfg.Dialect)
	apply(EnvAccumulator, &cfg.Accumulator)
	apply(EnvDialectsDir, &cfg.DialectsDir)
	apply(EnvRules, &cfg.Rules)

	if value, ok := get(EnvVerbose); ok && strings.TrimSpace(value) != "" {
		verbose, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvVerbose, err)
		}
		cfg.Verbose = verbose
	}

	return cfg, nil
}
