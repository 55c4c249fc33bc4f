// Package config loads testforge settings from .testforge.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".testforge.yaml"

// Defaults.
const (
	DefaultProvider        = "openai"
	DefaultMaxAttempts     = 3
	DefaultParallel        = 1
	DefaultMinLength       = 100
	DefaultReports         = ".testforge-reports"
	DefaultPolicy          = "first"
	DefaultTargetFramework = "net8.0"
	DefaultGenerateTimeout = 2 * time.Minute
	DefaultBuildTimeout    = 5 * time.Minute
	DefaultTestTimeout     = 5 * time.Minute
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

var (
	providers = []string{"openai", "gemini", "anthropic"}
	policies  = []string{"first", "interactive"}
)

// Timeouts bounds every external call of a session.
type Timeouts struct {
	Generate time.Duration `yaml:"generate"`
	Build    time.Duration `yaml:"build"`
	Test     time.Duration `yaml:"test"`
}

// Config is the merged file and flag configuration.
type Config struct {
	Provider          string   `yaml:"provider"`
	Model             string   `yaml:"model"`
	BaseURL           string   `yaml:"base_url"`
	MaxAttempts       int      `yaml:"max_attempts"`
	Parallel          int      `yaml:"parallel"`
	MinLength         int      `yaml:"min_length"`
	MaxTokens         int      `yaml:"max_tokens"`
	Timeouts          Timeouts `yaml:"timeouts"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Reports           string   `yaml:"reports"`
	DescriptorPolicy  string   `yaml:"descriptor_policy"`
	BuildCommand      []string `yaml:"build_command"`
	TestCommand       []string `yaml:"test_command"`
	Exclude           []string `yaml:"exclude"`
	TargetFramework   string   `yaml:"target_framework"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Provider:    DefaultProvider,
		MaxAttempts: DefaultMaxAttempts,
		Parallel:    DefaultParallel,
		MinLength:   DefaultMinLength,
		Timeouts: Timeouts{
			Generate: DefaultGenerateTimeout,
			Build:    DefaultBuildTimeout,
			Test:     DefaultTestTimeout,
		},
		Reports:          DefaultReports,
		DescriptorPolicy: DefaultPolicy,
		TargetFramework:  DefaultTargetFramework,
	}
}

// envFile is read from the working directory before the YAML config.
var envFile = ".env"

// Load reads .env into the environment and then the YAML file at path.
// A missing file yields the defaults; keys absent from the file keep their
// default values. Either file failing to parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", envFile, err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values no session can run with.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max_attempts must be at least 1, got %d", ErrInvalidConfig, c.MaxAttempts)
	}

	if c.Parallel < 1 {
		return fmt.Errorf("%w: parallel must be at least 1, got %d", ErrInvalidConfig, c.Parallel)
	}

	if c.MinLength < 0 {
		return fmt.Errorf("%w: min_length must not be negative", ErrInvalidConfig)
	}

	if c.MaxTokens < 0 || c.MaxTokens > math.MaxInt32 {
		return fmt.Errorf("%w: max_tokens out of range, got %d", ErrInvalidConfig, c.MaxTokens)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}

	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}

	if !slices.Contains(policies, c.DescriptorPolicy) {
		return fmt.Errorf("%w: unknown descriptor_policy %q", ErrInvalidConfig, c.DescriptorPolicy)
	}

	if c.Timeouts.Generate <= 0 || c.Timeouts.Build <= 0 || c.Timeouts.Test <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}

	for _, pattern := range c.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: exclude %q: %w", ErrInvalidConfig, pattern, err)
		}
	}

	return nil
}
