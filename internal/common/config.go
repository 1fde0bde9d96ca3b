package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	GitHub      GitHubConfig   `toml:"github"`
	Claude      ClaudeConfig   `toml:"claude"`
	NLP         NLPConfig      `toml:"nlp"`
	Review      ReviewConfig   `toml:"review"`
	Pipeline    PipelineConfig `toml:"pipeline"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
	Object ObjectConfig `toml:"object"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// ObjectConfig represents S3-compatible object storage configuration
type ObjectConfig struct {
	Endpoint  string `toml:"endpoint"` // Host:port of the S3-compatible endpoint
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
	URLExpiry string `toml:"url_expiry"` // Presigned URL lifetime, e.g. "24h"
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// GitHubConfig contains repository fetch configuration
type GitHubConfig struct {
	Token             string   `toml:"token"`               // Optional bearer token; unauthenticated access works with lower rate limits
	RequestsPerSecond float64  `toml:"requests_per_second"` // Client-side rate limit (default: 5)
	MaxFiles          int      `toml:"max_files"`           // Max files fetched per repository (default: 30)
	MaxFileBytes      int      `toml:"max_file_bytes"`      // Per-file content truncation (default: 2500)
	PriorityFiles     []string `toml:"priority_files"`      // File names fetched first (default: manifest/build files)
	ExcludeDirs       []string `toml:"exclude_dirs"`        // Directory prefixes skipped during fetch
	CodeExtensions    []string `toml:"code_extensions"`     // Source extensions fetched after priority files
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (KV store and ANTHROPIC_API_KEY take precedence)
	Model       string  `toml:"model"`       // Model name (default: "claude-sonnet-4-20250514")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	MaxTokens   int     `toml:"max_tokens"`  // Max response tokens (default: 8192)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.3)
}

// NLPConfig contains AWS Comprehend quality scoring configuration
type NLPConfig struct {
	Enabled      bool   `toml:"enabled"`       // When false the scorer returns the neutral fallback assessment
	Region       string `toml:"region"`        // AWS region (default: "us-east-1")
	LanguageCode string `toml:"language_code"` // Comprehend language code (default: "en")
}

// ReviewConfig contains the human-review gate configuration
type ReviewConfig struct {
	Enabled           bool    `toml:"enabled"`             // When false the gate never routes to human review
	FlowDefinitionArn string  `toml:"flow_definition_arn"` // A2I flow definition ARN
	Region            string  `toml:"region"`              // AWS region (default: "us-east-1")
	Timeout           string  `toml:"timeout"`             // Review deadline as duration string (default: "30m")
	PollSchedule      string  `toml:"poll_schedule"`       // Cron spec for the pending-review poller (default: "@every 30s")
	AlwaysBelow       float64 `toml:"always_below"`        // Scores below this always go to review (default: 85)
	NeverAtOrAbove    float64 `toml:"never_at_or_above"`   // Scores at or above this never go to review (default: 95)
	ComplexBelow      float64 `toml:"complex_below"`       // Complex repos below this go to review (default: 90)
}

// PipelineConfig contains generation loop configuration
type PipelineConfig struct {
	MaxCycles     int     `toml:"max_cycles"`     // Generation cycle cap (default: 4)
	TargetQuality float64 `toml:"target_quality"` // Quality score that stops the loop early (default: 95)
	MaxFailures   int     `toml:"max_failures"`   // Consecutive-failure cap before the loop stops (default: 3)
}

// DefaultConfig returns the built-in defaults applied before file and
// environment overrides
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/scribo",
				ResetOnStartup: false,
			},
			Object: ObjectConfig{
				Endpoint:  "localhost:9000",
				Region:    "us-east-1",
				Bucket:    "scribo",
				UseSSL:    false,
				URLExpiry: "24h",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		GitHub: GitHubConfig{
			RequestsPerSecond: 5,
			MaxFiles:          30,
			MaxFileBytes:      2500,
			PriorityFiles: []string{
				"package.json", "requirements.txt", "go.mod", "Cargo.toml",
				"pom.xml", "build.gradle", "Dockerfile", "docker-compose.yml",
				"Makefile", "setup.py", "pyproject.toml", "composer.json",
			},
			ExcludeDirs: []string{
				"node_modules/", ".git/", "vendor/", "dist/", "build/",
				"__pycache__/", ".next/", "target/",
			},
			CodeExtensions: []string{
				".go", ".py", ".js", ".ts", ".tsx", ".jsx", ".java", ".kt",
				".rb", ".rs", ".c", ".cpp", ".cs", ".php", ".swift",
			},
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Timeout:     "2m",
			MaxTokens:   8192,
			Temperature: 0.3,
		},
		NLP: NLPConfig{
			Enabled:      true,
			Region:       "us-east-1",
			LanguageCode: "en",
		},
		Review: ReviewConfig{
			Enabled:        false,
			Region:         "us-east-1",
			Timeout:        "30m",
			PollSchedule:   "@every 30s",
			AlwaysBelow:    85,
			NeverAtOrAbove: 95,
			ComplexBelow:   90,
		},
		Pipeline: PipelineConfig{
			MaxCycles:     4,
			TargetQuality: 95,
			MaxFailures:   3,
		},
	}
}

// LoadFromFiles loads configuration with precedence:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later files override earlier ones; missing files are an error.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies SCRIBO_* environment variables over the loaded
// configuration. Provider credentials also honor their native variables.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SCRIBO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SCRIBO_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("SCRIBO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("SCRIBO_GITHUB_TOKEN"); v != "" {
		config.GitHub.Token = v
	} else if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		config.GitHub.Token = v
	}
	if v := os.Getenv("SCRIBO_CLAUDE_API_KEY"); v != "" {
		config.Claude.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("SCRIBO_OBJECT_ENDPOINT"); v != "" {
		config.Storage.Object.Endpoint = v
	}
	if v := os.Getenv("SCRIBO_OBJECT_ACCESS_KEY"); v != "" {
		config.Storage.Object.AccessKey = v
	}
	if v := os.Getenv("SCRIBO_OBJECT_SECRET_KEY"); v != "" {
		config.Storage.Object.SecretKey = v
	}
	if v := os.Getenv("SCRIBO_REVIEW_FLOW_ARN"); v != "" {
		config.Review.FlowDefinitionArn = v
	}
}

// ApplyFlagOverrides applies command-line flag values over the loaded
// configuration. Zero values mean the flag was not set.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for structural errors
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := strings.ToLower(c.Logging.Level)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}

	if c.Pipeline.MaxCycles < 1 {
		return fmt.Errorf("pipeline.max_cycles must be at least 1")
	}
	if c.Review.Enabled && c.Review.FlowDefinitionArn == "" {
		return fmt.Errorf("review.flow_definition_arn is required when review is enabled")
	}

	return nil
}
