// Package config provides configuration for the InteLeVision backend.
// Values come from defaults, an optional YAML file, then environment
// overrides, in that order.
package config

import (
	"os"
	"strconv"
	"time"
)

// Describer selection values.
const (
	DescriberBedrock = "bedrock"
	DescriberOpenAI  = "openai"
	DescriberNone    = "none" // local fallback generator only
)

// Config holds all configuration for the backend.
// Flag parsing is done in cmd/intelevision; this struct is data only.
type Config struct {
	// Port the HTTP/websocket server listens on.
	Port string `yaml:"port"`

	// LogLevel: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// WindowMs is the aggregation window duration in milliseconds.
	WindowMs int `yaml:"window_ms"`

	// MaxBufferSize caps buffered events per client.
	MaxBufferSize int `yaml:"max_buffer_size"`

	// ReaperIntervalMs is how often stale per-client state is evicted.
	ReaperIntervalMs int `yaml:"reaper_interval_ms"`

	// ReportTTLMs is the last-reported snapshot inactivity timeout.
	ReportTTLMs int `yaml:"report_ttl_ms"`

	// Describer selects the remote describer: bedrock, openai, or none.
	Describer string `yaml:"describer"`

	// DescribeTimeoutMs bounds one describer invocation.
	DescribeTimeoutMs int `yaml:"describe_timeout_ms"`

	// Bedrock settings.
	BedrockModel string `yaml:"bedrock_model"`
	AWSRegion    string `yaml:"aws_region"`

	// OpenAI-compatible settings.
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`

	// HistoryDB is the sqlite path for the description history.
	// Empty disables history.
	HistoryDB string `yaml:"history_db"`

	// API keys come from the environment only, never from the file.
	OpenAIKey string `yaml:"-"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:              "3001",
		LogLevel:          "info",
		WindowMs:          2000,
		MaxBufferSize:     50,
		ReaperIntervalMs:  5000,
		ReportTTLMs:       60000,
		Describer:         DescriberBedrock,
		DescribeTimeoutMs: 10000,
		AWSRegion:         "us-east-1",
		OpenAIBaseURL:     "https://api.openai.com/v1",
		OpenAIModel:       "gpt-4o-mini",
	}
}

// LoadEnvConfig applies environment variable overrides.
// Call this after file loading so the environment wins.
func (c *Config) LoadEnvConfig() {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setInt(&c.WindowMs, "AGGREGATION_WINDOW_MS")
	setInt(&c.MaxBufferSize, "MAX_AGGREGATION_SIZE")
	setString(&c.Describer, "DESCRIBER")
	setString(&c.BedrockModel, "BEDROCK_MODEL_ID")
	setString(&c.AWSRegion, "AWS_REGION")
	setString(&c.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.OpenAIModel, "OPENAI_MODEL")
	setString(&c.HistoryDB, "HISTORY_DB")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	switch c.Describer {
	case DescriberBedrock, DescriberOpenAI, DescriberNone:
	default:
		return &ConfigError{Field: "Describer", Message: "describer must be one of: bedrock, openai, none"}
	}
	if c.Describer == DescriberOpenAI && c.OpenAIKey == "" {
		return &ConfigError{Field: "OpenAIKey", Message: "OPENAI_API_KEY environment variable is required for the openai describer"}
	}
	if c.WindowMs <= 0 {
		return &ConfigError{Field: "WindowMs", Message: "window_ms must be positive"}
	}
	if c.MaxBufferSize <= 0 {
		return &ConfigError{Field: "MaxBufferSize", Message: "max_buffer_size must be positive"}
	}
	return nil
}

// Window returns the aggregation window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowMs) * time.Millisecond
}

// ReaperInterval returns the reaper period as a duration.
func (c *Config) ReaperInterval() time.Duration {
	return time.Duration(c.ReaperIntervalMs) * time.Millisecond
}

// ReportTTL returns the last-reported inactivity timeout as a duration.
func (c *Config) ReportTTL() time.Duration {
	return time.Duration(c.ReportTTLMs) * time.Millisecond
}

// DescribeTimeout returns the describer invocation bound as a duration.
func (c *Config) DescribeTimeout() time.Duration {
	return time.Duration(c.DescribeTimeoutMs) * time.Millisecond
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
