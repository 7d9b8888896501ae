// Package describe provides the natural-language description collaborators
// for the pipeline: a unified Describer interface with AWS Bedrock and
// OpenAI-compatible implementations, a fallback chain, a test mock, and the
// local deterministic generator used when every remote describer fails.
//
// Example usage:
//
//	d, _ := describe.NewOpenAI(
//	    describe.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    describe.WithModel("gpt-4o-mini"),
//	)
//	defer d.Close()
//
//	text, err := d.Describe(ctx, sceneSummary)
package describe

import (
	"context"
	"log/slog"
	"time"

	"github.com/intelevision/go-intelevision/pkg/summary"
)

// Describer turns a scene summary into a short natural-language description.
// An empty string is a valid response: it is the describer's own judgment
// that the scene is unremarkable.
type Describer interface {
	// Describe generates a description for the summary. Implementations
	// must honor ctx cancellation and deadlines.
	Describe(ctx context.Context, sum *summary.SceneSummary) (string, error)

	// Name identifies the describer for logging.
	Name() string

	// Close releases any resources held by the describer.
	Close() error
}

// Config holds describer configuration.
type Config struct {
	// Connection
	BaseURL string // API base URL (OpenAI-compatible providers)
	APIKey  string

	// Model selection
	Model  string // chat model or Bedrock model id
	Region string // AWS region (Bedrock)

	// Request defaults
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single Describe call when the caller's context
	// carries no deadline of its own.
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring describers.
type Option func(*Config)

// WithBaseURL sets the API base URL.
// Examples: "https://api.openai.com/v1", "http://localhost:11434/v1"
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithModel sets the model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithRegion sets the AWS region for Bedrock.
func WithRegion(region string) Option {
	return func(c *Config) { c.Region = region }
}

// WithMaxTokens sets the response length limit.
func WithMaxTokens(n int) Option {
	return func(c *Config) { c.MaxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o-mini",
		Region:      "us-east-1",
		MaxTokens:   64,
		Temperature: 0.2,
		Timeout:     10 * time.Second,
		Logger:      slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
