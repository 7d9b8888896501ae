package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != "3001" {
		t.Errorf("Port: got %s, want 3001", cfg.Port)
	}
	if cfg.WindowMs != 2000 {
		t.Errorf("WindowMs: got %d, want 2000", cfg.WindowMs)
	}
	if cfg.MaxBufferSize != 50 {
		t.Errorf("MaxBufferSize: got %d, want 50", cfg.MaxBufferSize)
	}
	if cfg.ReaperIntervalMs != 5000 {
		t.Errorf("ReaperIntervalMs: got %d, want 5000", cfg.ReaperIntervalMs)
	}
	if cfg.ReportTTLMs != 60000 {
		t.Errorf("ReportTTLMs: got %d, want 60000", cfg.ReportTTLMs)
	}
	if cfg.Describer != DescriberBedrock {
		t.Errorf("Describer: got %s, want bedrock", cfg.Describer)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Window() != 2*time.Second {
		t.Errorf("Window: got %v, want 2s", cfg.Window())
	}
	if cfg.ReaperInterval() != 5*time.Second {
		t.Errorf("ReaperInterval: got %v, want 5s", cfg.ReaperInterval())
	}
	if cfg.ReportTTL() != time.Minute {
		t.Errorf("ReportTTL: got %v, want 1m", cfg.ReportTTL())
	}
	if cfg.DescribeTimeout() != 10*time.Second {
		t.Errorf("DescribeTimeout: got %v, want 10s", cfg.DescribeTimeout())
	}
}

// clearEnv blanks the override variables so file values stay visible.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "AGGREGATION_WINDOW_MS", "MAX_AGGREGATION_SIZE",
		"DESCRIBER", "BEDROCK_MODEL_ID", "AWS_REGION", "OPENAI_BASE_URL",
		"OPENAI_MODEL", "HISTORY_DB", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromReader(t *testing.T) {
	clearEnv(t)
	yaml := `
port: "8080"
window_ms: 1000
max_buffer_size: 20
describer: none
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port: got %s, want 8080", cfg.Port)
	}
	if cfg.WindowMs != 1000 {
		t.Errorf("WindowMs: got %d, want 1000", cfg.WindowMs)
	}
	if cfg.MaxBufferSize != 20 {
		t.Errorf("MaxBufferSize: got %d, want 20", cfg.MaxBufferSize)
	}
	// Untouched fields keep their defaults
	if cfg.ReaperIntervalMs != 5000 {
		t.Errorf("ReaperIntervalMs: got %d, want default 5000", cfg.ReaperIntervalMs)
	}
}

func TestLoadFromReader_EmptyFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if cfg.Port != "3001" || cfg.WindowMs != 2000 {
		t.Errorf("Empty file should keep defaults, got %+v", cfg)
	}
}

func TestLoadFromReader_RejectsUnknownFields(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("windowms: 1000\n"))
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AGGREGATION_WINDOW_MS", "3000")
	t.Setenv("DESCRIBER", "none")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()

	if cfg.Port != "9000" {
		t.Errorf("Port: got %s, want 9000", cfg.Port)
	}
	if cfg.WindowMs != 3000 {
		t.Errorf("WindowMs: got %d, want 3000", cfg.WindowMs)
	}
	if cfg.Describer != DescriberNone {
		t.Errorf("Describer: got %s, want none", cfg.Describer)
	}
	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey: got %s, want sk-test", cfg.OpenAIKey)
	}
}

func TestLoadEnvConfig_IgnoresInvalidInt(t *testing.T) {
	t.Setenv("AGGREGATION_WINDOW_MS", "not-a-number")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()
	if cfg.WindowMs != 2000 {
		t.Errorf("WindowMs: got %d, want default 2000", cfg.WindowMs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown describer",
			mutate:  func(c *Config) { c.Describer = "ollama" },
			field:   "Describer",
			wantErr: true,
		},
		{
			name:    "openai without key",
			mutate:  func(c *Config) { c.Describer = DescriberOpenAI },
			field:   "OpenAIKey",
			wantErr: true,
		},
		{
			name: "openai with key",
			mutate: func(c *Config) {
				c.Describer = DescriberOpenAI
				c.OpenAIKey = "sk-test"
			},
		},
		{
			name:    "zero window",
			mutate:  func(c *Config) { c.WindowMs = 0 },
			field:   "WindowMs",
			wantErr: true,
		},
		{
			name:    "negative buffer",
			mutate:  func(c *Config) { c.MaxBufferSize = -1 },
			field:   "MaxBufferSize",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected validation error")
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field: got %s, want %s", cfgErr.Field, tt.field)
			}
		})
	}
}
