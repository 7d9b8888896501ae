package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/intelevision/go-intelevision/pkg/summary"
)

// OpenAI describes scenes through any OpenAI-compatible chat completions
// endpoint (OpenAI, Ollama, vLLM, Together, ...).
type OpenAI struct {
	httpClient *http.Client
	config     *Config
	logger     *slog.Logger
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenAI creates an OpenAI-compatible describer.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.Model == "" {
		return nil, ErrNoModel
	}

	return &OpenAI{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     cfg.Logger.With("component", "describe.openai"),
	}, nil
}

// Describe posts the rendered scene prompt to the chat completions API.
func (o *OpenAI) Describe(ctx context.Context, sum *summary.SceneSummary) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
		Messages: []chatMessage{
			{Role: "user", Content: BuildPrompt(sum)},
		},
	})
	if err != nil {
		return "", WrapError("openai", err)
	}

	url := strings.TrimRight(o.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", WrapError("openai", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	}

	httpResp, err := o.httpClient.Do(req)
	if err != nil {
		return "", WrapError("openai", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", WrapError("openai", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: httpResp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
			Describer:  "openai",
		}
		o.logger.Warn("chat completion failed", "status", httpResp.StatusCode)
		return "", apiErr
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", WrapError("openai", fmt.Errorf("decode response: %w", err))
	}
	if resp.Error != nil {
		return "", WrapError("openai", fmt.Errorf("api error: %s", resp.Error.Message))
	}
	if len(resp.Choices) == 0 {
		return "", WrapError("openai", fmt.Errorf("empty choices in response"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name identifies the describer.
func (o *OpenAI) Name() string { return "openai" }

// Close releases idle connections.
func (o *OpenAI) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// Verify OpenAI implements Describer at compile time.
var _ Describer = (*OpenAI)(nil)
