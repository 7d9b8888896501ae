package describe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/intelevision/go-intelevision/pkg/summary"
)

// DefaultBedrockModel is used when no model id is configured.
const DefaultBedrockModel = "anthropic.claude-3-haiku-20240307-v1:0"

// Bedrock describes scenes through an Anthropic model on AWS Bedrock.
type Bedrock struct {
	client *bedrockruntime.Client
	config *Config
	logger *slog.Logger
}

// anthropicRequest is the Bedrock messages-format request body.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewBedrock creates a Bedrock describer. Credentials come from the
// default AWS credential chain (env, shared config, instance role).
func NewBedrock(ctx context.Context, opts ...Option) (*Bedrock, error) {
	cfg := DefaultConfig()
	cfg.Model = DefaultBedrockModel
	cfg.Apply(opts...)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, WrapError("bedrock", fmt.Errorf("load aws config: %w", err))
	}

	return &Bedrock{
		client: bedrockruntime.NewFromConfig(awsCfg),
		config: cfg,
		logger: cfg.Logger.With("component", "describe.bedrock"),
	}, nil
}

// Describe invokes the model with the rendered scene prompt.
func (b *Bedrock) Describe(ctx context.Context, sum *summary.SceneSummary) (string, error) {
	if b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        b.config.MaxTokens,
		Temperature:      b.config.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildPrompt(sum)},
		},
	})
	if err != nil {
		return "", WrapError("bedrock", err)
	}

	result, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.config.Model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		b.logger.Warn("InvokeModel failed", "model", b.config.Model, "error", err)
		return "", WrapError("bedrock", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(result.Body, &resp); err != nil {
		return "", WrapError("bedrock", fmt.Errorf("decode response: %w", err))
	}

	var text strings.Builder
	for _, chunk := range resp.Content {
		if chunk.Type == "text" {
			text.WriteString(chunk.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// Name identifies the describer.
func (b *Bedrock) Name() string { return "bedrock" }

// Close releases resources. The Bedrock client holds none.
func (b *Bedrock) Close() error { return nil }

// Verify Bedrock implements Describer at compile time.
var _ Describer = (*Bedrock)(nil)
