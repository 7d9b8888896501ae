package describe

import (
	"context"
	"log/slog"

	"github.com/intelevision/go-intelevision/pkg/summary"
)

// Chain tries multiple describers in order until one succeeds.
// The local Fallback generator is intentionally not part of any chain:
// the pipeline invokes it separately so results can carry an honest
// fallback flag.
type Chain struct {
	describers []Describer
	logger     *slog.Logger
}

// NewChain creates a describer chain. At least one describer is required.
func NewChain(describers ...Describer) (*Chain, error) {
	if len(describers) == 0 {
		return nil, ErrUnavailable
	}
	return &Chain{
		describers: describers,
		logger:     slog.Default().With("component", "describe.chain"),
	}, nil
}

// Describe tries each describer until one succeeds.
func (c *Chain) Describe(ctx context.Context, sum *summary.SceneSummary) (string, error) {
	var errors []error

	for i, d := range c.describers {
		text, err := d.Describe(ctx, sum)
		if err == nil {
			if i > 0 {
				c.logger.Info("secondary describer succeeded",
					"describer", d.Name(),
				)
			}
			return text, nil
		}

		errors = append(errors, err)
		c.logger.Warn("describer failed, trying next",
			"describer", d.Name(),
			"error", err,
		)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", &ChainError{Errors: errors}
}

// Name identifies the chain.
func (c *Chain) Name() string { return "chain" }

// Close closes all describers.
func (c *Chain) Close() error {
	var lastErr error
	for _, d := range c.describers {
		if err := d.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Describers returns the describers in the chain.
func (c *Chain) Describers() []Describer {
	return c.describers
}

// Verify Chain implements Describer at compile time.
var _ Describer = (*Chain)(nil)
