// Package pipeline orchestrates the per-client description flow:
// window aggregation → scene summarization → change-relevance filtering →
// describer invocation (with local fallback) → emptiness policy →
// last-reported state update.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/intelevision/go-intelevision/pkg/describe"
	"github.com/intelevision/go-intelevision/pkg/relevance"
	"github.com/intelevision/go-intelevision/pkg/sensor"
	"github.com/intelevision/go-intelevision/pkg/summary"
	"github.com/intelevision/go-intelevision/pkg/window"
)

// Result is one described scene, ready to be delivered to a client.
type Result struct {
	Description string                `json:"description"`
	Timestamp   int64                 `json:"timestamp"` // Unix milliseconds
	DataUsed    *summary.SceneSummary `json:"dataUsed"`
	Fallback    bool                  `json:"fallback"`
}

// History receives every emitted result. Implementations must tolerate
// being called from multiple client goroutines.
type History interface {
	Record(clientID string, res *Result) error
}

// Pipeline ties the stores and the describer together. Each client's
// events are handled by a single goroutine (the websocket session), so at
// most one summarize→filter→describe sequence is in flight per client.
type Pipeline struct {
	windows  *window.Store
	reported *relevance.Store

	// describer may be nil: every description then comes from the local
	// fallback generator.
	describer describe.Describer
	timeout   time.Duration

	history History // optional
	metrics *Metrics
	logger  *slog.Logger
}

// New creates a pipeline. timeout bounds each describer invocation.
func New(windows *window.Store, reported *relevance.Store, describer describe.Describer, timeout time.Duration) *Pipeline {
	return &Pipeline{
		windows:   windows,
		reported:  reported,
		describer: describer,
		timeout:   timeout,
		metrics:   NewMetrics(),
		logger:    slog.Default().With("component", "pipeline"),
	}
}

// SetHistory attaches an optional history sink for emitted results.
func (p *Pipeline) SetHistory(h History) {
	p.history = h
}

// Metrics returns the pipeline's counters.
func (p *Pipeline) Metrics() *Metrics {
	return p.metrics
}

// ClientCount returns the number of currently tracked clients.
func (p *Pipeline) ClientCount() int {
	return p.windows.ClientCount()
}

// HandleEvent records one raw event for a client and, if a full window has
// elapsed, processes the buffered events. Returns nil when there is
// nothing to report.
func (p *Pipeline) HandleEvent(ctx context.Context, clientID string, ev sensor.DetectionEvent) (*Result, error) {
	p.windows.Record(clientID, ev)
	p.metrics.IncEvents()

	now := time.Now()
	if !p.windows.ShouldTrigger(clientID, now) {
		return nil, nil
	}

	events := p.windows.Take(clientID, now)
	if len(events) == 0 {
		return nil, nil
	}
	return p.Process(ctx, clientID, events)
}

// Process summarizes events and decides whether to emit a description.
// A nil result with a nil error means the scene was judged not worth
// reporting; the client's last-reported state is left untouched in that
// case, so a later genuinely different summary is still compared against
// the last real report.
func (p *Pipeline) Process(ctx context.Context, clientID string, events []sensor.DetectionEvent) (*Result, error) {
	p.logger.Debug("processing window",
		"client", clientID,
		"samples", len(events),
	)

	sum := summary.Summarize(events)

	if !relevance.IsRelevant(sum, p.reported.Get(clientID)) {
		p.logger.Debug("summary not relevant, skipping describer", "client", clientID)
		p.metrics.IncSuppressed()
		return nil, nil
	}

	text, fallback := p.describe(ctx, clientID, sum)
	if NothingToReport(text) {
		p.logger.Debug("describer judged scene unremarkable",
			"client", clientID,
			"fallback", fallback,
			"text", text,
		)
		p.metrics.IncEmpty()
		return nil, nil
	}

	now := time.Now()
	p.reported.Put(clientID, sum, now)

	res := &Result{
		Description: text,
		Timestamp:   now.UnixMilli(),
		DataUsed:    sum,
		Fallback:    fallback,
	}
	p.metrics.IncDescribed(fallback)

	if p.history != nil {
		if err := p.history.Record(clientID, res); err != nil {
			p.logger.Warn("history record failed", "client", clientID, "error", err)
		}
	}

	p.logger.Info("description generated",
		"client", clientID,
		"description", text,
		"fallback", fallback,
	)
	return res, nil
}

// describe asks the remote describer for text, falling back to the local
// generator on any failure or timeout. The second return value reports
// whether the fallback path was taken.
func (p *Pipeline) describe(ctx context.Context, clientID string, sum *summary.SceneSummary) (string, bool) {
	if p.describer == nil {
		return describe.Fallback(sum), true
	}

	dctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text, err := p.describer.Describe(dctx, sum)
	if err != nil {
		p.logger.Warn("describer failed, using local fallback",
			"client", clientID,
			"error", err,
		)
		return describe.Fallback(sum), true
	}
	return text, false
}

// Disconnect deletes every trace of a client. Any in-flight describe call
// for that client completes and its result is simply discarded.
func (p *Pipeline) Disconnect(clientID string) {
	p.windows.Remove(clientID)
	p.reported.Remove(clientID)
}
