package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/intelevision/go-intelevision/internal/config"
	"github.com/intelevision/go-intelevision/internal/history"
	"github.com/intelevision/go-intelevision/internal/log"
	"github.com/intelevision/go-intelevision/pkg/describe"
	"github.com/intelevision/go-intelevision/pkg/pipeline"
	"github.com/intelevision/go-intelevision/pkg/relevance"
	"github.com/intelevision/go-intelevision/pkg/server"
	"github.com/intelevision/go-intelevision/pkg/window"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	port := flag.String("port", "", "Listen port (overrides config)")
	describerFlag := flag.String("describer", "", "Describer: bedrock, openai, none (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *describerFlag != "" {
		cfg.Describer = *describerFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.LogLevel)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	describer, err := buildDescriber(ctx, cfg)
	if err != nil {
		log.Error("failed to build describer", "error", err)
		os.Exit(1)
	}
	if describer != nil {
		defer describer.Close()
	}

	windows := window.NewStore(cfg.Window(), cfg.MaxBufferSize)
	reported := relevance.NewStore(cfg.ReportTTL())
	pipe := pipeline.New(windows, reported, describer, cfg.DescribeTimeout())

	var hist *history.Store
	if cfg.HistoryDB != "" {
		hist, err = history.Open(cfg.HistoryDB)
		if err != nil {
			log.Error("failed to open history db", "path", cfg.HistoryDB, "error", err)
			os.Exit(1)
		}
		defer hist.Close()
		pipe.SetHistory(hist)
	}

	pipe.StartReaper(ctx, cfg.ReaperInterval())

	srv := server.NewServer(cfg.Port, pipe, hist)

	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
		srv.Shutdown()
	}()

	log.Info("starting InteLeVision backend",
		"port", cfg.Port,
		"window_ms", cfg.WindowMs,
		"max_buffer", cfg.MaxBufferSize,
		"describer", cfg.Describer,
		"history", cfg.HistoryDB != "",
	)

	if err := srv.Start(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.DefaultConfig()
	cfg.LoadEnvConfig()
	return cfg, nil
}

// buildDescriber constructs the configured remote describer.
// Returns nil for "none": the pipeline then serves local fallback text only.
func buildDescriber(ctx context.Context, cfg config.Config) (describe.Describer, error) {
	switch cfg.Describer {
	case config.DescriberBedrock:
		opts := []describe.Option{
			describe.WithRegion(cfg.AWSRegion),
			describe.WithTimeout(cfg.DescribeTimeout()),
		}
		if cfg.BedrockModel != "" {
			opts = append(opts, describe.WithModel(cfg.BedrockModel))
		}
		return describe.NewBedrock(ctx, opts...)

	case config.DescriberOpenAI:
		return describe.NewOpenAI(
			describe.WithBaseURL(cfg.OpenAIBaseURL),
			describe.WithAPIKey(cfg.OpenAIKey),
			describe.WithModel(cfg.OpenAIModel),
			describe.WithTimeout(cfg.DescribeTimeout()),
		)

	case config.DescriberNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown describer %q", cfg.Describer)
}
