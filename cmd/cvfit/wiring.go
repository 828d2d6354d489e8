package main

import (
	"context"
	"fmt"

	"github.com/jonathan/cv-fit-analyzer/internal/config"
	"github.com/jonathan/cv-fit-analyzer/internal/document"
	"github.com/jonathan/cv-fit-analyzer/internal/ingestion"
	"github.com/jonathan/cv-fit-analyzer/internal/llm"
	"github.com/jonathan/cv-fit-analyzer/internal/pipeline"
	"go.uber.org/zap"
)

// loadConfig reads the environment and, when path is set, overlays the JSON file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	merged := fileCfg.MergeWithDefaults(*cfg)
	return &merged, nil
}

// buildPipeline wires the extractor, resolver and completion client.
// The returned close function releases the completion backend.
func buildPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...pipeline.Option) (*pipeline.Pipeline, func() error, error) {
	completer, err := llm.NewCompleter(ctx, cfg.Completion(), log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	opts = append([]pipeline.Option{pipeline.WithLogger(log)}, opts...)
	p := pipeline.New(
		document.NewExtractor(log),
		ingestion.NewResolver(log, cfg.Resolver()),
		completer,
		opts...,
	)
	return p, completer.Close, nil
}
