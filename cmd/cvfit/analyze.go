package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jonathan/cv-fit-analyzer/internal/logger"
	"github.com/jonathan/cv-fit-analyzer/internal/observability"
	"github.com/jonathan/cv-fit-analyzer/internal/pipeline"
	"github.com/jonathan/cv-fit-analyzer/internal/scoring"
	"github.com/jonathan/cv-fit-analyzer/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV against a job description from the command line",
	Long: `Runs the same analysis as POST /api/upload-cv and prints the result.

The job description comes from --job-url, --job-text, or the built-in default when neither is given.
Configuration is read from the environment and can be overridden with --config.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeCV         string
	analyzeJobURL     string
	analyzeJobText    string
	analyzeConfigPath string
	analyzeUseBrowser bool
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCV, "cv", "", "Path to the CV PDF (required)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL of the job listing to scrape")
	analyzeCmd.Flags().StringVar(&analyzeJobText, "job-text", "", "Job description text")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values override the environment)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print each step and the score breakdown")

	_ = analyzeCmd.MarkFlagRequired("cv")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(analyzeConfigPath)
	if err != nil {
		return err
	}
	if analyzeUseBrowser {
		cfg.UseBrowser = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.FormatConsole, cfg.LogDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// The extractor deletes its input, so analyze a copy.
	path, err := copyToTemp(analyzeCV)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	analyzer, closeCompleter, err := buildPipeline(cmd.Context(), cfg, log,
		pipeline.WithProgress(progressPrinter(printer, analyzeVerbose)))
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	defer func() { _ = closeCompleter() }()

	assessment, err := analyzer.Analyze(cmd.Context(), path, types.JobInput{URL: analyzeJobURL, Text: analyzeJobText})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printer.PrintAssessment(assessment)
	return nil
}

// progressPrinter prints step markers and, when verbose, the job description and score breakdown.
func progressPrinter(printer *observability.Printer, verbose bool) pipeline.ProgressCallback {
	var mu sync.Mutex
	return func(event pipeline.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		printer.PrintStep(event.Step, event.Message, event.Duration)
		if !verbose {
			return
		}
		switch content := event.Content.(type) {
		case *types.JobDescription:
			printer.PrintJobDescription(content)
		case scoring.Result:
			printer.PrintBreakdown(content)
		}
	}
}

// copyToTemp copies the PDF at src into a new temporary file and returns its path.
func copyToTemp(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open CV: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat CV: %w", err)
	}
	if info.IsDir() {
		return "", errors.New("CV path is a directory")
	}

	out, err := os.CreateTemp("", "cvfit-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to copy CV: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to copy CV: %w", err)
	}
	return out.Name(), nil
}
