package main

import (
	"fmt"
	"time"

	"github.com/jonathan/cv-fit-analyzer/internal/logger"
	"github.com/jonathan/cv-fit-analyzer/internal/server"
	"github.com/jonathan/cv-fit-analyzer/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// writeSlack covers upload, extraction and scraping on top of the completion budget.
const writeSlack = 30 * time.Second

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts CV uploads on POST /api/upload-cv and returns a fit analysis.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values override the environment)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Format(cfg.LogFormat), cfg.LogDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	analyzer, closeCompleter, err := buildPipeline(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeCompleter() }()

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		WriteTimeout:   writeTimeout(cfg.RetryBudget(), time.Duration(cfg.ScrapeTimeout)),
		RateLimit:      ratelimit.LoadConfig(),
	}, analyzer, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("port", cfg.Port),
		zap.String("upload_dir", cfg.UploadDir),
		zap.Bool("use_browser", cfg.UseBrowser),
	)

	return srv.Start(cmd.Context())
}

// writeTimeout must outlast the slowest successful request.
func writeTimeout(retryBudget, scrapeTimeout time.Duration) time.Duration {
	return retryBudget + scrapeTimeout + writeSlack
}
