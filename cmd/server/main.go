package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rfpdesk/backend/config"
	httpDelivery "github.com/rfpdesk/backend/internal/delivery/http"
	"github.com/rfpdesk/backend/internal/domain"
	"github.com/rfpdesk/backend/internal/infrastructure/catalog"
	"github.com/rfpdesk/backend/internal/infrastructure/docstore"
	"github.com/rfpdesk/backend/internal/infrastructure/llm"
	"github.com/rfpdesk/backend/internal/infrastructure/pdftext"
	"github.com/rfpdesk/backend/internal/infrastructure/ratelimit"
	"github.com/rfpdesk/backend/internal/logger"
	"github.com/rfpdesk/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "rfpdesk",
	Short: "RFP Desk backend - LLM gateway for RFP responses",
	Long: `RFP Desk backend summarizes RFP documents, matches their requirements
against the FMEG product catalog and drafts proposal responses.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Serving is the default behaviour
		return runServer(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the effective product catalog as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		products, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runServer(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting RFP Desk backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	products, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Info("catalog loaded", zap.Int("entries", products.Len()), zap.String("path", cfg.Catalog.Path))

	// Initialize infrastructure dependencies
	llmClient := llm.NewClient(cfg.APIKey, llm.Config{
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.RateLimit.Upstream,
	}, log)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		llmClient.SetDebug(true)
		log.Info("LLM client debug mode enabled")
	}

	if err := llmClient.Ready(); err != nil {
		log.Warn("LLM API key is not configured; gateway requests will fail until it is set",
			zap.String("base_url", cfg.LLM.BaseURL))
	} else {
		log.Info("LLM gateway configured", zap.String("base_url", cfg.LLM.BaseURL), zap.String("model", cfg.LLM.Model))
	}

	limiter, err := ratelimit.New(ctx, ratelimit.Options{
		Store:     cfg.RateLimit.Store,
		RedisURL:  cfg.RateLimit.RedisURL,
		PerMinute: cfg.RateLimit.PerIP,
		IdleTTL:   cfg.RateLimit.IdleTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	if limiter != nil {
		defer limiter.Close()
		log.Info("client rate limiting enabled",
			zap.String("store", cfg.RateLimit.Store),
			zap.Int("per_minute", cfg.RateLimit.PerIP))
	}

	var uploads domain.DocumentStore
	if cfg.Intake.UploadDir != "" {
		store, err := docstore.NewLocalStore(cfg.Intake.UploadDir)
		if err != nil {
			return err
		}
		uploads = store
		log.Info("RFP uploads are kept on disk", zap.String("dir", cfg.Intake.UploadDir))
	}

	// Initialize usecase layer
	services := httpDelivery.Services{
		Summarizer: usecase.NewSummarizeService(llmClient, log),
		Matcher: usecase.NewMatchService(llmClient, products, usecase.MatchServiceConfig{
			DefaultSensitivity: cfg.Matching.DefaultSensitivity,
			FilterUnknownSKUs:  cfg.Matching.FilterUnknownSKUs,
		}, log),
		Proposals: usecase.NewProposalService(llmClient, log),
		Quoter:    usecase.NewPricingService(products),
		Intake:    usecase.NewIntakeService(pdftext.NewExtractor(log), uploads, log),
		Catalog:   products,
	}

	handler := httpDelivery.NewHandler(services, log)

	deps := httpDelivery.RouterDeps{
		Credential: llmClient,
		Logger:     log,
	}
	if limiter != nil {
		deps.Limiter = limiter
	}
	router := httpDelivery.SetupRouter(cfg, handler, deps)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
