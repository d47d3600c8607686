package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-api/internal/config"
	"github.com/rezonia/invoice-api/internal/invoices"
	"github.com/rezonia/invoice-api/internal/llm"
	"github.com/rezonia/invoice-api/internal/server"
	"github.com/rezonia/invoice-api/internal/store"
	"github.com/rezonia/invoice-api/internal/store/memory"
	"github.com/rezonia/invoice-api/internal/store/postgres"
	"github.com/rezonia/invoice-api/internal/vendors"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the invoice HTTP API",
	Long: `Start the invoice HTTP API.

Endpoints:
  - POST  /invoices                       - Upload one invoice file (multipart)
  - GET   /invoices                       - List invoices (ids, statuses, vendorIds, orderBy)
  - GET   /invoices/currencies            - List supported currency codes
  - GET   /invoices/{invoiceId}           - Fetch one invoice
  - GET   /invoices/{invoiceId}/download  - Download the invoice document
  - PATCH /invoices/{invoiceId}           - Update invoice status
  - GET   /health                         - Health check

Without --database-url invoices are kept in memory and lost on exit.
With --llm-api-key uploaded documents are read for due date, amount,
currency and vendor name.

Examples:
  # Start server on default port
  invoice-api serve

  # Start on custom port against PostgreSQL
  invoice-api serve --address :9000 --database-url postgres://localhost/invoices

  # Start in debug mode with field extraction
  invoice-api serve --debug --llm-api-key <key>`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("address", config.DefaultAddress, "Server listen address (env: ADDRESS, or PORT)")
	flags.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	flags.Duration("write-timeout", 5*time.Minute, "HTTP write timeout")
	flags.Duration("shutdown-timeout", 30*time.Second, "Time allowed for in-flight requests on shutdown")
	flags.Int64("max-upload-bytes", 32<<20, "Maximum upload request size")
	flags.String("database-url", "", "PostgreSQL connection string (env: DATABASE_URL)")
	flags.Int32("database-max-conns", 10, "Maximum PostgreSQL connections")
	flags.Bool("auto-migrate", false, "Apply database migrations before serving")
	flags.String("llm-api-key", "", "API key for the LLM provider (env: LLM_API_KEY)")
	flags.String("llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	flags.String("llm-model", "", "LLM model for field extraction (env: LLM_MODEL)")
	flags.Duration("llm-timeout", 2*time.Minute, "LLM request timeout")
	flags.String("vendors-base-url", "", "Vendors API base URL (env: VENDORS_BASE_URL)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []invoices.Option{invoices.WithLogger(logger)}
	if cfg.LLMAPIKey != "" {
		opts = append(opts, invoices.WithFieldExtractor(newExtractor()))
		logger.Info("field extraction enabled")
	} else {
		logger.Info("field extraction disabled (no API key)")
	}
	if cfg.VendorsBaseURL != "" {
		opts = append(opts, invoices.WithVendorLookup(vendors.NewClient(cfg.VendorsBaseURL)))
		logger.Info("vendor lookup enabled", "vendors_base_url", cfg.VendorsBaseURL)
	}

	srv := server.NewServer(&server.Config{
		Address:         cfg.Address,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		Debug:           cfg.Debug,
		Logger:          logger,
	}, invoices.NewService(st, opts...))

	return srv.Run(ctx)
}

func openStore(ctx context.Context) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("no database-url configured, using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DatabaseMaxConns})
	if err != nil {
		return nil, nil, err
	}

	if cfg.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", "versions", applied)
	}

	return postgres.NewStore(pool), pool.Close, nil
}

func newExtractor() *llm.Extractor {
	clientOpts := []llm.ClientOption{llm.WithTimeout(cfg.LLMTimeout)}
	if cfg.LLMBaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(cfg.LLMBaseURL))
	}

	var extractorOpts []llm.ExtractorOption
	if cfg.LLMModel != "" {
		extractorOpts = append(extractorOpts, llm.WithModel(cfg.LLMModel))
	}

	return llm.NewExtractor(llm.NewClient(cfg.LLMAPIKey, clientOpts...), extractorOpts...)
}
