package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rezonia/invoice-api/internal/config"
)

var (
	version = "1.0.0"

	configFile string
	settings   = config.New()
	cfg        *config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "invoice-api",
	Short: "Invoice management HTTP API",
	Long: `Invoice API stores uploaded invoice documents, lets clients list,
fetch and download them, and tracks each invoice's payment status.

Settings are read from flags, then environment variables (LLM_API_KEY,
DATABASE_URL, VENDORS_BASE_URL, PORT, ...), then an optional YAML file.

Examples:
  # Serve the invoice API with an in-memory store
  invoice-api serve

  # Serve against PostgreSQL, applying migrations first
  DATABASE_URL=postgres://localhost/invoices invoice-api serve --auto-migrate

  # Apply migrations only
  invoice-api migrate --database-url postgres://localhost/invoices

  # Answer GET / with "Hello Ada!"
  invoice-api hello --name Ada`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and gin request logs")
}

// configKeyAnnotation marks a flag whose config key differs from its name
const configKeyAnnotation = "config-key"

func setConfigKey(flags *pflag.FlagSet, flag, key string) {
	if err := flags.SetAnnotation(flag, configKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// bindFlags ties the running command's flags to viper keys. Sibling
// commands share flag names, so only the invoked command is bound.
func bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" || f.Name == "help" || f.Name == "version" {
			return
		}
		key := f.Name
		if keys := f.Annotations[configKeyAnnotation]; len(keys) > 0 {
			key = keys[0]
		}
		err = settings.BindPFlag(key, f)
	})
	return err
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}

	if configFile != "" {
		if err := config.ReadFile(settings, configFile); err != nil {
			return err
		}
	}

	loaded, err := config.Load(settings)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = newLogger(cfg.Debug)
	slog.SetDefault(logger)
	return nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
