package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-api/internal/store/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply PostgreSQL migrations",
	Long: `Apply the embedded PostgreSQL migrations that have not run yet.

Examples:
  invoice-api migrate --database-url postgres://localhost/invoices
  DATABASE_URL=postgres://localhost/invoices invoice-api migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("database-url", "", "PostgreSQL connection string (env: DATABASE_URL)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.DatabaseURL == "" {
		return errors.New("database-url is required")
	}

	pool, err := postgres.NewPool(cmd.Context(), cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 1})
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := postgres.Migrate(cmd.Context(), pool)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	}
	for _, version := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version)
	}
	return nil
}
