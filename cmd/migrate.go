package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sriramramnath/EducationOS/internal/config"
	"github.com/sriramramnath/EducationOS/internal/store"
)

func newMigrateCmd() *cobra.Command {
	var dbDSN string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Long: `Apply the embedded schema migrations to the configured PostgreSQL
database. The serve command applies migrations on startup; this command
exists for running them separately, for example in a deploy step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db-dsn") {
				os.Setenv("EDUOS_DB_DSN", dbDSN)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := store.Connect(ctx, cfg.DB.DSN)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			if err := store.ApplyMigrations(ctx, pool); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			fmt.Println("migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&dbDSN, "db-dsn", "", "PostgreSQL connection string. Can also use EDUOS_DB_DSN env var.")

	return cmd
}
