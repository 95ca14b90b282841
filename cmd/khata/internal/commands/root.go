package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/khata/internal/app"
	"github.com/MrJamesThe3rd/khata/internal/config"
	"github.com/MrJamesThe3rd/khata/internal/database"
)

// NewRootCommand creates the operator CLI with every subcommand registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "khata",
		Short: "Double-entry ledger operations",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newImportCommand(),
		newCashflowCommand(),
		newPayrollCommand(),
		newTokenCommand(),
	)

	return rootCmd
}

// connect opens the database and builds the services. The caller closes db.
func connect(ctx context.Context) (*app.App, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(ctx, cfg, db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("starting services: %w", err)
	}

	return a, db, nil
}
