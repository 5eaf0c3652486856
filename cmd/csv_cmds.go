package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Laizra/Call-tracker-app-R2024/internal/config"
	"github.com/Laizra/Call-tracker-app-R2024/internal/repos"
)

var importCSVCmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Insert rows from a CSV export, skipping ids already stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportCSV(commandContext(cmd), cfg, args[0])
	},
}

var exportCSVCmd = &cobra.Command{
	Use:   "export-csv <file>",
	Short: "Write every stored row to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExportCSV(commandContext(cmd), cfg, args[0])
	},
}

func runImportCSV(ctx context.Context, cfg *config.Config, path string) error {
	if cfg.DataSource != config.DataSourcePostgres {
		return errors.New("import-csv requires DATA_SOURCE=postgres")
	}
	rows, err := repos.LoadCallRecordsCSV(path, cfg.Logger)
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	res, err := be.store.InsertNew(ctx, rows)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	cfg.Logger.Printf("✅ Imported %d rows from %s (%d already stored)", len(res.Inserted), path, len(res.Skipped))
	return nil
}

func runExportCSV(ctx context.Context, cfg *config.Config, path string) error {
	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	rows, err := be.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch rows: %w", err)
	}
	if err := repos.WriteCallRecordsCSVFile(path, rows); err != nil {
		return err
	}
	cfg.Logger.Printf("✅ Wrote %d rows to %s", len(rows), path)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
