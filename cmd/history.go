package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/iocache"
	"github.com/huangsam/scholar/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := storeSetup("history-backend", "history-db-connect")
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no dataset cache for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	backend, connStr, err := storeSetup("history-backend", "history-db-connect")
	if err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// requireHistoryStore returns the history store or exits when history is disabled.
func requireHistoryStore() contract.HistoryStore {
	store := iocache.Manager.GetHistoryStore()
	if store == nil {
		contract.LogFatal("Run history is disabled", fmt.Errorf("set --history-backend to sqlite, mysql or postgresql"))
	}
	return store
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by scoring commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of scoring runs and exports",
	Long: `Manage the recorded history of scoring runs.

When enabled, Scholar records every rank, explain and summary run, storing:
- Run metadata (timestamp, dataset, weights, thresholds, seed, duration)
- Per-applicant category scores, final score, tier, award and rank

This makes every award decision traceable to the configuration that produced it.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite database
  scholar rank students.csv --history-backend sqlite

  # Check history status
  scholar history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  scholar history export --history-backend sqlite --output-file decisions`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded scoring runs",
	Long: `Delete all stored scoring runs and applicant scores.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  scholar history export --history-backend sqlite --output-file backup
  scholar history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The open connection would hold the SQLite file or tables.
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, sqliteFilePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath()), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the recorded run history.

Displays:
- Backend type and connection status
- Total number of scoring runs stored
- Last and oldest run timestamps
- Total applicant scores across all runs
- Database table sizes

Examples:
  # Check run history status
  scholar history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := requireHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run history to Parquet format for use with analytics tools.

Exports two datasets, named after the --output-file prefix:
- <prefix>.runs.parquet - metadata about each scoring run
- <prefix>.applicant_scores.parquet - per-applicant decisions of every run

Requires: --output-file parameter

Examples:
  # Export all data
  scholar history export --history-backend sqlite --output-file decisions

  # Use with DuckDB for analysis
  duckdb -c "SELECT tier, count(*) FROM read_parquet('decisions.applicant_scores.parquet') GROUP BY tier"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportHistory(os.Stdout, requireHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  scholar history migrate --history-backend postgresql --history-db-connect "..."

  # Migrate to specific version
  scholar history migrate --history-backend sqlite --target-version 2

  # Rollback to initial state
  scholar history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
