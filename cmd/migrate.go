package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sedhha/policy-mate-sub000/internal/database"
	"github.com/sedhha/policy-mate-sub000/internal/stubapi"
	"github.com/sedhha/policy-mate-sub000/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the stub backend's database schema",
	Long: `Create or update the stub review backend's sqlite schema.

The serve command migrates automatically at startup; this command exists
for preparing a database file ahead of time or for CI setups.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("db", "", "database path (overrides config)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}

	db, err := database.Initialize(dbPath, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	err = db.AutoMigrate(
		&stubapi.AnnotationRecord{},
		&stubapi.MessageRecord{},
		&stubapi.SessionMetricsRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date at %s\n", dbPath)
	return nil
}
