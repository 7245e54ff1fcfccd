package cmd

import (
	"context"
	"fmt"

	"stationwatch/core/config"
	"stationwatch/core/database"
	"stationwatch/core/logger"
	"stationwatch/feature/station/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or upgrades the schema and reports the effective
// column layout of each table.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE:  runMigrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.New(db).Migrate(ctx); err != nil {
		return err
	}

	for _, table := range []string{"stations", "station_measurements", "station_events"} {
		columns, err := database.GetTableColumns(db, table)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(columns))
		for _, col := range columns {
			names = append(names, col.Field)
		}
		l.Info("Table ready", zap.String("table", table), zap.Strings("columns", names))
	}

	l.Info("Migration complete")
	return nil
}
