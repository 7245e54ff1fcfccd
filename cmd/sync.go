package cmd

import (
	"context"
	"fmt"

	"stationwatch/core/archive"
	"stationwatch/core/config"
	"stationwatch/core/database"
	"stationwatch/core/logger"
	"stationwatch/feature/station/provider"
	"stationwatch/feature/station/store"
	stationsync "stationwatch/feature/station/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd runs exactly one sync cycle. Scheduling (cron, systemd timer)
// and single-instance enforcement are the deployment's responsibility.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one fetch → reconcile → persist cycle",
	Long: `Fetch a snapshot from the configured provider, reconcile it against
the station catalog and persist the result in a single transaction.

The cycle is all-or-nothing: a fetch failure aborts with zero writes and a
storage failure rolls the whole cycle back. Exit status is non-zero for any
non-committed outcome, so a scheduler can alert on failed runs.`,
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
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

	st := store.New(db)
	// Keep the schema current before the cycle; a no-op on repeat runs.
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	adapter, err := provider.New(cfg.Provider)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	var archiver stationsync.Archiver
	if cfg.Archive.Enabled {
		a, err := archive.NewArchiver(cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to create archiver: %w", err)
		}
		archiver = a
	}

	service := stationsync.NewService(adapter, st, archiver, l)

	report, err := service.RunCycle(ctx)
	if err != nil {
		// RunCycle already logged the failure with its cycle ID.
		return err
	}

	l.Info("Sync finished",
		zap.String("cycle_id", report.CycleID),
		zap.String("outcome", string(report.Outcome)),
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("measurements", report.Measurements),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))

	return nil
}
