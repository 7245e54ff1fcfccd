package cmd

import (
	"context"
	"fmt"
	"time"

	"stationwatch/core/config"
	"stationwatch/core/database"
	"stationwatch/core/logger"
	"stationwatch/feature/station/models"
	"stationwatch/feature/station/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the history command
	historyStation string
	historySince   time.Duration
	historyLimit   int
	historyEvents  bool
)

// historyCmd reads the append-only tables, the same access path the
// visualization consumer uses.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query recorded measurements and change events",
	Long: `Query the append-only measurement history, newest first.

Examples:
  # Last 20 measurements across all stations
  stationwatch history --limit 20

  # Measurements for one station over the last 24h
  stationwatch history --station 42 --since 24h

  # Change events for one station
  stationwatch history --station 42 --events`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyStation, "station", "", "Restrict to one station identifier")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "Only measurements captured within this window (e.g. 24h)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum rows to print (0 = no limit)")
	historyCmd.Flags().BoolVar(&historyEvents, "events", false, "Print change events instead of measurements (requires --station)")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	if historyEvents {
		if historyStation == "" {
			return fmt.Errorf("--events requires --station")
		}
		return printEvents(ctx, st, l)
	}
	return printMeasurements(ctx, st, l)
}

func printMeasurements(ctx context.Context, st *store.Store, l *zap.Logger) error {
	var since time.Time
	if historySince > 0 {
		since = time.Now().Add(-historySince)
	}

	measurements, err := st.MeasurementsSince(ctx, historyStation, since, historyLimit)
	if err != nil {
		return err
	}

	for _, m := range measurements {
		fields := []zap.Field{
			zap.String("station_id", m.StationID),
			zap.Int("available_bikes", m.AvailableBikes),
			zap.Int("free_stands", m.FreeStands),
			zap.Time("updated", m.Updated),
		}
		if m.AvailableEbikes != nil {
			fields = append(fields, zap.Int("available_ebikes", *m.AvailableEbikes))
		}
		if m.Status != nil {
			fields = append(fields, zap.String("status", *m.Status))
		}
		l.Info("Measurement", fields...)
	}

	l.Info("History query complete", zap.Int("rows", len(measurements)))
	return nil
}

func printEvents(ctx context.Context, st *store.Store, l *zap.Logger) error {
	events, err := st.EventsForStation(ctx, historyStation, historyLimit)
	if err != nil {
		return err
	}

	for _, e := range events {
		changes, err := models.DecodeChanges(e.Event)
		if err != nil {
			l.Warn("Undecodable event row",
				zap.String("station_id", e.StationID),
				zap.Time("timestamp", e.Timestamp),
				zap.Error(err))
			continue
		}
		for _, c := range changes {
			l.Info("Change",
				zap.String("station_id", e.StationID),
				zap.Time("timestamp", e.Timestamp),
				zap.String("key", c.Key),
				zap.Any("old_value", c.OldValue),
				zap.Any("new_value", c.NewValue))
		}
	}

	l.Info("History query complete", zap.Int("events", len(events)))
	return nil
}
