package store

import (
	"context"
	"fmt"
	"time"

	"stationwatch/feature/station/models"
	"stationwatch/feature/station/reconcile"

	"gorm.io/gorm"
)

// createBatchSize bounds the row count per INSERT for the append-only tables.
const createBatchSize = 200

// Store provides durable storage for the station catalog and its two
// append-only tables. All writes of one sync cycle go through Apply, which
// runs inside a single transaction.
type Store struct {
	db *gorm.DB
}

// New creates a store over an established database connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or upgrades the three tables and their secondary indexes.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.Station{},
		&models.StationMeasurement{},
		&models.StationChangeEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// LoadCatalog loads all station rows keyed by identifier.
func (s *Store) LoadCatalog(ctx context.Context) (map[string]models.Station, error) {
	var stations []models.Station
	if err := s.db.WithContext(ctx).Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	catalog := make(map[string]models.Station, len(stations))
	for _, station := range stations {
		catalog[station.ID] = station
	}
	return catalog, nil
}

// Apply persists one reconciliation result atomically. Station rows are
// written before their dependent event and measurement rows so the
// referential invariant holds at every point inside the transaction. Any
// failure rolls back the whole cycle.
func (s *Store) Apply(ctx context.Context, result reconcile.Result) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyInsertions(tx, result.Insertions); err != nil {
			return err
		}
		if err := applyUpdates(tx, result.Updates); err != nil {
			return err
		}
		if err := appendEvents(tx, result.Updates, result.ObservedAt); err != nil {
			return err
		}
		if err := appendMeasurements(tx, result.Measurements); err != nil {
			return err
		}
		return nil
	})
}

// applyInsertions creates the catalog rows for first-sighted stations.
func applyInsertions(tx *gorm.DB, insertions []models.Station) error {
	if len(insertions) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(insertions, createBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert stations: %w", err)
	}
	return nil
}

// applyUpdates writes only the changed columns of each updated station.
func applyUpdates(tx *gorm.DB, updates []reconcile.Update) error {
	for _, update := range updates {
		err := tx.Model(&models.Station{}).
			Where("id = ?", update.StationID).
			Updates(update.Columns).Error
		if err != nil {
			return fmt.Errorf("failed to update station %s: %w", update.StationID, err)
		}
	}
	return nil
}

// appendEvents writes one change event per updated station.
func appendEvents(tx *gorm.DB, updates []reconcile.Update, observedAt time.Time) error {
	if len(updates) == 0 {
		return nil
	}

	events := make([]models.StationChangeEvent, 0, len(updates))
	for _, update := range updates {
		event, err := models.EncodeChanges(update.Changes)
		if err != nil {
			return fmt.Errorf("failed to encode change-set for station %s: %w", update.StationID, err)
		}
		events = append(events, models.StationChangeEvent{
			StationID: update.StationID,
			Timestamp: observedAt,
			Event:     event,
		})
	}

	if err := tx.CreateInBatches(events, createBatchSize).Error; err != nil {
		return fmt.Errorf("failed to append events: %w", err)
	}
	return nil
}

// appendMeasurements writes the cycle's time-series rows.
func appendMeasurements(tx *gorm.DB, measurements []models.StationMeasurement) error {
	if len(measurements) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(measurements, createBatchSize).Error; err != nil {
		return fmt.Errorf("failed to append measurements: %w", err)
	}
	return nil
}

// MeasurementsSince returns measurement rows ordered by capture time,
// newest first. stationID narrows to one station when non-empty; since is
// ignored when zero; limit is ignored when non-positive.
func (s *Store) MeasurementsSince(ctx context.Context, stationID string, since time.Time, limit int) ([]models.StationMeasurement, error) {
	q := s.db.WithContext(ctx).Order("updated DESC")
	if stationID != "" {
		q = q.Where("station_id = ?", stationID)
	}
	if !since.IsZero() {
		q = q.Where("updated >= ?", since)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var measurements []models.StationMeasurement
	if err := q.Find(&measurements).Error; err != nil {
		return nil, fmt.Errorf("failed to load measurements: %w", err)
	}
	return measurements, nil
}

// EventsForStation returns change events for one station ordered by
// detection time, newest first. limit is ignored when non-positive.
func (s *Store) EventsForStation(ctx context.Context, stationID string, limit int) ([]models.StationChangeEvent, error) {
	q := s.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var events []models.StationChangeEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return events, nil
}
