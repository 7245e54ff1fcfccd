package models

import (
	"encoding/json"
	"time"
)

// Station represents the last-known attributes of one bike-share station.
// Rows are created on first sighting and mutated in place when a later
// snapshot disagrees; they are never deleted, so a station missing from a
// snapshot keeps its stale row.
type Station struct {
	// ID is the provider-assigned identifier. Stable, unique, never reused.
	ID string `gorm:"column:id;primaryKey;size:64"`
	// Name is the display name of the station.
	Name string `gorm:"column:name"`
	// Address is the street address. Empty means unknown.
	Address string `gorm:"column:address"`
	// Latitude of the station.
	Latitude float64 `gorm:"column:latitude"`
	// Longitude of the station.
	Longitude float64 `gorm:"column:longitude"`
	// Banking indicates whether the station has a payment terminal.
	// NULL means the provider does not expose the flag.
	Banking *bool `gorm:"column:banking"`
	// Bonus indicates whether the station is an uphill "bonus" station.
	// NULL means the provider does not expose the flag. Stored, never diffed.
	Bonus *bool `gorm:"column:bonus"`
	// BikeStands is the total stand capacity.
	BikeStands int `gorm:"column:bike_stands"`
}

// TableName overrides the table name for Station.
func (Station) TableName() string {
	return "stations"
}

// StationMeasurement is one append-only time-series observation of a station.
// One row is written per station per sync cycle, whether or not the catalog
// changed. Rows are immutable once written.
type StationMeasurement struct {
	// StationID references Station.ID.
	StationID string `gorm:"column:station_id;size:64;index:idx_station_measurements_station_id"`
	// AvailableBikes is the number of regular bikes available.
	AvailableBikes int `gorm:"column:available_bikes"`
	// AvailableEbikes is the number of e-bikes available. NULL when the
	// provider does not break out e-bikes.
	AvailableEbikes *int `gorm:"column:available_ebikes"`
	// FreeStands is the number of free docking points.
	FreeStands int `gorm:"column:free_stands"`
	// Status is the provider-reported status label (e.g. OPEN). NULL when unknown.
	Status *string `gorm:"column:status"`
	// Updated is the fetch timestamp of the cycle that observed this row.
	Updated time.Time `gorm:"column:updated;index:idx_station_measurements_updated"`
}

// TableName overrides the table name for StationMeasurement.
func (StationMeasurement) TableName() string {
	return "station_measurements"
}

// StationChangeEvent records the ordered set of catalog field changes
// detected for one station in one sync cycle. Rows are immutable and only
// written for stations already present in the catalog; an insertion never
// produces an event.
type StationChangeEvent struct {
	// StationID references Station.ID.
	StationID string `gorm:"column:station_id;size:64;index:idx_station_events_station_id"`
	// Timestamp is the fetch timestamp of the cycle that detected the changes.
	Timestamp time.Time `gorm:"column:timestamp;index:idx_station_events_timestamp"`
	// Event is the JSON-serialized ordered list of Change records.
	Event string `gorm:"column:event"`
}

// TableName overrides the table name for StationChangeEvent.
func (StationChangeEvent) TableName() string {
	return "station_events"
}

// Change is one field-level difference detected during reconciliation.
type Change struct {
	// Key is the catalog field that changed (name, latitude, longitude,
	// banking, bike_stands).
	Key string `json:"key"`
	// OldValue is the catalog value before the change. JSON null when the
	// previous value was unknown.
	OldValue any `json:"old_value"`
	// NewValue is the snapshot value written to the catalog.
	NewValue any `json:"new_value"`
}

// EncodeChanges serializes an ordered change-set for the event table.
func EncodeChanges(changes []Change) (string, error) {
	data, err := json.Marshal(changes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeChanges parses a serialized change-set back into Change records.
func DecodeChanges(event string) ([]Change, error) {
	var changes []Change
	if err := json.Unmarshal([]byte(event), &changes); err != nil {
		return nil, err
	}
	return changes, nil
}
