package reconcile

import (
	"time"

	"stationwatch/feature/station/models"
)

// Trackable catalog fields, in the fixed order used for change-sets.
// The keys double as catalog column names.
const (
	FieldName       = "name"
	FieldLatitude   = "latitude"
	FieldLongitude  = "longitude"
	FieldBanking    = "banking"
	FieldBikeStands = "bike_stands"
)

// Update is one catalog row with at least one changed trackable field.
type Update struct {
	// StationID identifies the catalog row to update.
	StationID string
	// Columns maps changed column names to their new values. Unsupplied
	// and unchanged fields are absent, so the write touches nothing else.
	Columns map[string]any
	// Changes is the ordered change-set backing the station event row.
	Changes []models.Change
}

// Skipped records a descriptor dropped from the cycle for failing validation.
type Skipped struct {
	// StationID is the offending descriptor's identifier, may be empty.
	StationID string
	// Reason describes the validation failure.
	Reason string
}

// Result is the classification of one snapshot against the previous catalog.
type Result struct {
	// Insertions are stations absent from the previous catalog.
	Insertions []models.Station
	// Updates are catalog rows with a non-empty change-set.
	Updates []Update
	// Unchanged counts stations present in both with no differing
	// trackable field.
	Unchanged int
	// Measurements holds exactly one row per valid descriptor, all stamped
	// with the cycle's fetch timestamp.
	Measurements []models.StationMeasurement
	// Skipped lists descriptors dropped for failing validation.
	Skipped []Skipped
	// ObservedAt is the cycle's single fetch timestamp.
	ObservedAt time.Time
}

// Diff classifies every descriptor of a snapshot against the previous
// catalog as an insertion, an update with an ordered change-set, or
// unchanged. It only computes; it never writes. Reconciling the same
// (catalog, snapshot) pair twice yields identical output.
func Diff(catalog map[string]models.Station, descriptors []models.StationDescriptor, observedAt time.Time) Result {
	result := Result{ObservedAt: observedAt}

	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			result.Skipped = append(result.Skipped, Skipped{StationID: d.ID, Reason: err.Error()})
			continue
		}

		current, found := catalog[d.ID]
		if !found {
			result.Insertions = append(result.Insertions, newStation(d))
		} else {
			update := diffStation(current, d)
			if len(update.Changes) > 0 {
				result.Updates = append(result.Updates, update)
			} else {
				result.Unchanged++
			}
		}

		// Measurements are time-series data, recorded unconditionally.
		result.Measurements = append(result.Measurements, newMeasurement(d, observedAt))
	}

	return result
}

// newStation builds a catalog row from a first sighting. Fields the
// provider does not supply take their sentinel: empty string for text,
// NULL for the tri-state flags, zero for capacity.
func newStation(d models.StationDescriptor) models.Station {
	station := models.Station{
		ID:        d.ID,
		Name:      d.Name,
		Address:   d.Address,
		Latitude:  *d.Latitude,
		Longitude: *d.Longitude,
		Banking:   d.Banking,
		Bonus:     d.Bonus,
	}
	if d.BikeStands != nil {
		station.BikeStands = *d.BikeStands
	}
	return station
}

// diffStation compares the trackable fields the descriptor supplies against
// the catalog row, in the fixed field order. A field the provider does not
// supply is never compared; absence is not a value.
func diffStation(current models.Station, d models.StationDescriptor) Update {
	update := Update{StationID: d.ID, Columns: map[string]any{}}

	record := func(key string, oldValue, newValue any) {
		update.Columns[key] = newValue
		update.Changes = append(update.Changes, models.Change{
			Key:      key,
			OldValue: oldValue,
			NewValue: newValue,
		})
	}

	if d.Name != current.Name {
		record(FieldName, current.Name, d.Name)
	}
	if *d.Latitude != current.Latitude {
		record(FieldLatitude, current.Latitude, *d.Latitude)
	}
	if *d.Longitude != current.Longitude {
		record(FieldLongitude, current.Longitude, *d.Longitude)
	}
	if d.Banking != nil && !boolEqual(current.Banking, d.Banking) {
		record(FieldBanking, boolValue(current.Banking), *d.Banking)
	}
	if d.BikeStands != nil && *d.BikeStands != current.BikeStands {
		record(FieldBikeStands, current.BikeStands, *d.BikeStands)
	}

	return update
}

// newMeasurement builds the time-series row for one observation. When the
// provider breaks out e-bikes, the regular bike count is the total minus
// the e-bikes.
func newMeasurement(d models.StationDescriptor, observedAt time.Time) models.StationMeasurement {
	m := models.StationMeasurement{
		StationID:       d.ID,
		AvailableEbikes: d.EBikes,
		Status:          d.Status,
		Updated:         observedAt,
	}
	if d.Bikes != nil {
		m.AvailableBikes = *d.Bikes
		if d.EBikes != nil {
			m.AvailableBikes = *d.Bikes - *d.EBikes
		}
	}
	if d.FreeStands != nil {
		m.FreeStands = *d.FreeStands
	}
	return m
}

func boolEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// boolValue converts a tri-state flag to its event representation:
// nil stays nil so the serialized old_value is JSON null.
func boolValue(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
