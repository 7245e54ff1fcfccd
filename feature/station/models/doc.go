// Package models defines the persisted station catalog entities and the
// provider-facing station descriptor.
//
// Three tables are produced:
//   - stations: one mutable row per station, the latest-known attributes.
//   - station_measurements: append-only time series, one row per station
//     per sync cycle, indexed on station_id and updated.
//   - station_events: append-only change log, one row per station per
//     cycle with at least one changed trackable field, indexed on
//     station_id and timestamp.
//
// StationDescriptor models provider field availability explicitly: optional
// fields are pointers and nil means "not supplied", never zero.
package models
