// Package store persists the station catalog, measurements and change
// events through GORM.
//
// Apply is the single write path: it takes one reconciliation result and
// applies insertions, updates, events and measurements inside one database
// transaction, in that order, so dependent rows never precede their station
// and a mid-batch failure leaves the store exactly as it was before the
// cycle. Readers (the visualization consumer) see only committed rows.
//
// The read side exposes the range queries the external consumer relies on:
// measurements by station and capture time, events by station.
package store
