// Package reconcile is the pure diff engine at the core of stationwatch.
//
// Given the previously persisted catalog and a freshly fetched snapshot, it
// classifies every station as an insertion, an update with an ordered
// change-set, or unchanged, and yields exactly one time-series measurement
// per observed station. It performs no I/O, which keeps it independently
// testable; applying the result is the store's job.
//
// # Rules
//
//   - Trackable fields are the fixed set {name, latitude, longitude,
//     banking, bike_stands}, compared with exact equality in that order.
//     Values are provider-reported, not computed, so no epsilon is needed.
//   - A field the provider does not supply is never compared or reported
//     as changed.
//   - A station absent from the previous catalog is an insertion and never
//     produces a change-set.
//   - Descriptors missing an identifier or coordinates are dropped from
//     the cycle and reported in Result.Skipped.
package reconcile
