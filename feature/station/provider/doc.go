// Package provider acquires bike-share snapshots from external APIs.
//
// The Adapter interface collapses provider-specific fetch mechanics and
// JSON shapes to a single FetchSnapshot call. Two adapters are included:
//
//   - citybikes: one citybik.es /v2/networks/<slug> document. The pybikes
//     "extra" block is loosely typed and varies per network, so optional
//     fields (uid, banking, bonus, slots, status, ebikes, address) are
//     probed individually.
//   - gbfs: station_information.json joined with station_status.json on
//     station_id, with is_installed/is_renting mapped to a status label.
//
// A provider that omits a field yields a descriptor with that field nil;
// downstream code never confuses absence with a zero value. Every fetch or
// parse problem surfaces as a *FetchError, which aborts the sync cycle
// before any store interaction.
package provider
