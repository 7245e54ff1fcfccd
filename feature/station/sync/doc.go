// Package sync orchestrates one fetch → reconcile → persist cycle.
//
// The cycle is all-or-nothing: a provider fetch failure or a catalog load
// failure aborts before any store interaction, and a failure while applying
// rolls back the whole transaction, so the store never holds a partial
// cycle. The only observable result is the CycleReport — commit counts or
// an abort reason.
//
// Scheduling is external: the service runs exactly one cycle per call and
// never retries. Snapshot archiving to object storage, when configured, is
// best-effort and cannot fail a cycle.
package sync
