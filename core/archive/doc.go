// Package archive stores raw provider snapshots in object storage.
//
// It wraps the MinIO Go client behind the small Uploader interface so the
// archiver can be unit tested without a live storage service. Archiving is
// optional (see Config.Enabled) and strictly best-effort: the sync cycle
// never fails because a snapshot could not be uploaded.
//
// # Layout
//
// Objects are keyed by provider, fetch date and cycle ID:
//
//	snapshots/<provider>/<yyyy-mm-dd>/<hhmmss>_<cycle_id>.json
//
// # Usage
//
//	archiver, err := archive.NewArchiver(cfg.Archive)
//	err = archiver.Archive(ctx, "citybikes", cycleID, fetchedAt, raw)
package archive
