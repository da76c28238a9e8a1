// Package storage implements the snapshot store behind the watch loop.
//
// The [Store] interface carries exactly two capabilities, Load and Save, keyed
// by playlist ID. Three interchangeable backends implement it:
//   - [FilesystemStore] : one JSON file per playlist, tmp-file + rename writes
//   - [S3Store] : one JSON object per playlist in a bucket (aws-sdk-go-v2)
//   - [SQLiteStore] : a snapshots table with a single-statement upsert
//
// Backend selection is configuration-driven through [FromConfig]; the watch
// engine never sees a concrete type.
//
// All backends share the same error taxonomy: a missing snapshot (first-ever
// run) is [shared.ErrSnapshotNotFound], never a hard failure, and every save
// is atomic from the caller's perspective so a crash or refused write cannot
// leave a corrupt baseline for the next cycle.
package storage
