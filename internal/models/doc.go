// Package models holds the snapshot data model shared by the source, the
// stores, and the watch engine.
//
// A [Snapshot] is the persisted unit: the stores serialize it as JSON keyed by
// playlist ID, and the engine diffs the freshly fetched snapshot against the
// stored baseline with [NewTracks].
//
// The diff is a pure set difference over track IDs. Order in either snapshot is
// irrelevant to correctness; the result preserves the current snapshot's order
// so notifications read top to bottom.
package models
