// Package tasks orchestrates the snapshot-diff-notify loop.
//
// # The Cycle
//
// [WatchEngine.Cycle] runs one pass through the state machine:
//
//	load baseline → fetch playlist → diff → notify per new track → persist → sleep
//
// Partial failures deliberately degrade instead of aborting:
//   - a source failure skips straight to the sleep, so nothing is ever
//     notified or persisted from an incomplete fetch
//   - a notification failure is logged and the remaining tracks still go out
//   - the fetched snapshot becomes the persisted baseline regardless of how
//     delivery went, so a notifier outage cannot re-report the same tracks
//     forever once it clears
//   - a persistence failure keeps the previous baseline, accepting that the
//     next cycle may re-notify (at-least-once delivery)
//
// On the first ever run no baseline exists; the cycle seeds one from the
// current snapshot and, unless configured otherwise, suppresses the
// notification storm for tracks that predate the watcher.
//
// # Concurrency
//
// One cycle at a time, run to completion on the caller's goroutine. Shutdown
// is honored at the sleep boundary only, and the persist step runs under
// [context.WithoutCancel] so cancellation can never land between diff and save.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates. The
// [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data; sends use select with default so a slow consumer never
// stalls a cycle.
package tasks
