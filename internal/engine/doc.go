// Package engine gathers a user's lists and tasks from a backend with real-time progress reporting.
//
// # Core Operations
//
//  1. [ListEngine.Collect] : fetch every list of an owner, then fetch each list's tasks
//     concurrently through a bounded worker pool throttled by a [rate.Limiter]
//  2. [ListEngine.Export] : Collect, then write the result with the formatter package
//
// A list whose tasks cannot be fetched is reported in [CollectResult.Failed] and exported
// without tasks; it does not abort the run.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on a caller-owned channel. Sends use select with
// default, so a slow or absent reader never blocks the engine.
package engine
