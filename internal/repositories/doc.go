// Package repositories implements SQLite persistence for the local client state.
//
// Lists and tasks live in a backend (remote or demo); the only thing stored locally is who is signed in.
//
// Key Implementations:
//   - [SessionRepository] : signed-in sessions with soft deletes, used for login/logout/status
//
// Sequence numbers give rows a stable, human-readable order independent of UUIDs and timestamps.
// [NextSequence] atomically increments the per-table counter kept in a `<table>_sequence` table.
package repositories
