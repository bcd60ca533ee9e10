// Package state persists documents and per-store snapshots in SQLite.
//
// Documents keep their extracted text truncated to a fixed budget so the
// database stays small; the full text lives only in memory for the duration
// of a run. Snapshots are versioned JSON payloads keyed by store name,
// written on every mutation and rehydrated on startup.
package state
