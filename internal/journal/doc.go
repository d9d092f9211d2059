// Package journal provides optional SQLite-backed storage for harness runs.
//
// Each run is one row in runs plus its ordered stage transitions in
// stage_events. The harness only writes; the history command reads.
//
// # Ordering
//
// Stage events are ordered by seq, the harness's logical clock, never by
// wall time. Runs are listed in insertion order.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// The journal never influences a run's outcome. Concurrent harness
// invocations may share one journal file; they may not share a work dir.
package journal
