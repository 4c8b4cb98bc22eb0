// Package store provides SQLite-backed storage for game statistics.
//
// Two tables are kept:
//   - games: one row per hosted game (start, end, conclusion, modifiers)
//   - game_players: one row per seat (name, final role, alive, won)
//
// # Idempotency
//
// The engine reports games from background goroutines and may report the
// same game twice, or report its end before its start. Every write is an
// upsert keyed by game id (and seat index), and a finished game's outcome
// is never overwritten by a later start report.
//
// # Deterministic Reads
//
// Every query orders its rows explicitly (started_at, id / idx / role) so
// that listings are stable across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: Seats are deleted with their game
//   - PRAGMA user_version: Schema migrations
package store
