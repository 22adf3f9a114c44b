// Package store provides SQLite-backed durable storage for story generation.
//
// The store holds three tables:
//   - dices: Snapshot of the catalog, replaced wholesale on reload
//   - dicing_done: Append-only log of draws, nine rows per request
//   - requests: Request/answer log, answer empty until set exactly once
//
// # Write Guarantees
//
// Every write runs in its own transaction and is committed before the
// method returns, so the next pipeline step always sees it.
//
// Row counts are enforced, not logged: a batch that writes fewer or more
// rows than required is rolled back and reported as *IntegrityError.
//
// # Database Configuration
//
//   - WAL mode: Readers never block the single writer
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Two drivers are supported: "sqlite3" (mattn/go-sqlite3, cgo) and
// "sqlite" (modernc.org/sqlite, pure Go).
package store
