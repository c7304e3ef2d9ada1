// Package accounts provides [toxin.AccountStore] implementations: an
// in-process [MemoryStore] and a PostgreSQL [PostgresStore] that keeps each
// account as a JSONB document.
//
// # Architecture boundaries
//
// Stores hold persisted credential values only; hashing happens in the
// engine before a record reaches them. Both stores enforce username
// uniqueness and translate backend conditions into toxin.ErrAccountNotFound
// and toxin.ErrAccountExists.
//
// # What this package must NOT do
//
//   - Hash, compare or log passwords.
//   - Trim or otherwise normalize usernames; the engine does that.
//   - Retry failed statements.
package accounts
