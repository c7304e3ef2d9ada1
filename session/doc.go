// Package session provides Redis-backed persistence for opaque session tokens.
//
// # Key layout
//
// Each session is a single string key "<prefix>:<token>" (default prefix "auth")
// whose value is the JSON-encoded identity [Snapshot] captured at sign-in. No
// secondary indexes or counters are maintained; lifetime is whatever TTL the
// store was configured with, or none.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Snapshot] model. It does NOT
// verify credentials, generate tokens, or decide HTTP status codes; the Engine and the
// middleware do.
//
// # What this package must NOT do
//
//   - Import toxin, middleware, or api (no upward imports).
//   - Distinguish "absent" from "undecodable" to callers: both are [ErrSessionNotFound].
//   - Retry on anything other than backend failures.
package session
