// Package toxin provides opaque session-token authentication over a
// pluggable account store and a Redis session store.
//
// A successful [Engine.SignIn] issues a 32-character alphanumeric token and
// stores a snapshot of the account under "auth:<token>". [Engine.Resolve]
// turns a presented token back into an [Identity]; the middleware package
// builds the request gate on top of it. Engine methods are safe to call from
// multiple goroutines after [Builder.Build].
//
// # Architecture boundaries
//
// toxin is the public surface. It exposes [Engine], [Builder], [Config], the
// [AccountStore] contract and value types. Token generation, audit dispatch
// and Redis key layout live in internal/ and session/ and are never exposed
// through Engine.
//
// # What this package must NOT do
//
//   - Reveal whether a username exists: unknown user and wrong password both
//     yield [ErrInvalidCredentials].
//   - Report a store outage as an authentication failure.
//   - Return a token whose session write failed.
//   - Import net/http; HTTP concerns belong to the middleware and api packages.
package toxin
