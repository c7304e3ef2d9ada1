// Package middleware provides the HTTP adapters around toxin.Engine: the
// session [Gate], request correlation ([RequestID]) and structured access
// logging ([AccessLog]).
//
// # Gate
//
// [Gate] reads the Authorization header, hands the token to Engine.Resolve
// and attaches the resolved identity with toxin.WithIdentity. A missing or
// unknown token yields 401 UNAUTHENTICATED; a session store outage yields
// 503 STORE_UNAVAILABLE.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. Authentication
// decisions are delegated to Engine.Resolve.
//
// # What this package must NOT do
//
//   - Access Redis or the account store directly.
//   - Log token values or Authorization headers.
//   - Report a store outage as 401.
package middleware
