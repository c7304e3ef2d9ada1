// Package internal contains helpers private to toxin, currently opaque
// token generation.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher and Sink implementations)
//   - server: configuration, logging and process wiring for toxin-server
//
// # What this package must NOT do
//
//   - Export types that appear in the public toxin API.
package internal
