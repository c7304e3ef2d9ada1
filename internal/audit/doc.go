// Package audit implements async event dispatching for authentication outcomes.
//
// # Components
//
//   - [Sink]: event consumers (channel, JSON writer, logrus, no-op).
//   - [Dispatcher]: buffered async relay that either drops or blocks when full.
//   - [Event]: one structured audit record.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; the Engine does.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import toxin or any sibling internal package.
//   - Carry credential values (passwords, tokens) in events.
package audit
