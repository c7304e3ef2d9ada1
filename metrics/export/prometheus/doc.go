// Package prometheus exposes engine counters and latency histograms as a
// client_golang collector.
//
// Counters are named toxin_*_total. SignIn and Resolve latencies are
// toxin_sign_in_latency_seconds and toxin_resolve_latency_seconds.
//
// # What this package must NOT do
//
//   - Register into the global default registry; callers pass a registry or
//     mount [Exporter.Handler].
//   - Mutate engine state.
package prometheus
