// Package otel binds engine metrics to an OpenTelemetry Meter.
//
// [NewExporter] registers one Int64ObservableCounter per engine counter and,
// per latency histogram, a bucket gauge carrying an "le" attribute plus a
// count gauge. A single callback reads [toxin.Engine.MetricsSnapshot] on each
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
