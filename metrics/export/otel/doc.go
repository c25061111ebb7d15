// Package otel publishes goSession metrics through OpenTelemetry observable
// instruments.
//
// Each counter family becomes one Int64ObservableCounter whose members carry
// a "result" attribute. The latency histogram is published as one
// Int64ObservableGauge per cumulative bucket plus a count gauge. A single
// callback reads the engine snapshot on every collection.
//
// Callers own the MeterProvider and pass in a Meter.
package otel
