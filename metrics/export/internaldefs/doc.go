// Package internaldefs holds the metric names, labels and histogram bounds
// shared by the Prometheus and OTel exporters, so both publish identical
// series.
//
// It performs no I/O and does not import any exporter package.
package internaldefs
