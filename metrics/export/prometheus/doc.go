// Package prometheus serves goSession metrics in the Prometheus text
// exposition format.
//
// Login and verification outcomes are exported as the labeled families
// gosession_login_total{result} and gosession_verify_total{result}; the
// verification latency histogram is gosession_verify_latency_seconds.
//
// Nothing is registered globally. Callers mount [Exporter.Handler].
package prometheus
