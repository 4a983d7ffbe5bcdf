// Package instrumentation provides OpenTelemetry-based metrics and
// tracing for the dashboard.
//
// A Provider owns the meter and tracer lifecycle for the whole process.
// Metrics default to the Prometheus exporter, scraped from the dedicated
// metrics listener; OTLP and stdout exporters are available for
// collector-based setups and local debugging. Tracing is disabled by
// default.
//
// The Metrics recorder covers HTTP requests, Google API operations and
// credential-resolution attempts. A zero-value Metrics is a safe no-op,
// so components can record unconditionally.
package instrumentation
