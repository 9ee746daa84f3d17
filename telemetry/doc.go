// Package telemetry instruments runs with OpenTelemetry metrics and spans
// and writes append-only audit trails.
//
// Telemetry wraps a meter and tracer behind recording helpers for model and
// tool calls. Providers are injected, so exporting is whatever the host
// application configured; the defaults are the global (no-op) providers.
// AuditLogger appends one JSON object per line to a file or writer for
// offline inspection of run events.
package telemetry
