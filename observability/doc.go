// Package observability provides OpenTelemetry metrics and tracing for
// apiclient.
//
// Library code records through *Metrics and the tracer returned by Tracer;
// both fall back to the global providers, which are no-ops until Init
// installs OTLP/HTTP exporters.
package observability
