// Package tracing wraps OpenTelemetry so that the runner and executors can
// open spans per flow run and per task without importing the SDK directly.
// Nothing is traced until Init or InitWithExporter installs a provider.
package tracing
