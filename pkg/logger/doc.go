// Package logger builds configured *slog.Logger instances.
//
// Output format and level are driven by configuration (LOG_FORMAT,
// LOG_LEVEL) with functional options for programmatic overrides. JSON
// format targets log aggregation in production; text format is for
// development.
package logger
