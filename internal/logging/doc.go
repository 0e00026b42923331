// Package logging wraps log/slog with the project's handler setup and
// typed attribute helpers. Console output is for interactive runs, JSON
// for log files and machine consumers. Component loggers carry a
// standardized component attribute so pipeline stages are identifiable
// in merged output.
package logging
