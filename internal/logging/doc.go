// Package logging assembles the structured slog loggers used across
// interviewer components.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes small attribute helpers so handlers, services,
// and clients tag log lines consistently. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
