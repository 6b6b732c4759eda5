// Package logging builds slog loggers with the console and JSON handlers
// used across the tool, plus small attribute helpers.
package logging
