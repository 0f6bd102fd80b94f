// Package logging assembles the structured slog loggers used across the
// CLI. Prefer these constructors over hand-rolled slog setup so every
// command emits log lines with the same shape and level plumbing.
package logging
