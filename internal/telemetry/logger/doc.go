// Package logger provides structured logging for shardtab.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler setup, dynamic level, package-level default
//   - context.go: logger and request ID propagation through contexts
//   - truncate.go: clipping of oversized string attributes
//
// Interned values and benchmark keys can be arbitrarily long, so every
// string attribute is cut to Config.MaxValueLen bytes before it is written.
package logger
