// Package history persists finished conversion records in SQLite so the CLI
// can show what ran, when, and how it ended.
package history
