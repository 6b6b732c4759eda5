// Package config loads and validates the TOML configuration file. Loading
// always succeeds without a file on disk; defaults cover every field.
package config
