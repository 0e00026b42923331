// Package config loads, normalizes, and validates the TOML configuration
// for podcast builds. Defaults, normalization, and validation are kept in
// separate files so each concern stays reviewable on its own.
package config
