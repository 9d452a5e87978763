// Package config loads, normalizes, and validates beacon-dl configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BEACON_COOKIE_FILE. The Config type centralizes every knob the CLI needs,
// so download/staging directories, naming options, and catalog settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical naming options, and clear validation errors.
package config
