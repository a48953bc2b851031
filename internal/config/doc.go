// Package config loads, normalizes, and validates the TOML configuration
// driving the aligner: engine parameters, matcher settings, batch driver
// options, and logging.
package config
