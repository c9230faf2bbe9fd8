// Package config loads and validates the TOML configuration for shownotes.
//
// Load applies the embedded defaults first, overlays the config file when one
// exists, then normalizes paths and validates the result. Missing files are
// not an error; the defaults produce a working single-user setup.
package config
