// Package config loads, normalizes, and validates sceneforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SCENEFORGE_API_KEY. The Config type centralizes every knob the CLI needs,
// so manifest, script, and media directories and the generative-model
// credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
