// Package config loads, normalizes, and validates papercast's TOML
// configuration.
//
// Load resolves the config path (explicit flag, then the default user
// location, then a project-local papercast.toml), merges the file over
// repository defaults, expands ~ in all path fields, and rejects values the
// pipeline cannot run with. All consumers receive fully-resolved absolute
// paths.
package config
