// Package config loads client configuration from defaults, an optional JSON
// file and command-line flags, in that order of precedence.
package config
