// Package config defines the application configuration structure and loading
// logic. Configuration comes from environment variables (DUETICK_ prefix)
// layered over an optional YAML file, and is validated before use.
package config
