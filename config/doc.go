// Package config loads chunkscribe configuration.
//
// Values come from, in rising precedence: defaults applied by each
// component's ApplyDefaults, a YAML file (config.yml found next to the binary
// sources or given explicitly), a .env file, and the process environment.
// Environment variables map onto keys by underscores, so
// TRANSCRIPTION_API_KEY sets transcription.api_key and SERVER_PORT sets
// server.port. Only keys the target struct declares are bound.
package config
