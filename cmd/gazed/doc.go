// Package main is the entry point of the gazed server.
//
// gazed turns an eye tracker's gaze stream into browser interactions. Each
// open tab runs a frame loop that filters gaze samples, evaluates triggers
// and advances interaction pipelines; commands and feedback reach the page
// client over a WebSocket.
//
// Configuration:
//   - Environment variables prefixed GAZE_ (12-factor)
//   - An optional .env file, loaded first
//   - An optional device profile in TOML or YAML
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./gazed --port 8000 --profile tobii.toml
//
//	# Development mode (colored logs, debug level)
//	./gazed --dev
package main
