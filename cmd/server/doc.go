// Package main is the entry point for the webstack playground server.
//
// The server hosts two features behind a Gin REST API:
//   - A spider endpoint that crawls a page and traces its outbound
//     https links, optionally one level deeper.
//   - A browser control panel: start and stop a single managed browser
//     session with device presets, breakpoints, and window geometry.
//
// Diagnostics for both features stream over a WebSocket channel, and
// Prometheus metrics are exposed on /metrics.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8080
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
