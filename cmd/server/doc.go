// Package main is the entry point for the Castiel platform server.
//
// The server exposes:
//   - REST API for shards, dashboards, context assembly, integrations,
//     documents, audit queries, the model registry and auth
//   - WebSocket streaming of audit and ingestion events
//   - Prometheus metrics and a health endpoint
//
// Configuration comes from environment variables, or from a TOML file
// when CASTIEL_CONFIG_FILE is set.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
