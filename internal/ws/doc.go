// Package ws streams audit and ingestion events to WebSocket clients.
package ws
