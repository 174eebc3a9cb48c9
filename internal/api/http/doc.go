// Package http exposes the REST surface: one handler file per domain,
// tenant scoping via the X-Tenant-ID header, and consistent error JSON
// carrying machine-readable codes where the domain provides them.
package http
