// Package integration connects tenants to external systems: connection
// and credential configuration, sync scheduling and retry policy, an
// adapter registry with capability discovery, and the adapters
// themselves (remote HTTP, local folder).
package integration
