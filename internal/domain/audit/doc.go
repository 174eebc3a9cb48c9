// Package audit records security and lifecycle events. Entries keep a
// bounded in-memory window for the query API, mirror to the structured
// log for durability, and fan out to subscribers for live streaming.
package audit
