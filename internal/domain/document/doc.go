// Package document manages ingested documents: detection and text
// extraction, chunk planning, the compressed payload store, and the
// job/event payload shapes consumed by the async pipeline.
package document
