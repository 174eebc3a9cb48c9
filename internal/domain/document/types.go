package document

import (
	"time"

	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
)

// Status tracks a document through the ingestion pipeline.
type Status string

const (
	StatusPending Status = "pending"
	StatusChunked Status = "chunked"
	StatusIndexed Status = "indexed"
	StatusFailed  Status = "failed"
)

// ChunkRef points at one stored chunk of a document.
type ChunkRef struct {
	Index      int    `json:"index"`
	PayloadKey string `json:"payloadKey"`
	Tokens     int    `json:"tokens"`
}

// Document is an ingested external file: provenance, content identity
// and the chunks derived from it.
type Document struct {
	types.Envelope

	ExternalRef string     `json:"externalRef"` // source-relative identity
	Source      string     `json:"source"`      // adapter ID that produced it
	MediaType   string     `json:"mediaType"`
	Charset     string     `json:"charset,omitempty"`
	ContentHash string     `json:"contentHash"` // sha256 of raw content
	SizeBytes   int        `json:"sizeBytes"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Chunks      []ChunkRef `json:"chunks,omitempty"`
}

// ChunkJobMessage is the queue payload asking a worker to embed one
// chunk. Field names are part of the wire contract.
type ChunkJobMessage struct {
	JobID       string    `json:"jobId"`
	TenantID    string    `json:"tenantId"`
	DocumentID  string    `json:"documentId"`
	ChunkIndex  int       `json:"chunkIndex"`
	PayloadKey  string    `json:"payloadKey"`
	Model       string    `json:"model"`
	EnqueuedAt  time.Time `json:"enqueuedAt"`
	Attempt     int       `json:"attempt"`
	MaxAttempts int       `json:"maxAttempts"`
}

// IngestionEventType labels pipeline lifecycle events.
type IngestionEventType string

const (
	EventDocumentReceived IngestionEventType = "document_received"
	EventDocumentChunked  IngestionEventType = "document_chunked"
	EventDocumentIndexed  IngestionEventType = "document_indexed"
	EventDocumentFailed   IngestionEventType = "document_failed"
)

// IngestionEvent is the bus payload announcing pipeline progress.
type IngestionEvent struct {
	Type       IngestionEventType `json:"type"`
	TenantID   string             `json:"tenantId"`
	DocumentID string             `json:"documentId"`
	Source     string             `json:"source"`
	Chunks     int                `json:"chunks,omitempty"`
	Error      string             `json:"error,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}
