package document

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/saintfish/chardet"

	"github.com/Edgame2/castiel2-sub001/internal/domain/assembly"
	"github.com/Edgame2/castiel2-sub001/internal/domain/integration"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"github.com/Edgame2/castiel2-sub001/internal/shared/utils"
	"go.uber.org/zap"
)

// EventHandler receives ingestion lifecycle events.
type EventHandler func(IngestionEvent)

// Ingestor turns source documents into chunked, stored documents ready
// for embedding. It implements integration.DocumentSink.
type Ingestor struct {
	documents sync.Map // "tenant/id" -> *Document
	store     PayloadStore
	config    assembly.VectorizationConfig
	maxBytes  int
	hasher    *utils.Hasher
	logger    *logging.Logger

	mu       sync.RWMutex
	handlers []EventHandler
}

var _ integration.DocumentSink = (*Ingestor)(nil)

// NewIngestor creates an ingestor writing payloads to store and
// planning chunks per cfg. maxBytes bounds accepted document size;
// zero means no limit.
func NewIngestor(store PayloadStore, cfg assembly.VectorizationConfig, maxBytes int, logger *logging.Logger) (*Ingestor, error) {
	if errs := assembly.ValidateVectorizationConfig(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid vectorization config: %s", strings.Join(errs, "; "))
	}
	return &Ingestor{
		store:    store,
		config:   cfg,
		maxBytes: maxBytes,
		hasher:   utils.DefaultHasher(),
		logger:   logger.Named("ingestor"),
	}, nil
}

// Subscribe registers a handler for ingestion events.
func (in *Ingestor) Subscribe(h EventHandler) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.handlers = append(in.handlers, h)
}

func (in *Ingestor) publish(event IngestionEvent) {
	in.mu.RLock()
	handlers := in.handlers
	in.mu.RUnlock()
	for _, h := range handlers {
		h(event)
	}
}

// Ingest accepts one source document: detects type and charset,
// extracts text, plans and stores chunks, and records the document.
// Re-ingesting unchanged content is a no-op.
func (in *Ingestor) Ingest(ctx context.Context, tenantID string, src integration.SourceDocument) error {
	if in.maxBytes > 0 && len(src.Content) > in.maxBytes {
		return fmt.Errorf("document %s exceeds size limit (%d > %d bytes)",
			src.ExternalRef, len(src.Content), in.maxBytes)
	}

	contentHash := in.hasher.Hash(src.Content)
	if existing := in.findByRef(tenantID, src.Source, src.ExternalRef); existing != nil {
		if existing.ContentHash == contentHash {
			return nil
		}
		in.dropChunks(existing)
	}

	doc := &Document{
		Envelope:    types.NewEnvelope(tenantID),
		ExternalRef: src.ExternalRef,
		Source:      src.Source,
		MediaType:   src.MediaType,
		ContentHash: contentHash,
		SizeBytes:   len(src.Content),
		Status:      StatusPending,
	}
	if doc.MediaType == "" {
		doc.MediaType = mimetype.Detect(src.Content).String()
	}
	in.publish(IngestionEvent{
		Type:       EventDocumentReceived,
		TenantID:   tenantID,
		DocumentID: doc.ID,
		Source:     doc.Source,
		OccurredAt: time.Now().UTC(),
	})

	text, err := in.extract(src.Content, doc)
	if err != nil {
		doc.Status = StatusFailed
		doc.Error = err.Error()
		in.documents.Store(docKey(tenantID, doc.ID), doc)
		in.publish(IngestionEvent{
			Type:       EventDocumentFailed,
			TenantID:   tenantID,
			DocumentID: doc.ID,
			Source:     doc.Source,
			Error:      doc.Error,
			OccurredAt: time.Now().UTC(),
		})
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	chunks := PlanChunks(text, in.config)
	doc.Chunks = make([]ChunkRef, 0, len(chunks))
	for i, chunk := range chunks {
		key := fmt.Sprintf("chunk:%s:%s:%d", tenantID, doc.ID, i)
		if err := in.store.Put(key, []byte(chunk)); err != nil {
			doc.Status = StatusFailed
			doc.Error = err.Error()
			in.documents.Store(docKey(tenantID, doc.ID), doc)
			return fmt.Errorf("storing chunk %d of %s: %w", i, doc.ExternalRef, err)
		}
		doc.Chunks = append(doc.Chunks, ChunkRef{
			Index:      i,
			PayloadKey: key,
			Tokens:     assembly.EstimateTokens(chunk),
		})
	}
	doc.Status = StatusChunked
	doc.Touch()
	in.documents.Store(docKey(tenantID, doc.ID), doc)

	in.logger.Debug("document chunked",
		zap.String("tenant_id", tenantID),
		zap.String("document_id", doc.ID),
		zap.String("external_ref", doc.ExternalRef),
		zap.Int("chunks", len(doc.Chunks)),
	)
	in.publish(IngestionEvent{
		Type:       EventDocumentChunked,
		TenantID:   tenantID,
		DocumentID: doc.ID,
		Source:     doc.Source,
		Chunks:     len(doc.Chunks),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (in *Ingestor) extract(content []byte, doc *Document) (string, error) {
	if det, err := chardet.NewTextDetector().DetectBest(content); err == nil {
		doc.Charset = det.Charset
	}

	format := assembly.SourceText
	if strings.HasPrefix(doc.MediaType, "text/html") {
		format = assembly.SourceHTML
	}
	text, err := assembly.ExtractText(string(content), format)
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", doc.ExternalRef, err)
	}
	return text, nil
}

// ChunkJobs builds the queue messages for a chunked document.
func (in *Ingestor) ChunkJobs(tenantID, documentID string, maxAttempts int) ([]ChunkJobMessage, error) {
	doc, err := in.Get(tenantID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != StatusChunked {
		return nil, fmt.Errorf("document %s is %s, not chunked", documentID, doc.Status)
	}

	now := time.Now().UTC()
	jobs := make([]ChunkJobMessage, 0, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		jobs = append(jobs, ChunkJobMessage{
			JobID:       uuid.NewString(),
			TenantID:    tenantID,
			DocumentID:  documentID,
			ChunkIndex:  chunk.Index,
			PayloadKey:  chunk.PayloadKey,
			Model:       string(in.config.Model),
			EnqueuedAt:  now,
			Attempt:     1,
			MaxAttempts: maxAttempts,
		})
	}
	return jobs, nil
}

// MarkIndexed transitions a document to indexed once all its chunks
// are embedded, emitting the terminal pipeline event.
func (in *Ingestor) MarkIndexed(tenantID, documentID string) error {
	doc, err := in.Get(tenantID, documentID)
	if err != nil {
		return err
	}
	if doc.Status != StatusChunked {
		return fmt.Errorf("document %s is %s, not chunked", documentID, doc.Status)
	}
	// Replace rather than mutate: concurrent readers hold the old record.
	indexed := *doc
	indexed.Status = StatusIndexed
	indexed.Touch()
	in.documents.Store(docKey(tenantID, documentID), &indexed)
	in.publish(IngestionEvent{
		Type:       EventDocumentIndexed,
		TenantID:   tenantID,
		DocumentID: documentID,
		Source:     doc.Source,
		Chunks:     len(doc.Chunks),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// Get retrieves a document.
func (in *Ingestor) Get(tenantID, id string) (*Document, error) {
	val, ok := in.documents.Load(docKey(tenantID, id))
	if !ok {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	return val.(*Document), nil
}

// List returns a tenant's documents.
func (in *Ingestor) List(tenantID string) []*Document {
	var out []*Document
	prefix := tenantID + "/"
	in.documents.Range(func(key, value interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			out = append(out, value.(*Document))
		}
		return true
	})
	return out
}

// Delete removes a document and its stored chunks.
func (in *Ingestor) Delete(tenantID, id string) error {
	doc, err := in.Get(tenantID, id)
	if err != nil {
		return err
	}
	in.dropChunks(doc)
	in.documents.Delete(docKey(tenantID, id))
	return nil
}

// Chunk returns the stored text of one chunk.
func (in *Ingestor) Chunk(tenantID, documentID string, index int) (string, error) {
	doc, err := in.Get(tenantID, documentID)
	if err != nil {
		return "", err
	}
	for _, chunk := range doc.Chunks {
		if chunk.Index == index {
			data, err := in.store.Get(chunk.PayloadKey)
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}
	return "", fmt.Errorf("chunk %d not found in document %s", index, documentID)
}

func (in *Ingestor) findByRef(tenantID, source, externalRef string) *Document {
	var found *Document
	prefix := tenantID + "/"
	in.documents.Range(func(key, value interface{}) bool {
		if !strings.HasPrefix(key.(string), prefix) {
			return true
		}
		doc := value.(*Document)
		if doc.Source == source && doc.ExternalRef == externalRef {
			found = doc
			return false
		}
		return true
	})
	return found
}

func (in *Ingestor) dropChunks(doc *Document) {
	for _, chunk := range doc.Chunks {
		in.store.Delete(chunk.PayloadKey)
	}
	in.documents.Delete(docKey(doc.TenantID, doc.ID))
}

func docKey(tenantID, id string) string {
	return tenantID + "/" + id
}
