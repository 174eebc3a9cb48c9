package document

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// PayloadStore persists raw chunk payloads by key.
type PayloadStore interface {
	Put(key string, payload []byte) error
	Get(key string) ([]byte, error)
	Delete(key string)
}

// MemoryPayloadStore keeps zstd-compressed payloads in process memory.
// It backs single-node deployments and tests; a blob-store
// implementation satisfies the same interface in production.
type MemoryPayloadStore struct {
	payloads sync.Map // key -> []byte (compressed)
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// NewMemoryPayloadStore creates the store. Encoder and decoder are
// shared across calls; EncodeAll/DecodeAll are safe for concurrent use.
func NewMemoryPayloadStore() (*MemoryPayloadStore, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &MemoryPayloadStore{encoder: enc, decoder: dec}, nil
}

// Put compresses and stores a payload.
func (s *MemoryPayloadStore) Put(key string, payload []byte) error {
	s.payloads.Store(key, s.encoder.EncodeAll(payload, nil))
	return nil
}

// Get decompresses and returns a payload.
func (s *MemoryPayloadStore) Get(key string) ([]byte, error) {
	val, ok := s.payloads.Load(key)
	if !ok {
		return nil, fmt.Errorf("payload not found: %s", key)
	}
	data, err := s.decoder.DecodeAll(val.([]byte), nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing payload %s: %w", key, err)
	}
	return data, nil
}

// Delete removes a payload.
func (s *MemoryPayloadStore) Delete(key string) {
	s.payloads.Delete(key)
}
