package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// SourceDocument is one file discovered by an adapter, handed to the
// ingestion pipeline.
type SourceDocument struct {
	ExternalRef string `json:"externalRef"` // path relative to the sync root
	Source      string `json:"source"`      // adapter ID
	MediaType   string `json:"mediaType"`
	Content     []byte `json:"-"`
}

// DocumentSink receives discovered documents. The document package's
// ingestor implements it.
type DocumentSink interface {
	Ingest(ctx context.Context, tenantID string, doc SourceDocument) error
}

const localFolderAdapterID = "local_folder"

// maxLocalFileBytes bounds what the adapter will read into memory.
const maxLocalFileBytes = 32 << 20

// LocalFolderAdapter syncs documents from a directory tree on the
// server's filesystem. The connection's BaseURL names the root
// directory; sync include/exclude globs filter relative paths.
type LocalFolderAdapter struct {
	sink   DocumentSink
	logger *logging.Logger
}

// NewLocalFolderAdapter wires the adapter to a document sink.
func NewLocalFolderAdapter(sink DocumentSink, logger *logging.Logger) *LocalFolderAdapter {
	return &LocalFolderAdapter{
		sink:   sink,
		logger: logger.Named("local-folder"),
	}
}

// Definition implements Adapter.
func (a *LocalFolderAdapter) Definition() Definition {
	return Definition{
		ID:          localFolderAdapterID,
		Name:        "Local Folder",
		Kind:        KindStorage,
		Description: "Ingest documents from a directory on the server filesystem",
		Capabilities: []string{
			"file_discovery",
			"content_ingestion",
			"glob_filtering",
		},
		Actions: []string{"sync", "probe"},
	}
}

// Execute implements Adapter.
func (a *LocalFolderAdapter) Execute(ctx context.Context, action string, conn *Connection, params map[string]interface{}) (*Result, error) {
	switch action {
	case "sync":
		count, err := a.sync(ctx, conn)
		if err != nil {
			return &Result{Success: false, Error: err.Error()}, err
		}
		return &Result{Success: true, Data: map[string]interface{}{"documents": count}}, nil
	case "probe":
		if _, err := os.Stat(conn.BaseURL); err != nil {
			return &Result{Success: false, Error: err.Error()}, err
		}
		return &Result{Success: true}, nil
	default:
		err := fmt.Errorf("unknown action %q", action)
		return &Result{Success: false, Error: err.Error()}, err
	}
}

func (a *LocalFolderAdapter) sync(ctx context.Context, conn *Connection) (int, error) {
	root := conn.BaseURL
	if root == "" {
		return 0, fmt.Errorf("connection %s has no root directory", conn.Name)
	}

	count := 0
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !conn.Sync.Matches(rel) {
			return nil
		}

		if info, err := d.Info(); err != nil || info.Size() > maxLocalFileBytes {
			if err == nil {
				a.logger.Warn("skipping oversized file",
					zap.String("path", rel),
					zap.Int64("size", info.Size()),
				)
			}
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			a.logger.Warn("skipping unreadable file", zap.String("path", rel), zap.Error(err))
			return nil
		}

		doc := SourceDocument{
			ExternalRef: rel,
			Source:      localFolderAdapterID,
			MediaType:   mimetype.Detect(content).String(),
			Content:     content,
		}
		if err := a.sink.Ingest(ctx, conn.TenantID, doc); err != nil {
			a.logger.Warn("ingest failed", zap.String("path", rel), zap.Error(err))
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("walking %s: %w", root, err)
	}
	return count, nil
}
