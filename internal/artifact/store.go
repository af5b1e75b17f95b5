// Package artifact downloads the trained model files from a bucket, checks
// them and assembles them into a servable Bundle.
package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/jobmate-ml-api/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// BlobStore fetches whole objects from one bucket by path.
type BlobStore interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Close() error
}

// NewBlobStore builds the store selected by cfg.Backend.
func NewBlobStore(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Backend {
	case config.StoreGCS:
		return NewGCSStore(ctx, cfg.Bucket)
	case config.StoreHTTP:
		return NewHTTPStore(cfg.BaseURL, cfg.Bucket, cfg.Timeout, cfg.Retries), nil
	case config.StoreFile:
		return NewFileStore(cfg.Dir, cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown artifact store %q", cfg.Backend)
	}
}
