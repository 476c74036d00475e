package objectstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"interviewer/internal/config"
	"interviewer/internal/logging"
)

// ErrNotFound reports that no object exists at the requested key.
var ErrNotFound = errors.New("object not found")

// Client stores and retrieves JSON documents by key.
type Client interface {
	// PutJSON marshals value and writes it at key, replacing any
	// existing object.
	PutJSON(ctx context.Context, key string, value any) error
	// GetJSON reads the object at key and unmarshals it into out.
	// Returns ErrNotFound when the key does not exist.
	GetJSON(ctx context.Context, key string, out any) error
	// Exists reports whether an object is present at key.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the keys under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes the object at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object under prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Health reports backend reachability.
	Health(ctx context.Context) Health
}

// Health describes the state of a storage backend.
type Health struct {
	Backend   string `json:"backend"`
	Healthy   bool   `json:"healthy"`
	Detail    string `json:"detail,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
}

// New builds the storage client for the given configuration. With a MinIO
// endpoint configured it returns the bucket client wrapped with the local
// fallback; otherwise it returns the local backend alone.
func New(cfg *config.Config, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "objectstore")

	local, err := newLocalStore(cfg.Storage.LocalDir)
	if err != nil {
		return nil, fmt.Errorf("local object store: %w", err)
	}

	if cfg.Storage.Endpoint == "" {
		logger.Info("object storage in local mode", logging.String("dir", cfg.Storage.LocalDir))
		return local, nil
	}

	primary, err := newMinioStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("minio object store: %w", err)
	}
	logger.Info("object storage using bucket",
		logging.String("endpoint", cfg.Storage.Endpoint),
		logging.String("bucket", cfg.Storage.Bucket))
	return NewFallback(primary, local, logger), nil
}
