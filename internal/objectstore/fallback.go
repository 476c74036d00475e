package objectstore

import (
	"context"
	"errors"
	"log/slog"

	"interviewer/internal/logging"
)

// Fallback writes through the primary backend and falls back to the local
// backend when the primary fails. Reads consult the primary first, then the
// local copy, so documents written during an outage remain reachable.
type Fallback struct {
	primary Client
	local   Client
	logger  *slog.Logger
}

// NewFallback wraps primary with the local backend as a write/read fallback.
func NewFallback(primary, local Client, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fallback{primary: primary, local: local, logger: logger}
}

func (f *Fallback) PutJSON(ctx context.Context, key string, value any) error {
	err := f.primary.PutJSON(ctx, key, value)
	if err == nil {
		return nil
	}
	f.logger.Warn("primary storage write failed, using local fallback",
		logging.String("key", key), logging.Error(err))
	return f.local.PutJSON(ctx, key, value)
}

func (f *Fallback) GetJSON(ctx context.Context, key string, out any) error {
	err := f.primary.GetJSON(ctx, key, out)
	if err == nil {
		return nil
	}
	if localErr := f.local.GetJSON(ctx, key, out); localErr == nil {
		return nil
	} else if errors.Is(err, ErrNotFound) {
		return localErr
	}
	return err
}

func (f *Fallback) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := f.primary.Exists(ctx, key)
	if err == nil && exists {
		return true, nil
	}
	localExists, localErr := f.local.Exists(ctx, key)
	if localErr == nil && localExists {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, localErr
}

func (f *Fallback) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := f.primary.List(ctx, prefix)
	if err == nil {
		return keys, nil
	}
	f.logger.Warn("primary storage list failed, using local fallback",
		logging.String("prefix", prefix), logging.Error(err))
	return f.local.List(ctx, prefix)
}

// Delete and DeletePrefix remove from both backends so a fallback copy does
// not resurrect deleted data.

func (f *Fallback) Delete(ctx context.Context, key string) error {
	err := f.primary.Delete(ctx, key)
	if localErr := f.local.Delete(ctx, key); localErr != nil && err == nil {
		err = localErr
	}
	return err
}

func (f *Fallback) DeletePrefix(ctx context.Context, prefix string) error {
	err := f.primary.DeletePrefix(ctx, prefix)
	if localErr := f.local.DeletePrefix(ctx, prefix); localErr != nil && err == nil {
		err = localErr
	}
	return err
}

func (f *Fallback) Health(ctx context.Context) Health {
	health := f.primary.Health(ctx)
	if health.Healthy {
		return health
	}
	local := f.local.Health(ctx)
	local.Fallback = true
	if health.Detail != "" {
		local.Detail = "primary unavailable: " + health.Detail
	} else {
		local.Detail = "primary unavailable"
	}
	return local
}
