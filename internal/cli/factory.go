package cli

import (
	"context"
	"fmt"
	"log/slog"

	"ltask/internal/config"
	"ltask/internal/registry"
	"ltask/internal/service"
	"ltask/internal/store"
)

// DefaultFactory opens the store selected by cfg and loads it into a registry.
func DefaultFactory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, func() error, error) {
	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s store: %w", service.ErrStorageFailure, cfg.StoreBackend(), err)
	}

	reg := registry.New(s, registry.WithLogger(logger))
	if err := reg.Initialize(ctx); err != nil {
		s.Close()
		return nil, nil, err
	}
	return reg, reg.Close, nil
}
