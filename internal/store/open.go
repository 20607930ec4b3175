package store

import (
	"context"
	"fmt"
	"log/slog"

	"ltask/internal/config"
)

// Open constructs the store selected by cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	backend := cfg.StoreBackend()
	if logger != nil {
		logger.Debug("opening store", "backend", backend, "path", cfg.StorePath())
	}

	switch backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.StorePath())
	case config.BackendBadger:
		bc := DefaultBadgerConfig(cfg.StorePath())
		if logger != nil {
			bc.Logger = logger.With("component", "badger")
		}
		return OpenBadger(bc)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
