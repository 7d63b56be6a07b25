// Package cli parses the command line and runs commands against the store.
package cli

import (
	"context"

	"taskcal/internal/config"
	"taskcal/internal/repo"
	"taskcal/internal/service"
	"taskcal/internal/storage"
)

// OpenStore is the ServiceFactory used by the binary. It opens the backend
// named in the settings and wraps it in a repo.Store, which the dispatcher
// closes after the command.
func OpenStore(ctx context.Context, cfg *config.Config) (service.Service, error) {
	p, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, err
	}
	store := repo.NewStore(p)
	store.CascadeListDelete = cfg.Settings.CascadeListDelete
	cfg.Log().Debug("store opened", "backend", cfg.Settings.Backend, "cascade", store.CascadeListDelete)
	return store, nil
}
