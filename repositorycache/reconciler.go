package repositorycache

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/goliatone/go-pokedex/cache"
	"github.com/goliatone/go-pokedex/internal/logging"
	"github.com/goliatone/go-pokedex/pokemon"
)

// Reconciler reloads the whole cache from the store.
//
// Each Refresh takes a generation number before it reads the store; the cache only
// accepts a load whose generation is newer than the last one applied, so concurrent
// refreshes cannot leave the cache older than the newest completed read.
type Reconciler struct {
	gateway pokemon.Gateway
	cache   *cache.Cache
	logger  *slog.Logger
	issued  atomic.Uint64
}

// NewReconciler creates a reconciler that loads gateway contents into c.
func NewReconciler(gateway pokemon.Gateway, c *cache.Cache, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		gateway: gateway,
		cache:   c,
		logger:  logging.OrNop(logger),
	}
}

// Refresh fetches every record and replaces the cache contents with them.
// On a store error the cache is left untouched and a StoreFailure is returned.
func (r *Reconciler) Refresh(ctx context.Context) error {
	gen := r.issued.Add(1)

	records, err := r.gateway.FetchAll(ctx)
	if err != nil {
		r.logger.Error("cache refresh failed", "generation", gen, "error", err)
		return pokemon.StoreFailure("fetch_all", err)
	}

	for _, p := range records {
		if p.ID <= 0 {
			r.logger.Warn("skipping stored record without id", "name", p.Name)
		}
	}

	applied, err := r.cache.ReplaceAllAt(gen, records)
	if err != nil {
		r.logger.Error("cache replace failed", "generation", gen, "error", err)
		return err
	}

	if !applied {
		r.logger.Debug("discarded stale cache refresh", "generation", gen)
		return nil
	}

	r.logger.Debug("cache refreshed", "generation", gen, "records", len(records))
	return nil
}
