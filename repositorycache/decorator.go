package repositorycache

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-pokedex/cache"
	"github.com/goliatone/go-pokedex/internal/logging"
	"github.com/goliatone/go-pokedex/pokemon"
)

// DeleteConfirmation is the message returned after a successful delete.
const DeleteConfirmation = "Pokemon deleted successfully!"

// Option configures a CachedRepository.
type Option func(*CachedRepository)

// WithLogger sets the logger for the repository and its reconciler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedRepository) {
		c.logger = logging.OrNop(logger)
	}
}

// CachedRepository serves reads from the cache and sends writes to the store,
// reloading the cache after every successful write.
type CachedRepository struct {
	base       pokemon.Gateway
	cache      *cache.Cache
	reconciler *Reconciler
	logger     *slog.Logger
}

// New creates a CachedRepository over base, mirroring it into c.
func New(base pokemon.Gateway, c *cache.Cache, opts ...Option) *CachedRepository {
	repo := &CachedRepository{
		base:   base,
		cache:  c,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(repo)
	}
	repo.reconciler = NewReconciler(base, c, repo.logger)
	return repo
}

// Refresh reloads the cache from the store. It is called once at startup and
// after every successful write.
func (c *CachedRepository) Refresh(ctx context.Context) error {
	return c.reconciler.Refresh(ctx)
}

// List returns every cached record. An empty cache yields an empty slice.
func (c *CachedRepository) List(ctx context.Context) ([]pokemon.Pokemon, error) {
	records, err := c.cache.List()
	if err != nil {
		return nil, c.lockFailed(ctx, err)
	}
	return records, nil
}

// Get returns the cached record with id, or NotFound.
func (c *CachedRepository) Get(ctx context.Context, id int64) (pokemon.Pokemon, error) {
	record, ok, err := c.cache.Find(id)
	if err != nil {
		return pokemon.Pokemon{}, c.lockFailed(ctx, err)
	}
	if !ok {
		return pokemon.Pokemon{}, pokemon.NotFound(id)
	}
	return record, nil
}

// Create stores a new record under the caller supplied id.
//
// The store existence check happens before the insert; an existing id is a
// Conflict and nothing is written. The cache is updated optimistically before the
// store insert and rolled back if the insert fails.
func (c *CachedRepository) Create(ctx context.Context, id int64, fields pokemon.Fields) (pokemon.Pokemon, error) {
	if err := pokemon.ValidateID(id); err != nil {
		return pokemon.Pokemon{}, err
	}
	if err := fields.Validate(); err != nil {
		return pokemon.Pokemon{}, pokemon.InvalidInput(err)
	}

	exists, err := c.base.Exists(ctx, id)
	if err != nil {
		return pokemon.Pokemon{}, pokemon.StoreFailure("exists", err)
	}
	if exists {
		return pokemon.Pokemon{}, pokemon.Conflict(id)
	}

	record := pokemon.New(id, fields)

	inserted, err := c.cache.Insert(record)
	if err != nil {
		return pokemon.Pokemon{}, c.lockFailed(ctx, err)
	}

	if err := c.base.Insert(ctx, record); err != nil {
		if inserted {
			if _, rmErr := c.cache.Remove(id); rmErr != nil {
				c.logger.Error("failed to roll back cached create", "id", id, "error", rmErr)
			}
		}
		if pokemon.IsConflict(err) {
			// A concurrent create won the race; the rollback above may have
			// dropped its cached copy.
			c.refreshAfterWrite(ctx, "create_conflict", id)
			return pokemon.Pokemon{}, err
		}
		return pokemon.Pokemon{}, pokemon.StoreFailure("insert", err)
	}

	c.refreshAfterWrite(ctx, "create", id)
	return record, nil
}

// Update replaces name and evolutions of an existing record.
//
// The cached copy is changed before the store is written. If the store update
// fails the cache keeps the change until the next refresh; the caller still gets a
// StoreFailure.
func (c *CachedRepository) Update(ctx context.Context, id int64, fields pokemon.Fields) (pokemon.Pokemon, error) {
	if err := fields.Validate(); err != nil {
		return pokemon.Pokemon{}, pokemon.InvalidInput(err)
	}

	updated, ok, err := c.cache.UpdateInPlace(id, fields)
	if err != nil {
		return pokemon.Pokemon{}, c.lockFailed(ctx, err)
	}
	if !ok {
		return pokemon.Pokemon{}, pokemon.NotFound(id)
	}

	if err := c.base.Update(ctx, updated); err != nil {
		c.logger.Warn("store update failed, cache diverges until next refresh", "id", id, "error", err)
		return pokemon.Pokemon{}, pokemon.StoreFailure("update", err)
	}

	c.refreshAfterWrite(ctx, "update", id)
	return updated, nil
}

// Delete removes an existing record. The store row is deleted before the cached
// copy so the cache never lacks a record the store still holds.
func (c *CachedRepository) Delete(ctx context.Context, id int64) error {
	_, ok, err := c.cache.Find(id)
	if err != nil {
		return c.lockFailed(ctx, err)
	}
	if !ok {
		return pokemon.NotFound(id)
	}

	if err := c.base.Delete(ctx, id); err != nil {
		return pokemon.StoreFailure("delete", err)
	}

	if _, err := c.cache.Remove(id); err != nil {
		return c.lockFailed(ctx, err)
	}

	c.refreshAfterWrite(ctx, "delete", id)
	return nil
}

// refreshAfterWrite reloads the cache once a write has been committed. The write
// already succeeded, so a refresh failure is only logged. The reload is detached
// from request cancellation so a client hanging up cannot skip it.
func (c *CachedRepository) refreshAfterWrite(ctx context.Context, op string, id int64) {
	if err := c.reconciler.Refresh(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn("cache refresh after write failed", "op", op, "id", id, "error", err)
	}
}

// lockFailed reloads a poisoned cache so the failure stays confined to the current
// request, then returns err unchanged.
func (c *CachedRepository) lockFailed(ctx context.Context, err error) error {
	if pokemon.IsLockFailure(err) {
		c.logger.Error("cache lock failure, reloading from store", "error", err)
		if refreshErr := c.reconciler.Refresh(context.WithoutCancel(ctx)); refreshErr != nil {
			c.logger.Error("reload after lock failure failed", "error", refreshErr)
		}
	}
	return err
}
