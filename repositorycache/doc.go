// Package repositorycache keeps the pokemon cache consistent with the store and
// implements the request level rules on top of both.
//
// # Overview
//
// CachedRepository decorates a pokemon.Gateway. Reads (List, Get) are answered from
// the cache. Writes (Create, Update, Delete) go to the store and are followed by a
// full reload of the cache through the Reconciler:
//
//	c := cache.New()
//	repo := repositorycache.New(gateway, c, repositorycache.WithLogger(logger))
//	if err := repo.Refresh(ctx); err != nil {
//		return err
//	}
//	created, err := repo.Create(ctx, 7, pokemon.Fields{Name: "Bulbasaur"})
//
// # Reconciliation
//
// There is no incremental merge. After a successful write the whole table is read
// and swapped into the cache. Between the write and the reload the cache may
// briefly differ from the store; the model is read-your-writes once the reload is
// done, not per request consistency.
//
// # Rules
//
//   - Create: the store existence check runs before the insert; an existing id is
//     a Conflict and nothing is written.
//   - Update: the cached copy changes before the store is written. A failed store
//     update returns StoreFailure but leaves the cache changed until the next reload.
//   - Delete: the store row is removed before the cached copy.
//   - Get, Update and Delete on an unknown id return NotFound and change nothing.
//
// # Error Handling
//
// Store errors are not retried. They come back as StoreFailure (or Conflict for a
// duplicate key). A LockFailure from a poisoned cache fails only the current request
// and triggers a reload, which heals the cache.
package repositorycache
