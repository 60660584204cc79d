package cache

import (
	"sync"

	"github.com/goliatone/go-pokedex/pokemon"
)

// Cache is the in-process mirror of the pokemon table.
//
// Records are kept in an ordered slice behind a single mutex. Every method holds
// the lock only for the in-memory operation and hands out copies, so no caller
// ever touches the backing slice. Store calls are never made under the lock.
type Cache struct {
	mu       sync.Mutex
	records  []pokemon.Pokemon
	applied  uint64 // generation of the last ReplaceAllAt that was applied
	poisoned bool
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{records: []pokemon.Pokemon{}}
}

// ReplaceAll clears the cache and loads records, dropping any without an id.
// A successful replace heals a poisoned cache.
func (c *Cache) ReplaceAll(records []pokemon.Pokemon) error {
	return c.replace("replace_all", func() bool {
		c.records = sanitize(records)
		return true
	})
}

// ReplaceAllAt behaves like ReplaceAll but only applies when gen is newer than the
// generation of the last applied load. It reports whether the records were applied.
func (c *Cache) ReplaceAllAt(gen uint64, records []pokemon.Pokemon) (bool, error) {
	applied := false
	err := c.replace("replace_all", func() bool {
		if gen <= c.applied {
			return false
		}
		c.records = sanitize(records)
		c.applied = gen
		applied = true
		return true
	})
	return applied, err
}

// List returns a snapshot of the current contents in order.
func (c *Cache) List() ([]pokemon.Pokemon, error) {
	var out []pokemon.Pokemon
	err := c.guard("list", func() {
		out = make([]pokemon.Pokemon, len(c.records))
		for i, p := range c.records {
			out[i] = p.Clone()
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns the first record matching id.
func (c *Cache) Find(id int64) (pokemon.Pokemon, bool, error) {
	var (
		found pokemon.Pokemon
		ok    bool
	)
	err := c.guard("find", func() {
		if i := c.indexOf(id); i >= 0 {
			found, ok = c.records[i].Clone(), true
		}
	})
	return found, ok, err
}

// Insert appends record. The business duplicate check belongs to the caller; a
// record whose id is already cached is not appended and Insert reports false, so
// ids stay unique in the cache even when two creates race.
func (c *Cache) Insert(record pokemon.Pokemon) (bool, error) {
	inserted := false
	err := c.guard("insert", func() {
		if record.ID <= 0 || c.indexOf(record.ID) >= 0 {
			return
		}
		c.records = append(c.records, record.Clone())
		inserted = true
	})
	return inserted, err
}

// UpdateInPlace replaces name and evolutions of the record matching id and
// returns the updated copy. It is a no-op reporting false when id is absent.
func (c *Cache) UpdateInPlace(id int64, fields pokemon.Fields) (pokemon.Pokemon, bool, error) {
	var (
		updated pokemon.Pokemon
		ok      bool
	)
	err := c.guard("update_in_place", func() {
		i := c.indexOf(id)
		if i < 0 {
			return
		}
		c.records[i].Apply(fields)
		updated, ok = c.records[i].Clone(), true
	})
	return updated, ok, err
}

// Remove deletes the record matching id and reports whether one was present.
func (c *Cache) Remove(id int64) (bool, error) {
	removed := false
	err := c.guard("remove", func() {
		i := c.indexOf(id)
		if i < 0 {
			return
		}
		c.records = append(c.records[:i], c.records[i+1:]...)
		removed = true
	})
	return removed, err
}

// Len returns the number of cached records.
func (c *Cache) Len() (int, error) {
	n := 0
	err := c.guard("len", func() {
		n = len(c.records)
	})
	return n, err
}

// Poison marks the cache as broken through the same path a panicking critical
// section takes. Every later call returns LockFailure until the next applied full
// replace.
func (c *Cache) Poison(reason string) {
	_ = c.guard("poison", func() { panic(reason) })
}

// guard runs fn under the lock. A panic inside fn poisons the cache: the panic is
// recovered and this and every later guarded call report LockFailure until the
// next successful replace.
func (c *Cache) guard(op string, fn func()) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return pokemon.LockFailure(op)
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			err = pokemon.LockFailure(op)
		}
	}()

	fn()
	return nil
}

// replace is guard for full loads: it ignores an existing poison and clears it
// when fn reports that it swapped in a fresh collection.
func (c *Cache) replace(op string, fn func() bool) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			err = pokemon.LockFailure(op)
		}
	}()

	if fn() {
		c.poisoned = false
	}
	return nil
}

func (c *Cache) indexOf(id int64) int {
	for i := range c.records {
		if c.records[i].ID == id {
			return i
		}
	}
	return -1
}

// sanitize copies records, dropping rows without an id and repeated ids.
func sanitize(records []pokemon.Pokemon) []pokemon.Pokemon {
	out := make([]pokemon.Pokemon, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, p := range records {
		if p.ID <= 0 {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p.Clone())
	}
	return out
}
