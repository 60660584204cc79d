package testsupport

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-pokedex/internal/storeinfra"
	"github.com/goliatone/go-pokedex/pokemon"
	"github.com/google/uuid"
)

// MemoryConfig returns a store config for a private in-memory sqlite database.
func MemoryConfig() storeinfra.Config {
	cfg := storeinfra.DefaultConfig()
	cfg.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return cfg
}

// NewMemoryGateway opens a gateway over a fresh in-memory database with the
// pokemon table created. It is closed when the test ends.
func NewMemoryGateway(t testing.TB, opts ...storeinfra.Option) *storeinfra.BunGateway {
	t.Helper()

	gw, err := storeinfra.Open(context.Background(), MemoryConfig(), opts...)
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

// Seed inserts records through gw.
func Seed(t testing.TB, gw pokemon.Gateway, records ...pokemon.Pokemon) {
	t.Helper()

	for _, p := range records {
		if err := gw.Insert(context.Background(), p); err != nil {
			t.Fatalf("failed to seed pokemon %d: %v", p.ID, err)
		}
	}
}
