package di

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-pokedex/pkg/testsupport"
	"github.com/goliatone/go-pokedex/pokemon"
)

// TestConcurrentReadWrite mixes readers with writers and checks that every
// record id appears at most once in any listing.
func TestConcurrentReadWrite(t *testing.T) {
	ctx := context.Background()
	container := newTestContainer(t)
	repo := container.Repository()

	const (
		writers = 5
		readers = 10
		perG    = 20
	)

	var wg sync.WaitGroup
	errCh := make(chan error, (writers+readers)*perG)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				id := int64(w*perG + i + 1)
				if _, err := repo.Create(ctx, id, pokemon.Fields{Name: fmt.Sprintf("p-%d", id)}); err != nil {
					errCh <- fmt.Errorf("create %d: %w", id, err)
					continue
				}
				if i%3 == 0 {
					if err := repo.Delete(ctx, id); err != nil {
						errCh <- fmt.Errorf("delete %d: %w", id, err)
					}
				}
			}
		}(w)
	}

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				records, err := repo.List(ctx)
				if err != nil {
					errCh <- err
					continue
				}
				seen := make(map[int64]bool, len(records))
				for _, p := range records {
					if seen[p.ID] {
						errCh <- fmt.Errorf("id %d listed twice", p.ID)
					}
					seen[p.ID] = true
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	stored, err := container.Gateway().FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() failed: %v", err)
	}
	if len(records) != len(stored) {
		t.Errorf("cache has %d records, store has %d", len(records), len(stored))
	}
}

func BenchmarkRepositoryGet(b *testing.B) {
	container := newTestContainer(b)
	testsupport.Seed(b, container.Gateway(), testsupport.Starters(b)...)
	if err := container.Repository().Refresh(context.Background()); err != nil {
		b.Fatalf("Refresh() failed: %v", err)
	}

	ids := []int64{1, 4, 7, 25, 143}
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(1))
		for pb.Next() {
			if _, err := container.Repository().Get(ctx, ids[rng.Intn(len(ids))]); err != nil {
				b.Error(err)
			}
		}
	})
}

func BenchmarkCachedVsStoreList(b *testing.B) {
	container := newTestContainer(b)
	ctx := context.Background()
	for i := 1; i <= 200; i++ {
		testsupport.Seed(b, container.Gateway(), pokemon.Pokemon{
			ID:         int64(i),
			Name:       fmt.Sprintf("pokemon-%d", i),
			Evolutions: []string{"a", "b"},
		})
	}
	if err := container.Repository().Refresh(ctx); err != nil {
		b.Fatalf("Refresh() failed: %v", err)
	}

	b.Run("cache", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := container.Repository().List(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("store", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := container.Gateway().FetchAll(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkHTTPList(b *testing.B) {
	container := newTestContainer(b)
	testsupport.Seed(b, container.Gateway(), testsupport.Starters(b)...)
	if err := container.Repository().Refresh(context.Background()); err != nil {
		b.Fatalf("Refresh() failed: %v", err)
	}
	handler := container.Handler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pokemon", nil))
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
