package counter_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pgregory.net/rapid"

	"github.com/pibulus/hexbloop-sub002/internal/counter"
)

func tempStore(t *testing.T) (counter.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counters.json")
	return counter.NewStoreAt(path), path
}

// Two sequential claims of the same key never return the same value.
func TestNextIsMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := counter.NewStoreAt(filepath.Join(t.TempDir(), "c.json"))
		key := rapid.SampledFrom([]string{"global", "2024-06-01", "moon-full"}).Draw(rt, "key")
		n := rapid.IntRange(2, 10).Draw(rt, "claims")
		prev := 0
		for i := 0; i < n; i++ {
			v, err := store.Next(key)
			if err != nil {
				rt.Fatalf("Next: %v", err)
			}
			if v <= prev {
				rt.Fatalf("counter did not advance: %d after %d", v, prev)
			}
			prev = v
		}
	})
}

// Counters must survive a simulated process restart.
func TestPersistenceAcrossRestart(t *testing.T) {
	_, path := tempStore(t)

	first := counter.NewStoreAt(path)
	for i := 0; i < 3; i++ {
		if _, err := first.Next("session"); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}

	// New store instance over the same file = restarted process.
	second := counter.NewStoreAt(path)
	v, err := second.Next("session")
	if err != nil {
		t.Fatalf("Next after restart: %v", err)
	}
	if v != 4 {
		t.Fatalf("expected continued sequence 4, got %d", v)
	}
}

func TestCorruptFileFallsBackToEmpty(t *testing.T) {
	store, path := tempStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := store.Next("global")
	if err != nil {
		t.Fatalf("Next over corrupt file: %v", err)
	}
	if v != 1 {
		t.Fatalf("corrupt file should reset to empty counters, got %d", v)
	}
}

// Concurrent claims on one key must all receive distinct values.
func TestConcurrentClaimsAreUnique(t *testing.T) {
	store, _ := tempStore(t)

	const claims = 32
	var wg sync.WaitGroup
	results := make([]int, claims)
	for i := 0; i < claims; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := store.Next("batch")
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, v := range results {
		if seen[v] {
			t.Fatalf("duplicate counter value %d handed to two claimants", v)
		}
		seen[v] = true
	}
}

func TestResetAndPeek(t *testing.T) {
	store, _ := tempStore(t)
	store.Next("a")
	store.Next("a")
	store.Next("b")

	if v, _ := store.Peek("a"); v != 2 {
		t.Fatalf("Peek(a) = %d, want 2", v)
	}
	if err := store.Reset("a"); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Peek("a"); v != 0 {
		t.Fatalf("after reset Peek(a) = %d, want 0", v)
	}
	// Other keys are untouched.
	if v, _ := store.Peek("b"); v != 1 {
		t.Fatalf("reset of a disturbed b: %d", v)
	}

	all, _ := store.All()
	if len(all) != 1 {
		t.Fatalf("All() = %v, want single key", all)
	}
}
