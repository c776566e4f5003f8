package backends_test

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/botirk38/rankturbulence/backends"
	"github.com/botirk38/rankturbulence/types"
)

func TestLRUBackend(t *testing.T) {
	factory := &backends.BackendFactory[string]{}
	backend, err := factory.NewBackend(types.BackendLRU, types.BackendConfig{Capacity: 3})
	if err != nil {
		t.Fatalf("Failed to create LRU backend: %v", err)
	}
	defer func() { _ = backend.Close() }()

	testSnapshotOperations(t, backend)
	testCapacityLimits(t, backend, 3)
}

// TestRedisBackend requires Redis on localhost:6379 or REDIS_URL
func TestRedisBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis tests in short mode")
	}

	connStr := os.Getenv("REDIS_URL")
	if connStr == "" {
		connStr = "localhost:6379"
	}

	factory := &backends.BackendFactory[string]{}
	backend, err := factory.NewBackend(types.BackendRedis, types.BackendConfig{
		ConnectionString: connStr,
		Options:          map[string]any{"prefix": "rankturbulence_test:"},
	})
	if err != nil {
		t.Skipf("Redis not available, skipping Redis tests: %v", err)
	}
	defer func() { _ = backend.Close() }()

	ctx := context.Background()
	_ = backend.Flush(ctx)
	defer func() { _ = backend.Flush(ctx) }()

	testSnapshotOperations(t, backend)
}

func TestUnsupportedBackend(t *testing.T) {
	factory := &backends.BackendFactory[string]{}
	_, err := factory.NewBackend("fifo", types.BackendConfig{Capacity: 3})
	if !errors.Is(err, backends.ErrUnsupportedBackend) {
		t.Errorf("Expected ErrUnsupportedBackend, got %v", err)
	}
}

func testSnapshotOperations(t *testing.T, backend types.SnapshotBackend[string]) {
	ctx := context.Background()

	if n, _ := backend.Len(ctx); n != 0 {
		t.Errorf("Expected empty backend, got length %d", n)
	}

	if err := backend.Add(ctx, "s1", map[string]int{"mary": 4, "jane": 3}); err != nil {
		t.Fatalf("Failed to add counts: %v", err)
	}
	if err := backend.Add(ctx, "s1", map[string]int{"jane": 2, "ann": 1}); err != nil {
		t.Fatalf("Failed to add counts: %v", err)
	}

	counts, found, err := backend.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if !found {
		t.Fatal("Expected to find s1")
	}
	want := map[string]int{"mary": 4, "jane": 5, "ann": 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// Returned maps are copies
	counts["mary"] = 100
	again, _, _ := backend.Get(ctx, "s1")
	if again["mary"] != 4 {
		t.Errorf("Expected stored count 4, got %d", again["mary"])
	}

	exists, err := backend.Contains(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to check contains: %v", err)
	}
	if !exists {
		t.Error("Expected s1 to exist")
	}

	if _, found, _ := backend.Get(ctx, "missing"); found {
		t.Error("Expected missing snapshot not to be found")
	}

	if err := backend.Add(ctx, "s2", map[string]int{"x": 1}); err != nil {
		t.Fatalf("Failed to add counts: %v", err)
	}
	names, err := backend.Names(ctx)
	if err != nil {
		t.Fatalf("Failed to list names: %v", err)
	}
	sort.Strings(names)
	if diff := cmp.Diff([]string{"s1", "s2"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if err := backend.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if exists, _ := backend.Contains(ctx, "s1"); exists {
		t.Error("Expected s1 to be deleted")
	}

	if err := backend.Flush(ctx); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}
	if n, _ := backend.Len(ctx); n != 0 {
		t.Errorf("Expected empty backend after flush, got %d", n)
	}
}

func testCapacityLimits(t *testing.T, backend types.SnapshotBackend[string], capacity int) {
	ctx := context.Background()
	_ = backend.Flush(ctx)

	for i := 0; i < capacity+2; i++ {
		name := string(rune('a' + i))
		if err := backend.Add(ctx, name, map[string]int{name: i + 1}); err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
	}

	if n, _ := backend.Len(ctx); n != capacity {
		t.Errorf("Expected %d snapshots, got %d", capacity, n)
	}
	// The oldest snapshots were evicted
	if exists, _ := backend.Contains(ctx, "a"); exists {
		t.Error("Expected a to be evicted")
	}
	if exists, _ := backend.Contains(ctx, "e"); !exists {
		t.Error("Expected e to be kept")
	}
}
