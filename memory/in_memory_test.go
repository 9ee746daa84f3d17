package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"
)

func TestInMemoryStore_PutAndGet(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected missing key to report absent")
	}

	if err := store.Put(ctx, "k1", map[string]any{"v": 1}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	m, isMap := value.(map[string]any)
	if !isMap || m["v"] != 1 {
		t.Fatalf("unexpected value: %#v", value)
	}

	// overwrite
	if err := store.Put(ctx, "k1", "replaced"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, _, _ = store.Get(ctx, "k1")
	if value != "replaced" {
		t.Fatalf("expected overwrite, got %#v", value)
	}
}

func TestInMemoryStore_CopyIsolation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	original := map[string]any{"k": "v"}
	if err := store.Put(ctx, "iso", original); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	original["k"] = "mutated"

	value, _, _ := store.Get(ctx, "iso")
	m := value.(map[string]any)
	if m["k"] != "v" {
		t.Fatalf("expected stored copy isolated from caller, got %#v", m["k"])
	}

	// mutation of the returned value must not leak back either
	m["k"] = "changed"
	again, _, _ := store.Get(ctx, "iso")
	if again.(map[string]any)["k"] != "v" {
		t.Fatalf("expected returned copy isolated from store, got %#v", again)
	}
}

func TestInMemoryStore_Search(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	entries := map[string]any{
		"notes:alpha": "first finding",
		"notes:beta":  "second finding",
		"config":      map[string]any{"theme": "dark"},
	}
	for k, v := range entries {
		if err := store.Put(ctx, k, v); err != nil {
			t.Fatalf("put %s failed: %v", k, err)
		}
	}

	// key substring match
	res, err := store.Search(ctx, "notes:")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 key matches, got %d: %#v", len(res), res)
	}
	// ordered by key: alpha before beta
	if res[0] != "first finding" || res[1] != "second finding" {
		t.Fatalf("expected key-ordered results, got %#v", res)
	}

	// value substring match (JSON rendering)
	res, err = store.Search(ctx, "dark")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected 1 value match, got %d", len(res))
	}

	// empty query matches everything
	res, _ = store.Search(ctx, "")
	if len(res) != 3 {
		t.Fatalf("expected all entries for empty query, got %d", len(res))
	}

	// no match
	res, _ = store.Search(ctx, "absent")
	if len(res) != 0 {
		t.Fatalf("expected no matches, got %#v", res)
	}
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	wg := sync.WaitGroup{}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "key" + strconv.Itoa(i%5)
			if err := store.Put(ctx, key, i); err != nil {
				t.Errorf("put error: %v", err)
			}
			if _, _, err := store.Get(ctx, key); err != nil {
				t.Errorf("get error: %v", err)
			}
			if _, err := store.Search(ctx, "key"); err != nil {
				t.Errorf("search error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	res, err := store.Search(ctx, "key")
	if err != nil {
		t.Fatalf("final search failed: %v", err)
	}
	if len(res) != 5 {
		t.Fatalf("expected 5 keys after concurrent writes, got %d", len(res))
	}
}

func TestNullStore(t *testing.T) {
	store := NewNullStore()
	ctx := context.Background()

	if err := store.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("put must silently succeed: %v", err)
	}

	_, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatal("null store must report every key absent")
	}

	res, err := store.Search(ctx, "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("null store must match nothing, got %#v", res)
	}
}
