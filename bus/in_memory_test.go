package bus

import (
	"context"
	"sync"
	"testing"
)

func TestInMemoryBus_SendRecv(t *testing.T) {
	b := NewInMemoryBus()
	ctx := context.Background()

	if err := b.Send(ctx, "beta", map[string]any{"ping": true}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msg, ok, err := b.Recv(ctx, "beta")
	if err != nil {
		t.Fatalf("recv failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a queued message")
	}
	if msg["ping"] != true {
		t.Fatalf("unexpected payload: %#v", msg)
	}

	// mailbox drained
	_, ok, err = b.Recv(ctx, "beta")
	if err != nil {
		t.Fatalf("recv failed: %v", err)
	}
	if ok {
		t.Fatal("expected empty mailbox after drain")
	}
}

func TestInMemoryBus_PerRecipientOrder(t *testing.T) {
	b := NewInMemoryBus()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := b.Send(ctx, "alpha", map[string]any{"seq": i}); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
		if err := b.Send(ctx, "other", map[string]any{"noise": i}); err != nil {
			t.Fatalf("send noise %d failed: %v", i, err)
		}
	}

	for want := 0; want < 3; want++ {
		msg, ok, err := b.Recv(ctx, "alpha")
		if err != nil || !ok {
			t.Fatalf("recv %d: ok=%v err=%v", want, ok, err)
		}
		if msg["seq"] != want {
			t.Fatalf("expected seq %d, got %#v", want, msg["seq"])
		}
	}
}

func TestInMemoryBus_RecipientIsolation(t *testing.T) {
	b := NewInMemoryBus()
	ctx := context.Background()

	if err := b.Send(ctx, "alpha", map[string]any{"for": "alpha"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if _, ok, _ := b.Recv(ctx, "beta"); ok {
		t.Fatal("beta must not see alpha's mail")
	}
	if _, ok, _ := b.Recv(ctx, "alpha"); !ok {
		t.Fatal("alpha's message must still be queued")
	}
}

func TestInMemoryBus_CopyIsolation(t *testing.T) {
	b := NewInMemoryBus()
	ctx := context.Background()

	payload := map[string]any{"k": "original"}
	if err := b.Send(ctx, "alpha", payload); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	payload["k"] = "mutated"

	msg, _, _ := b.Recv(ctx, "alpha")
	if msg["k"] != "original" {
		t.Fatalf("expected copy isolation, got %#v", msg["k"])
	}
}

func TestInMemoryBus_ContextCancelled(t *testing.T) {
	b := NewInMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Send(ctx, "alpha", map[string]any{}); err == nil {
		t.Fatal("expected send to fail on cancelled context")
	}
	if _, _, err := b.Recv(ctx, "alpha"); err == nil {
		t.Fatal("expected recv to fail on cancelled context")
	}
}

func TestInMemoryBus_ConcurrentAccess(t *testing.T) {
	b := NewInMemoryBus()
	ctx := context.Background()

	wg := sync.WaitGroup{}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := b.Send(ctx, "shared", map[string]any{"i": i}); err != nil {
				t.Errorf("send error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	drained := 0
	for {
		_, ok, err := b.Recv(ctx, "shared")
		if err != nil {
			t.Fatalf("recv error: %v", err)
		}
		if !ok {
			break
		}
		drained++
	}
	if drained != 25 {
		t.Fatalf("expected 25 delivered messages, got %d", drained)
	}
}
