package kvstore

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, err := m.GetCollection(ctx, CollectionProducts); err != nil || ok {
		t.Fatalf("expected miss on empty store")
	}

	payload := []byte(`[{"id":"p1"}]`)
	if err := m.SetCollection(ctx, CollectionProducts, payload); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := m.GetCollection(ctx, CollectionProducts)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestMemoryCopiesPayloads(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	payload := []byte(`[{"id":"p1"}]`)
	if err := m.SetCollection(ctx, CollectionBills, payload); err != nil {
		t.Fatalf("set: %v", err)
	}
	payload[0] = 'X'

	got, _, _ := m.GetCollection(ctx, CollectionBills)
	if got[0] != '[' {
		t.Fatalf("store must not alias caller buffers")
	}
	got[0] = 'X'

	again, _, _ := m.GetCollection(ctx, CollectionBills)
	if again[0] != '[' {
		t.Fatalf("reads must not alias each other")
	}
}

func TestScopedName(t *testing.T) {
	if got := ScopedName("", CollectionProducts); got != "products" {
		t.Fatalf("empty shop id must address the plain collection, got %q", got)
	}
	if got := ScopedName("shop-2", CollectionProducts); got != "shop-2_products" {
		t.Fatalf("unexpected scoped name %q", got)
	}
}
