package ledger

import (
	"context"
	"errors"
	"testing"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

func seedInventory(t *testing.T) *Set {
	t.Helper()
	set := NewSet(kvstore.NewMemory(), "")
	ctx := context.Background()
	products := []domain.Product{
		{ID: "p1", Name: "kopi", PriceCents: 1500, Quantity: 10, Category: "drinks"},
		{ID: "p2", Name: "teh", PriceCents: 1000, Quantity: 3, Category: "drinks"},
		{ID: "p3", Name: "susu", PriceCents: 2000, Quantity: 0, Category: "drinks", Barcode: "899000001"},
		{ID: "p4", Name: "roti", PriceCents: 500, Quantity: 2, Category: "food", LowStockThreshold: 1},
	}
	for _, p := range products {
		if _, err := set.Inventory.Create(ctx, p); err != nil {
			t.Fatalf("seed %s: %v", p.ID, err)
		}
	}
	return set
}

func TestLowStockUsesPerProductThreshold(t *testing.T) {
	set := seedInventory(t)
	low, err := set.Inventory.LowStock(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	// p2 (3 <= default 5) is low; p4 (2 > its own threshold 1) is not;
	// p3 is out of stock, not low.
	if len(low) != 1 || low[0].ID != "p2" {
		t.Fatalf("expected only p2 low, got %+v", low)
	}
}

func TestOutOfStock(t *testing.T) {
	set := seedInventory(t)
	out, err := set.Inventory.OutOfStock(context.Background())
	if err != nil {
		t.Fatalf("out of stock: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p3" {
		t.Fatalf("expected only p3 out of stock, got %+v", out)
	}
}

func TestAdjustStockSubtractBelowZeroFails(t *testing.T) {
	set := seedInventory(t)
	_, err := set.Inventory.AdjustStock(context.Background(), "p2", 4, StockSubtract)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	after, err := set.Inventory.Get(context.Background(), "p2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Quantity != 3 {
		t.Fatalf("quantity mutated on failed subtract: %g", after.Quantity)
	}
}

func TestAdjustStockAdd(t *testing.T) {
	set := seedInventory(t)
	updated, err := set.Inventory.AdjustStock(context.Background(), "p3", 7.5, StockAdd)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if updated.Quantity != 7.5 {
		t.Fatalf("expected 7.5, got %g", updated.Quantity)
	}
}

func TestGetByBarcode(t *testing.T) {
	set := seedInventory(t)
	product, err := set.Inventory.GetByBarcode(context.Background(), "899000001")
	if err != nil {
		t.Fatalf("barcode lookup: %v", err)
	}
	if product.ID != "p3" {
		t.Fatalf("expected p3, got %s", product.ID)
	}
	if _, err := set.Inventory.GetByBarcode(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown barcode, got %v", err)
	}
}

func TestDebitLinesRestore(t *testing.T) {
	set := seedInventory(t)
	ctx := context.Background()

	restore, err := set.Inventory.DebitLines(ctx, []domain.CartLine{
		{ProductID: "p1", Name: "kopi", PriceCents: 1500, Quantity: 4},
		{ProductID: "p2", Name: "teh", PriceCents: 1000, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("debit: %v", err)
	}

	after, _ := set.Inventory.Get(ctx, "p1")
	if after.Quantity != 6 {
		t.Fatalf("expected 6 after debit, got %g", after.Quantity)
	}

	if err := restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	restored, _ := set.Inventory.Get(ctx, "p1")
	if restored.Quantity != 10 {
		t.Fatalf("expected 10 after restore, got %g", restored.Quantity)
	}
}

func TestDebitLinesAllOrNothing(t *testing.T) {
	set := seedInventory(t)
	ctx := context.Background()

	_, err := set.Inventory.DebitLines(ctx, []domain.CartLine{
		{ProductID: "p1", Name: "kopi", PriceCents: 1500, Quantity: 4},
		{ProductID: "p2", Name: "teh", PriceCents: 1000, Quantity: 99},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	p1, _ := set.Inventory.Get(ctx, "p1")
	if p1.Quantity != 10 {
		t.Fatalf("partial debit leaked: %g", p1.Quantity)
	}
}

func TestLoadSkipsInvalidRecords(t *testing.T) {
	kv := kvstore.NewMemory()
	ctx := context.Background()
	// One valid product, one with negative quantity, one missing its id.
	payload := []byte(`[
		{"id":"p1","name":"kopi","price_cents":1500,"quantity":10},
		{"id":"p2","name":"teh","price_cents":1000,"quantity":-4},
		{"name":"susu","price_cents":2000,"quantity":1}
	]`)
	if err := kv.SetCollection(ctx, kvstore.CollectionProducts, payload); err != nil {
		t.Fatalf("set: %v", err)
	}

	set := NewSet(kv, "")
	products, err := set.Inventory.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("expected invalid records filtered, got %+v", products)
	}
}

func TestCreateRejectsDuplicateBarcode(t *testing.T) {
	set := seedInventory(t)
	_, err := set.Inventory.Create(context.Background(), domain.Product{
		ID: "p9", Name: "clone", PriceCents: 100, Barcode: "899000001",
	})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for duplicate barcode, got %v", err)
	}
}
