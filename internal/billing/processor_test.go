package billing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"lapakpos/backend/internal/cart"
	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
	"lapakpos/backend/internal/ledger"
)

const testTerminal = "terminal-a1"

func newTestProcessor(t *testing.T, kv kvstore.Store) (*Processor, *ledger.Set) {
	t.Helper()
	set := ledger.NewSet(kv, "")
	carts := cart.NewEngine()
	return NewProcessor(carts, set, NewSequence()), set
}

func seedProduct(t *testing.T, set *ledger.Set, name string, priceCents int64, qty float64) domain.Product {
	t.Helper()
	product, err := set.Inventory.Create(context.Background(), domain.Product{
		ID:         "prod-" + name,
		Name:       name,
		PriceCents: priceCents,
		Quantity:   qty,
		Category:   "test",
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return product
}

func adminSession() domain.Session {
	return domain.Session{
		UserID:   "u-1",
		Username: "admin",
		Name:     "Administrator",
		Email:    "admin@example.com",
		Role:     domain.RoleAdmin,
	}
}

func TestProcessBillComputesTotals(t *testing.T) {
	p, set := newTestProcessor(t, kvstore.NewMemory())
	a := seedProduct(t, set, "kopi", 100, 10)
	b := seedProduct(t, set, "teh", 50, 10)

	if _, err := p.Carts.AddItem(testTerminal, a, 2, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := p.Carts.AddItem(testTerminal, b, 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	bill, err := p.ProcessBill(context.Background(), adminSession(), domain.CheckoutRequest{
		TerminalID: testTerminal,
		Discount:   domain.Discount{Amount: 10, Type: domain.DiscountTypePercentage},
		Payment:    domain.Payment{Method: domain.PaymentMethodCash, AmountPaidCents: 300},
	})
	if err != nil {
		t.Fatalf("process bill: %v", err)
	}

	if bill.SubtotalCents != 250 {
		t.Fatalf("expected subtotal 250, got %d", bill.SubtotalCents)
	}
	if bill.DiscountCents != 25 {
		t.Fatalf("expected discount 25, got %d", bill.DiscountCents)
	}
	if bill.TotalCents != 225 {
		t.Fatalf("expected total 225, got %d", bill.TotalCents)
	}
	if bill.TotalCents != bill.SubtotalCents-bill.DiscountCents {
		t.Fatalf("total invariant violated")
	}
	if bill.Payment.ChangeCents != 75 {
		t.Fatalf("expected change 75, got %d", bill.Payment.ChangeCents)
	}

	if lines := p.Carts.Lines(testTerminal); len(lines) != 0 {
		t.Fatalf("expected cart cleared after checkout, got %d lines", len(lines))
	}

	bills, err := set.Bills.List(context.Background())
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if len(bills) != 1 || bills[0].TotalCents != 225 {
		t.Fatalf("expected one persisted bill with total 225")
	}

	product, err := set.Inventory.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Quantity != 8 {
		t.Fatalf("expected stock debited to 8, got %g", product.Quantity)
	}
}

func TestProcessBillEmptyCart(t *testing.T) {
	p, _ := newTestProcessor(t, kvstore.NewMemory())

	_, err := p.ProcessBill(context.Background(), adminSession(), domain.CheckoutRequest{
		TerminalID: testTerminal,
		Payment:    domain.Payment{Method: domain.PaymentMethodCash, AmountPaidCents: 100},
	})
	if !errors.Is(err, ledger.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestProcessBillShortCashRejectedBeforeMutation(t *testing.T) {
	p, set := newTestProcessor(t, kvstore.NewMemory())
	product := seedProduct(t, set, "kopi", 100, 10)

	if _, err := p.Carts.AddItem(testTerminal, product, 2, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := p.Carts.AddItem(testTerminal, seedProduct(t, set, "teh", 50, 10), 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := p.ProcessBill(context.Background(), adminSession(), domain.CheckoutRequest{
		TerminalID: testTerminal,
		Discount:   domain.Discount{Amount: 10, Type: domain.DiscountTypePercentage},
		Payment:    domain.Payment{Method: domain.PaymentMethodCash, AmountPaidCents: 200},
	})
	if !errors.Is(err, ledger.ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}

	after, err := set.Inventory.Get(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.Quantity != 10 {
		t.Fatalf("stock mutated before payment validation: %g", after.Quantity)
	}
	if lines := p.Carts.Lines(testTerminal); len(lines) != 2 {
		t.Fatalf("cart should survive a rejected checkout, got %d lines", len(lines))
	}
	if bills, _ := set.Bills.List(context.Background()); len(bills) != 0 {
		t.Fatalf("no bill should be persisted on rejection")
	}
}

func TestProcessBillNumberFormatAndMonotonicity(t *testing.T) {
	p, set := newTestProcessor(t, kvstore.NewMemory())
	product := seedProduct(t, set, "kopi", 100, 100)

	pattern := regexp.MustCompile(`^\d{6}-\d{6}$`)
	prev := ""
	for i := 0; i < 3; i++ {
		if _, err := p.Carts.AddItem(testTerminal, product, 1, nil); err != nil {
			t.Fatalf("add item: %v", err)
		}
		bill, err := p.ProcessBill(context.Background(), adminSession(), domain.CheckoutRequest{
			TerminalID: testTerminal,
			Payment:    domain.Payment{Method: domain.PaymentMethodCard},
		})
		if err != nil {
			t.Fatalf("process bill %d: %v", i, err)
		}
		if !pattern.MatchString(bill.BillNumber) {
			t.Fatalf("unexpected bill number format %q", bill.BillNumber)
		}
		if bill.BillNumber <= prev {
			t.Fatalf("bill numbers not increasing: %q then %q", prev, bill.BillNumber)
		}
		prev = bill.BillNumber
	}
}

func TestSequenceSeedsFromPersistedBills(t *testing.T) {
	kv := kvstore.NewMemory()
	set := ledger.NewSet(kv, "")
	now := time.Now().UTC()
	prefix := now.Format("060102")

	seedProductForBill := seedProduct(t, set, "kopi", 100, 10)
	existing := domain.Bill{
		ID:            "bill-1",
		BillNumber:    fmt.Sprintf("%s-%06d", prefix, 41),
		Items:         []domain.CartLine{{ProductID: seedProductForBill.ID, Name: "kopi", PriceCents: 100, Quantity: 1}},
		SubtotalCents: 100,
		TotalCents:    100,
		Payment:       domain.Payment{Method: domain.PaymentMethodCash, AmountPaidCents: 100},
		CreatedAt:     now,
	}
	if err := set.Bills.Append(context.Background(), existing); err != nil {
		t.Fatalf("append bill: %v", err)
	}

	seq := NewSequence()
	next, err := seq.Next(context.Background(), set.Bills, now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	want := fmt.Sprintf("%s-%06d", prefix, 42)
	if next != want {
		t.Fatalf("expected %q, got %q", want, next)
	}
}

// failingStore wraps the memory store and rejects writes to one
// collection, simulating a backend failure mid-commit.
type failingStore struct {
	kvstore.Store
	failName string
}

func (f *failingStore) SetCollection(ctx context.Context, name string, payload []byte) error {
	if name == f.failName {
		return errors.New("simulated write failure")
	}
	return f.Store.SetCollection(ctx, name, payload)
}

func TestProcessBillRestoresStockWhenBillAppendFails(t *testing.T) {
	kv := &failingStore{Store: kvstore.NewMemory(), failName: kvstore.CollectionBills}
	p, set := newTestProcessor(t, kv)
	product := seedProduct(t, set, "kopi", 100, 10)

	if _, err := p.Carts.AddItem(testTerminal, product, 3, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := p.ProcessBill(context.Background(), adminSession(), domain.CheckoutRequest{
		TerminalID: testTerminal,
		Payment:    domain.Payment{Method: domain.PaymentMethodCard},
	})
	if err == nil {
		t.Fatalf("expected checkout to fail when bill append fails")
	}

	after, err := set.Inventory.Get(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.Quantity != 10 {
		t.Fatalf("expected stock restored to 10 after failed commit, got %g", after.Quantity)
	}
}

func TestDeleteBillRequiresAdmin(t *testing.T) {
	p, set := newTestProcessor(t, kvstore.NewMemory())
	product := seedProduct(t, set, "kopi", 100, 10)

	if _, err := p.Carts.AddItem(testTerminal, product, 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}
	bill, err := p.ProcessBill(context.Background(), adminSession(), domain.CheckoutRequest{
		TerminalID: testTerminal,
		Payment:    domain.Payment{Method: domain.PaymentMethodCard},
	})
	if err != nil {
		t.Fatalf("process bill: %v", err)
	}

	cashier := domain.Session{UserID: "u-2", Username: "kasir", Role: domain.RoleCashier}
	if err := p.DeleteBill(context.Background(), cashier, bill.ID); !errors.Is(err, ledger.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for cashier, got %v", err)
	}

	if err := p.DeleteBill(context.Background(), adminSession(), bill.ID); err != nil {
		t.Fatalf("admin delete bill: %v", err)
	}

	// Deleting a bill never puts stock back.
	after, err := set.Inventory.Get(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.Quantity != 9 {
		t.Fatalf("expected stock to stay debited at 9, got %g", after.Quantity)
	}
}
