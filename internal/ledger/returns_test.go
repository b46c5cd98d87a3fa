package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

func pendingReturn(t *testing.T, set *Set) domain.Return {
	t.Helper()
	ret, err := set.Returns.Create(context.Background(), domain.Return{
		ID:           "ret-1",
		ReturnNumber: "RET-260831-ABCD1234",
		Items: []domain.ReturnItem{
			{ProductID: "p1", Name: "kopi", Quantity: 1, PriceCents: 1500},
		},
		TotalValueCents: 1500,
		CashierName:     "Kasir A",
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create return: %v", err)
	}
	return ret
}

func TestReturnStartsPending(t *testing.T) {
	set := NewSet(kvstore.NewMemory(), "")
	ret := pendingReturn(t, set)
	if ret.Status != domain.ReturnStatusPending {
		t.Fatalf("expected pending, got %s", ret.Status)
	}
}

func TestResolveReturnApprove(t *testing.T) {
	set := NewSet(kvstore.NewMemory(), "")
	ret := pendingReturn(t, set)

	resolved, err := set.Returns.Resolve(context.Background(), ret.ID, domain.ReturnStatusApproved, "Admin", time.Now().UTC())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != domain.ReturnStatusApproved {
		t.Fatalf("expected approved, got %s", resolved.Status)
	}
	if resolved.ApprovedAt == nil || resolved.ApprovedCashierName != "Admin" {
		t.Fatalf("approval stamp missing: %+v", resolved)
	}
}

func TestResolveReturnOnlyOnce(t *testing.T) {
	set := NewSet(kvstore.NewMemory(), "")
	ret := pendingReturn(t, set)

	if _, err := set.Returns.Resolve(context.Background(), ret.ID, domain.ReturnStatusRejected, "Admin", time.Now().UTC()); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	_, err := set.Returns.Resolve(context.Background(), ret.ID, domain.ReturnStatusApproved, "Admin", time.Now().UTC())
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord on double resolve, got %v", err)
	}
}

func TestResolveReturnRejectsUnknownStatus(t *testing.T) {
	set := NewSet(kvstore.NewMemory(), "")
	ret := pendingReturn(t, set)
	_, err := set.Returns.Resolve(context.Background(), ret.ID, "cancelled", "Admin", time.Now().UTC())
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for unknown status, got %v", err)
	}
}
