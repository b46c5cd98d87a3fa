package billing

import (
	"errors"
	"testing"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/ledger"
)

func TestDiscountCentsPercentage(t *testing.T) {
	cents, err := DiscountCents(25000, domain.Discount{Amount: 10, Type: domain.DiscountTypePercentage})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cents != 2500 {
		t.Fatalf("expected 2500, got %d", cents)
	}
}

func TestDiscountCentsPercentageOverLimit(t *testing.T) {
	_, err := DiscountCents(25000, domain.Discount{Amount: 101, Type: domain.DiscountTypePercentage})
	if err == nil {
		t.Fatalf("expected error for percentage over 100")
	}
	if err.Error() != "Discount percentage cannot exceed 100%" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ledger.ErrInvalidDiscount) {
		t.Fatalf("expected ErrInvalidDiscount")
	}
}

func TestDiscountCentsAmountOverSubtotal(t *testing.T) {
	_, err := DiscountCents(25000, domain.Discount{Amount: 30000, Type: domain.DiscountTypeAmount})
	if err == nil {
		t.Fatalf("expected error for amount over subtotal")
	}
	if err.Error() != "Discount amount cannot exceed subtotal" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestDiscountCentsNegative(t *testing.T) {
	for _, kind := range []string{domain.DiscountTypeAmount, domain.DiscountTypePercentage} {
		_, err := DiscountCents(25000, domain.Discount{Amount: -5, Type: kind})
		if err == nil {
			t.Fatalf("expected error for negative %s discount", kind)
		}
		if err.Error() != "Discount must be a positive number" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	}
}

func TestDiscountCentsZeroIsNoop(t *testing.T) {
	cents, err := DiscountCents(25000, domain.Discount{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cents != 0 {
		t.Fatalf("expected 0, got %d", cents)
	}
}

func TestDiscountCentsFullPercentage(t *testing.T) {
	cents, err := DiscountCents(25000, domain.Discount{Amount: 100, Type: domain.DiscountTypePercentage})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cents != 25000 {
		t.Fatalf("expected 25000, got %d", cents)
	}
}
