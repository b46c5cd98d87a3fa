package billing

import (
	"fmt"
	"math"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/ledger"
)

// discountError carries the operator-facing message verbatim while
// still matching ledger.ErrInvalidDiscount under errors.Is.
type discountError string

func (e discountError) Error() string { return string(e) }

func (e discountError) Is(target error) bool { return target == ledger.ErrInvalidDiscount }

const (
	msgDiscountNegative   = "Discount must be a positive number"
	msgDiscountOverLimit  = "Discount percentage cannot exceed 100%"
	msgDiscountOverAmount = "Discount amount cannot exceed subtotal"
)

// DiscountCents validates operator discount input against a subtotal
// and returns the discount in whole cents. A zero-value discount is a
// no-op, not an error. The function is pure: it never touches storage
// and is safe to call before any mutation.
func DiscountCents(subtotalCents int64, d domain.Discount) (int64, error) {
	if d.Amount == 0 {
		return 0, nil
	}
	if d.Amount < 0 {
		return 0, discountError(msgDiscountNegative)
	}

	switch d.Type {
	case domain.DiscountTypePercentage:
		if d.Amount > 100 {
			return 0, discountError(msgDiscountOverLimit)
		}
		return int64(math.Round(float64(subtotalCents) * d.Amount / 100)), nil
	case domain.DiscountTypeAmount, "":
		cents := int64(math.Round(d.Amount))
		if cents > subtotalCents {
			return 0, discountError(msgDiscountOverAmount)
		}
		return cents, nil
	default:
		return 0, fmt.Errorf("%w: unknown discount type %q", ledger.ErrInvalidDiscount, d.Type)
	}
}
