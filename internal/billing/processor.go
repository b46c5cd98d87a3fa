package billing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lapakpos/backend/internal/cart"
	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/ledger"
)

// Processor commits carts into bills against one shop's ledgers.
type Processor struct {
	Carts    *cart.Engine
	Ledgers  *ledger.Set
	Sequence *Sequence
	Now      func() time.Time
}

func NewProcessor(carts *cart.Engine, ledgers *ledger.Set, seq *Sequence) *Processor {
	return &Processor{
		Carts:    carts,
		Ledgers:  ledgers,
		Sequence: seq,
		Now:      time.Now,
	}
}

// ProcessBill runs the checkout pipeline. All validation happens before
// any write: an invalid discount or short payment leaves stock, bills
// and the cart untouched. Stock is debited in a single collection write
// and restored if the bill append fails afterwards.
func (p *Processor) ProcessBill(ctx context.Context, session domain.Session, req domain.CheckoutRequest) (domain.Bill, error) {
	lines := cart.CommittableLines(p.Carts.Lines(req.TerminalID))
	if len(lines) == 0 {
		return domain.Bill{}, ledger.ErrEmptyCart
	}

	subtotal := cart.SubtotalCents(lines)

	discountCents, err := DiscountCents(subtotal, req.Discount)
	if err != nil {
		return domain.Bill{}, err
	}
	total := subtotal - discountCents

	payment, err := settlePayment(req.Payment, total)
	if err != nil {
		return domain.Bill{}, err
	}

	// Stock recheck happens inside DebitLines against live quantities,
	// not the values seen when lines entered the cart.
	restore, err := p.Ledgers.Inventory.DebitLines(ctx, lines)
	if err != nil {
		return domain.Bill{}, err
	}

	now := p.Now().UTC()
	billNumber, err := p.Sequence.Next(ctx, p.Ledgers.Bills, now)
	if err != nil {
		p.compensate(ctx, restore)
		return domain.Bill{}, err
	}

	bill := domain.Bill{
		ID:            uuid.NewString(),
		BillNumber:    billNumber,
		ShopID:        req.ShopID,
		Items:         lines,
		SubtotalCents: subtotal,
		Discount:      req.Discount,
		DiscountCents: discountCents,
		TotalCents:    total,
		Payment:       payment,
		Cashier: domain.CashierRef{
			ID:    session.UserID,
			Name:  session.Name,
			Email: session.Email,
		},
		CreatedAt: now,
	}

	if req.CustomerID != "" {
		if customer, err := p.Ledgers.Customers.Get(ctx, req.CustomerID); err == nil {
			bill.Customer = &domain.CustomerRef{ID: customer.ID, Name: customer.Name}
		}
	}

	if err := p.Ledgers.Bills.Append(ctx, bill); err != nil {
		p.compensate(ctx, restore)
		return domain.Bill{}, err
	}

	// Post-commit bookkeeping is best effort; the sale already stands.
	if bill.Customer != nil {
		if err := p.Ledgers.Customers.RecordPurchase(ctx, bill.Customer.ID, bill.TotalCents, now); err != nil {
			log.Printf("[billing] WARN: recording purchase for customer %s: %v", bill.Customer.ID, err)
		}
	}
	p.raiseStockAlerts(ctx, lines, now)

	p.Carts.Clear(req.TerminalID)
	return bill, nil
}

// DeleteBill erases the record only. Stock debited by the original sale
// is not restored; corrections go through the returns flow.
func (p *Processor) DeleteBill(ctx context.Context, session domain.Session, id string) error {
	if !session.CanDeleteBills() {
		return fmt.Errorf("%w: admin role required", ledger.ErrPermissionDenied)
	}
	return p.Ledgers.Bills.Delete(ctx, id)
}

func (p *Processor) compensate(ctx context.Context, restore func(context.Context) error) {
	if err := restore(ctx); err != nil {
		log.Printf("[billing] WARN: stock restore after failed commit: %v", err)
	}
}

// settlePayment validates the tender and computes change before any
// mutation runs.
func settlePayment(payment domain.Payment, totalCents int64) (domain.Payment, error) {
	switch payment.Method {
	case domain.PaymentMethodCash:
		if payment.AmountPaidCents < totalCents {
			return domain.Payment{}, fmt.Errorf("%w: amount paid is less than total", ledger.ErrInvalidPayment)
		}
		payment.ChangeCents = payment.AmountPaidCents - totalCents
	case domain.PaymentMethodCard, domain.PaymentMethodQRIS:
		payment.AmountPaidCents = totalCents
		payment.ChangeCents = 0
	default:
		return domain.Payment{}, fmt.Errorf("%w: unknown payment method %q", ledger.ErrInvalidPayment, payment.Method)
	}
	return payment, nil
}

// raiseStockAlerts appends low or out-of-stock notifications for the
// products a sale just drained.
func (p *Processor) raiseStockAlerts(ctx context.Context, lines []domain.CartLine, now time.Time) {
	for _, line := range lines {
		product, err := p.Ledgers.Inventory.Get(ctx, line.ProductID)
		if err != nil {
			continue
		}
		var kind, message string
		switch {
		case product.Quantity <= 0:
			kind = domain.NotificationOutOfStock
			message = fmt.Sprintf("%s is out of stock", product.Name)
		case product.Quantity <= product.EffectiveLowStockThreshold():
			kind = domain.NotificationLowStock
			message = fmt.Sprintf("%s is low on stock (%.3g left)", product.Name, product.Quantity)
		default:
			continue
		}
		notification := domain.Notification{
			ID:        uuid.NewString(),
			Type:      kind,
			Message:   message,
			ProductID: product.ID,
			CreatedAt: now,
		}
		if err := p.Ledgers.Notifications.Append(ctx, notification); err != nil {
			log.Printf("[billing] WARN: appending stock alert for %s: %v", product.ID, err)
		}
	}
}
