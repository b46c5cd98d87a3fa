package cart

import (
	"math"
	"sync"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/ledger"
)

// Engine holds per-terminal carts in memory. Carts are working state,
// not records: restarting the process empties every register.
type Engine struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func NewEngine() *Engine {
	return &Engine{carts: make(map[string][]domain.CartLine)}
}

// roundQty clamps quantities to 3 decimal places before any arithmetic,
// so 0.1+0.2 style float drift never reaches a stored line.
func roundQty(qty float64) float64 {
	return math.Round(qty*1000) / 1000
}

// LineTotalCents computes a line's value in whole cents, rounding once.
func LineTotalCents(priceCents int64, qty float64) int64 {
	return int64(math.Round(float64(priceCents) * qty))
}

// AddItem merges quantity onto an existing line or appends a new one.
// The precondition is checked against the cart's combined quantity; on
// ErrInsufficientStock the cart is left exactly as it was. A custom
// price overrides the catalog price but OriginalPriceCents keeps the
// catalog value for the receipt.
func (e *Engine) AddItem(terminalID string, product domain.Product, qty float64, customPriceCents *int64) ([]domain.CartLine, error) {
	qty = roundQty(qty)
	if qty <= 0 {
		return nil, ledger.ErrInvalidRecord
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.carts[terminalID]
	idx := -1
	var inCart float64
	for i, line := range lines {
		if line.ProductID == product.ID {
			idx = i
			inCart = line.Quantity
			break
		}
	}

	if roundQty(inCart+qty) > product.Quantity {
		return nil, ledger.ErrInsufficientStock
	}

	if idx >= 0 {
		// Merging only increments quantity. A negotiated price on the
		// existing line survives unless a new custom price is given.
		lines[idx].Quantity = roundQty(inCart + qty)
		if customPriceCents != nil && *customPriceCents >= 0 {
			lines[idx].PriceCents = *customPriceCents
		}
	} else {
		price := product.PriceCents
		if customPriceCents != nil && *customPriceCents >= 0 {
			price = *customPriceCents
		}
		lines = append(lines, domain.CartLine{
			ProductID:          product.ID,
			Name:               product.Name,
			PriceCents:         price,
			OriginalPriceCents: product.PriceCents,
			Quantity:           qty,
		})
	}
	e.carts[terminalID] = lines
	return cloneLines(lines), nil
}

// UpdateItem sets a line's quantity and/or unit price. A negative
// quantity removes the line; zero keeps it as a transient empty line
// the operator is still editing. Raising quantity above available
// stock fails and leaves the cart untouched.
func (e *Engine) UpdateItem(terminalID string, product domain.Product, qty *float64, priceCents *int64) ([]domain.CartLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.carts[terminalID]
	for i, line := range lines {
		if line.ProductID != product.ID {
			continue
		}
		if qty != nil {
			next := roundQty(*qty)
			if next < 0 {
				lines = append(lines[:i], lines[i+1:]...)
				e.carts[terminalID] = lines
				return cloneLines(lines), nil
			}
			if next > line.Quantity && next > product.Quantity {
				return nil, ledger.ErrInsufficientStock
			}
			lines[i].Quantity = next
		}
		if priceCents != nil && *priceCents >= 0 {
			lines[i].PriceCents = *priceCents
		}
		e.carts[terminalID] = lines
		return cloneLines(lines), nil
	}
	return nil, ledger.ErrNotFound
}

func (e *Engine) RemoveItem(terminalID string, productID string) ([]domain.CartLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.carts[terminalID]
	for i, line := range lines {
		if line.ProductID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			e.carts[terminalID] = lines
			return cloneLines(lines), nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (e *Engine) Clear(terminalID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.carts, terminalID)
}

func (e *Engine) Lines(terminalID string) []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneLines(e.carts[terminalID])
}

// SubtotalCents sums line totals, skipping zero-quantity transient
// lines.
func SubtotalCents(lines []domain.CartLine) int64 {
	var subtotal int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		subtotal += LineTotalCents(line.PriceCents, line.Quantity)
	}
	return subtotal
}

// CommittableLines filters out zero-quantity lines; only these reach a
// bill.
func CommittableLines(lines []domain.CartLine) []domain.CartLine {
	kept := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	return kept
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	copied := make([]domain.CartLine, len(lines))
	copy(copied, lines)
	return copied
}
