package ledger

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

const (
	StockAdd      = "add"
	StockSubtract = "subtract"
)

// InventoryLedger owns the products collection: CRUD, stock mutation
// and low/out-of-stock queries.
type InventoryLedger struct {
	kv   kvstore.Store
	name string
}

func (l *InventoryLedger) List(ctx context.Context) ([]domain.Product, error) {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Category == b.Category {
			return strings.Compare(a.Name, b.Name)
		}
		return strings.Compare(a.Category, b.Category)
	})
	return products, nil
}

func (l *InventoryLedger) Get(ctx context.Context, id string) (domain.Product, error) {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (l *InventoryLedger) GetByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return domain.Product{}, ErrNotFound
	}
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (l *InventoryLedger) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return domain.Product{}, err
	}
	for _, existing := range products {
		if existing.ID == product.ID {
			return domain.Product{}, fmt.Errorf("%w: duplicate product id %s", ErrInvalidRecord, product.ID)
		}
		if product.Barcode != "" && existing.Barcode == product.Barcode {
			return domain.Product{}, fmt.Errorf("%w: barcode %s already assigned", ErrInvalidRecord, product.Barcode)
		}
	}
	products = append(products, product)
	if err := save(ctx, l.kv, l.name, products); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (l *InventoryLedger) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return domain.Product{}, err
	}
	for i, existing := range products {
		if existing.ID != product.ID {
			continue
		}
		product.CreatedAt = existing.CreatedAt
		products[i] = product
		if err := save(ctx, l.kv, l.name, products); err != nil {
			return domain.Product{}, err
		}
		return product, nil
	}
	return domain.Product{}, ErrNotFound
}

func (l *InventoryLedger) Delete(ctx context.Context, id string) error {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i, existing := range products {
		if existing.ID == id {
			products = append(products[:i], products[i+1:]...)
			return save(ctx, l.kv, l.name, products)
		}
	}
	return ErrNotFound
}

// AdjustStock mutates one product's quantity. Subtracting below zero
// fails with ErrInsufficientStock; quantity never goes negative through
// this path.
func (l *InventoryLedger) AdjustStock(ctx context.Context, id string, delta float64, mode string) (domain.Product, error) {
	if delta < 0 {
		return domain.Product{}, fmt.Errorf("%w: negative stock delta", ErrInvalidRecord)
	}
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return domain.Product{}, err
	}
	for i, p := range products {
		if p.ID != id {
			continue
		}
		switch mode {
		case StockAdd:
			p.Quantity = roundQty(p.Quantity + delta)
		case StockSubtract:
			next := roundQty(p.Quantity - delta)
			if next < 0 {
				return domain.Product{}, ErrInsufficientStock
			}
			p.Quantity = next
		default:
			return domain.Product{}, fmt.Errorf("%w: unknown stock mode %q", ErrInvalidRecord, mode)
		}
		p.UpdatedAt = time.Now().UTC()
		products[i] = p
		if err := save(ctx, l.kv, l.name, products); err != nil {
			return domain.Product{}, err
		}
		return p, nil
	}
	return domain.Product{}, ErrNotFound
}

// DebitLines subtracts every cart line's quantity in one collection
// write and returns a restore function that puts the previous snapshot
// back. Callers run the restore when a later step of a multi-write
// commit fails, so a half-applied checkout cannot corrupt stock.
func (l *InventoryLedger) DebitLines(ctx context.Context, lines []domain.CartLine) (func(context.Context) error, error) {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}

	snapshot := make([]domain.Product, len(products))
	copy(snapshot, products)

	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	now := time.Now().UTC()
	for _, line := range lines {
		i, ok := index[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, line.ProductID)
		}
		next := roundQty(products[i].Quantity - line.Quantity)
		if next < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, products[i].Name)
		}
		products[i].Quantity = next
		products[i].UpdatedAt = now
	}

	if err := save(ctx, l.kv, l.name, products); err != nil {
		return nil, err
	}

	restore := func(restoreCtx context.Context) error {
		return save(restoreCtx, l.kv, l.name, snapshot)
	}
	return restore, nil
}

func (l *InventoryLedger) LowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	low := make([]domain.Product, 0, 8)
	for _, p := range products {
		if p.Quantity > 0 && p.Quantity <= p.EffectiveLowStockThreshold() {
			low = append(low, p)
		}
	}
	slices.SortFunc(low, func(a, b domain.Product) int {
		if a.Quantity == b.Quantity {
			return strings.Compare(a.Name, b.Name)
		}
		if a.Quantity < b.Quantity {
			return -1
		}
		return 1
	})
	return low, nil
}

func (l *InventoryLedger) OutOfStock(ctx context.Context) ([]domain.Product, error) {
	products, err := load[domain.Product](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, 8)
	for _, p := range products {
		if p.Quantity <= 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// roundQty clamps quantities to 3 decimal places, the finest unit the
// register accepts (e.g. 0.125 kg).
func roundQty(qty float64) float64 {
	return math.Round(qty*1000) / 1000
}
