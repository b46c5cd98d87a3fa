package ledger

import (
	"context"
	"slices"
	"strings"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// SupplierLedger owns the suppliers collection.
type SupplierLedger struct {
	kv   kvstore.Store
	name string
}

func (l *SupplierLedger) List(ctx context.Context) ([]domain.Supplier, error) {
	suppliers, err := load[domain.Supplier](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(suppliers, func(a, b domain.Supplier) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return suppliers, nil
}

func (l *SupplierLedger) Get(ctx context.Context, id string) (domain.Supplier, error) {
	suppliers, err := load[domain.Supplier](ctx, l.kv, l.name)
	if err != nil {
		return domain.Supplier{}, err
	}
	for _, s := range suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Supplier{}, ErrNotFound
}

func (l *SupplierLedger) Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	suppliers, err := load[domain.Supplier](ctx, l.kv, l.name)
	if err != nil {
		return domain.Supplier{}, err
	}
	suppliers = append(suppliers, supplier)
	if err := save(ctx, l.kv, l.name, suppliers); err != nil {
		return domain.Supplier{}, err
	}
	return supplier, nil
}

func (l *SupplierLedger) Update(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	suppliers, err := load[domain.Supplier](ctx, l.kv, l.name)
	if err != nil {
		return domain.Supplier{}, err
	}
	for i, existing := range suppliers {
		if existing.ID != supplier.ID {
			continue
		}
		supplier.CreatedAt = existing.CreatedAt
		suppliers[i] = supplier
		if err := save(ctx, l.kv, l.name, suppliers); err != nil {
			return domain.Supplier{}, err
		}
		return supplier, nil
	}
	return domain.Supplier{}, ErrNotFound
}

func (l *SupplierLedger) Delete(ctx context.Context, id string) error {
	suppliers, err := load[domain.Supplier](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i, existing := range suppliers {
		if existing.ID == id {
			suppliers = append(suppliers[:i], suppliers[i+1:]...)
			return save(ctx, l.kv, l.name, suppliers)
		}
	}
	return ErrNotFound
}
