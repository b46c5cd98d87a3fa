package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"lapakpos/backend/internal/kvstore"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidDiscount   = errors.New("invalid discount")
	ErrEmptyCart         = errors.New("empty cart")
	ErrInvalidPayment    = errors.New("invalid payment")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidRecord     = errors.New("invalid record")
)

type record interface {
	Validate() error
}

// load decodes a whole collection. Records that fail schema validation
// are skipped with a warning rather than failing the read; the source
// store never enforced a schema, so legacy payloads may carry strays.
func load[T record](ctx context.Context, kv kvstore.Store, name string) ([]T, error) {
	payload, ok, err := kv.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok || len(payload) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("%w: collection %s: %v", ErrInvalidRecord, name, err)
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Printf("[ledger] WARN: skipping invalid record in %s: %v", name, err)
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}

// save validates every record before replacing the collection's full
// serialized value. Writes are all-or-nothing at collection granularity.
func save[T record](ctx context.Context, kv kvstore.Store, name string, items []T) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return kv.SetCollection(ctx, name, payload)
}

// Set bundles one shop's ledgers. Users and shops are global and live
// outside the Set (see NewUserLedger, NewShopLedger).
type Set struct {
	ShopID        string
	Inventory     *InventoryLedger
	Bills         *BillLedger
	Customers     *CustomerLedger
	Suppliers     *SupplierLedger
	GRN           *GRNLedger
	Returns       *ReturnsLedger
	Notifications *NotificationLedger
}

func NewSet(kv kvstore.Store, shopID string) *Set {
	scoped := func(name string) string { return kvstore.ScopedName(shopID, name) }
	return &Set{
		ShopID:        shopID,
		Inventory:     &InventoryLedger{kv: kv, name: scoped(kvstore.CollectionProducts)},
		Bills:         &BillLedger{kv: kv, name: scoped(kvstore.CollectionBills)},
		Customers:     &CustomerLedger{kv: kv, name: scoped(kvstore.CollectionCustomers)},
		Suppliers:     &SupplierLedger{kv: kv, name: scoped(kvstore.CollectionSuppliers)},
		GRN:           &GRNLedger{kv: kv, name: scoped(kvstore.CollectionGRN)},
		Returns:       &ReturnsLedger{kv: kv, name: scoped(kvstore.CollectionReturns)},
		Notifications: &NotificationLedger{kv: kv, name: scoped(kvstore.CollectionNotifications)},
	}
}
