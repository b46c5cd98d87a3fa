package kvstore

import "context"

// Canonical collection names. Shop-scoped variants are derived with
// ScopedName.
const (
	CollectionUsers         = "users"
	CollectionProducts      = "products"
	CollectionBills         = "bills"
	CollectionCustomers     = "customers"
	CollectionReturns       = "returns"
	CollectionGRN           = "grn"
	CollectionSettings      = "settings"
	CollectionSuppliers     = "suppliers"
	CollectionNotifications = "notifications"
	CollectionShops         = "shops"
)

// Store is a named-collection key-value medium. Every SetCollection
// replaces the collection's entire serialized value; there are no
// partial updates and no transactions across collections. Concurrent
// writers are last-write-wins.
type Store interface {
	GetCollection(ctx context.Context, name string) ([]byte, bool, error)
	SetCollection(ctx context.Context, name string, payload []byte) error
	Close() error
}

// ScopedName prefixes a collection name with a shop id for multi-shop
// deployments. An empty shop id addresses the default shop's
// collections.
func ScopedName(shopID string, name string) string {
	if shopID == "" {
		return name
	}
	return shopID + "_" + name
}
