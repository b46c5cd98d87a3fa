package ledger

import (
	"context"
	"slices"
	"strings"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// ShopLedger owns the global shops collection used for multi-shop
// aggregation. Like users, it is never shop-scoped.
type ShopLedger struct {
	kv   kvstore.Store
	name string
}

func NewShopLedger(kv kvstore.Store) *ShopLedger {
	return &ShopLedger{kv: kv, name: kvstore.CollectionShops}
}

func (l *ShopLedger) List(ctx context.Context) ([]domain.Shop, error) {
	shops, err := load[domain.Shop](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(shops, func(a, b domain.Shop) int {
		return strings.Compare(a.Name, b.Name)
	})
	return shops, nil
}

func (l *ShopLedger) Get(ctx context.Context, id string) (domain.Shop, error) {
	shops, err := load[domain.Shop](ctx, l.kv, l.name)
	if err != nil {
		return domain.Shop{}, err
	}
	for _, s := range shops {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Shop{}, ErrNotFound
}

func (l *ShopLedger) Create(ctx context.Context, shop domain.Shop) (domain.Shop, error) {
	shops, err := load[domain.Shop](ctx, l.kv, l.name)
	if err != nil {
		return domain.Shop{}, err
	}
	shops = append(shops, shop)
	if err := save(ctx, l.kv, l.name, shops); err != nil {
		return domain.Shop{}, err
	}
	return shop, nil
}
