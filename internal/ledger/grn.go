package ledger

import (
	"context"
	"slices"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// GRNLedger owns the goods-received-note collection. GRNs are
// append-only; receipt of stock is a historical fact, never edited.
type GRNLedger struct {
	kv   kvstore.Store
	name string
}

func (l *GRNLedger) List(ctx context.Context) ([]domain.GRN, error) {
	grns, err := load[domain.GRN](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(grns, func(a, b domain.GRN) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return grns, nil
}

func (l *GRNLedger) Get(ctx context.Context, id string) (domain.GRN, error) {
	grns, err := load[domain.GRN](ctx, l.kv, l.name)
	if err != nil {
		return domain.GRN{}, err
	}
	for _, g := range grns {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.GRN{}, ErrNotFound
}

func (l *GRNLedger) Append(ctx context.Context, grn domain.GRN) error {
	grns, err := load[domain.GRN](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	grns = append(grns, grn)
	return save(ctx, l.kv, l.name, grns)
}

// ListRange returns GRNs created within [from, to), newest first.
func (l *GRNLedger) ListRange(ctx context.Context, from, to time.Time) ([]domain.GRN, error) {
	grns, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	ranged := make([]domain.GRN, 0, len(grns))
	for _, g := range grns {
		if g.CreatedAt.Before(from) || !g.CreatedAt.Before(to) {
			continue
		}
		ranged = append(ranged, g)
	}
	return ranged, nil
}
