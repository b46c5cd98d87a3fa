package ledger

import (
	"context"
	"slices"
	"strings"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// BillLedger owns the bills collection. Bills are append-only except for
// admin hard deletes.
type BillLedger struct {
	kv   kvstore.Store
	name string
}

func (l *BillLedger) List(ctx context.Context) ([]domain.Bill, error) {
	bills, err := load[domain.Bill](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(bills, func(a, b domain.Bill) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return bills, nil
}

func (l *BillLedger) Get(ctx context.Context, id string) (domain.Bill, error) {
	bills, err := load[domain.Bill](ctx, l.kv, l.name)
	if err != nil {
		return domain.Bill{}, err
	}
	for _, b := range bills {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Bill{}, ErrNotFound
}

func (l *BillLedger) Append(ctx context.Context, bill domain.Bill) error {
	bills, err := load[domain.Bill](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	bills = append(bills, bill)
	return save(ctx, l.kv, l.name, bills)
}

// Delete removes a bill without touching inventory. Sold stock stays
// debited; a deleted bill is an erasure of the record, not a refund.
func (l *BillLedger) Delete(ctx context.Context, id string) error {
	bills, err := load[domain.Bill](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i, b := range bills {
		if b.ID == id {
			bills = append(bills[:i], bills[i+1:]...)
			return save(ctx, l.kv, l.name, bills)
		}
	}
	return ErrNotFound
}

// ListRange returns bills created within [from, to), newest first.
func (l *BillLedger) ListRange(ctx context.Context, from, to time.Time) ([]domain.Bill, error) {
	bills, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	ranged := make([]domain.Bill, 0, len(bills))
	for _, b := range bills {
		if b.CreatedAt.Before(from) || !b.CreatedAt.Before(to) {
			continue
		}
		ranged = append(ranged, b)
	}
	return ranged, nil
}

// MaxSequenceForPrefix scans existing bill numbers of the form
// "<prefix>-NNNNNN" and returns the highest sequence seen. Seeding the
// day counter from persisted bills keeps numbers monotonic across
// restarts.
func (l *BillLedger) MaxSequenceForPrefix(ctx context.Context, prefix string) (int64, error) {
	bills, err := load[domain.Bill](ctx, l.kv, l.name)
	if err != nil {
		return 0, err
	}
	var max int64
	for _, b := range bills {
		rest, ok := strings.CutPrefix(b.BillNumber, prefix+"-")
		if !ok {
			continue
		}
		var seq int64
		for _, r := range rest {
			if r < '0' || r > '9' {
				seq = -1
				break
			}
			seq = seq*10 + int64(r-'0')
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}
