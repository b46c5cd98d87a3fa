package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// ReturnsLedger owns the returns collection. Returns start pending and
// resolve exactly once, to approved or rejected.
type ReturnsLedger struct {
	kv   kvstore.Store
	name string
}

func (l *ReturnsLedger) List(ctx context.Context) ([]domain.Return, error) {
	returns, err := load[domain.Return](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(returns, func(a, b domain.Return) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return returns, nil
}

func (l *ReturnsLedger) Get(ctx context.Context, id string) (domain.Return, error) {
	returns, err := load[domain.Return](ctx, l.kv, l.name)
	if err != nil {
		return domain.Return{}, err
	}
	for _, r := range returns {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Return{}, ErrNotFound
}

func (l *ReturnsLedger) Create(ctx context.Context, ret domain.Return) (domain.Return, error) {
	ret.Status = domain.ReturnStatusPending
	returns, err := load[domain.Return](ctx, l.kv, l.name)
	if err != nil {
		return domain.Return{}, err
	}
	returns = append(returns, ret)
	if err := save(ctx, l.kv, l.name, returns); err != nil {
		return domain.Return{}, err
	}
	return ret, nil
}

// Resolve moves a pending return to approved or rejected, stamping the
// approver. Anything other than pending -> approved|rejected is
// rejected as an invalid transition.
func (l *ReturnsLedger) Resolve(ctx context.Context, id string, status string, approver string, at time.Time) (domain.Return, error) {
	if status != domain.ReturnStatusApproved && status != domain.ReturnStatusRejected {
		return domain.Return{}, fmt.Errorf("%w: cannot resolve return to %q", ErrInvalidRecord, status)
	}
	returns, err := load[domain.Return](ctx, l.kv, l.name)
	if err != nil {
		return domain.Return{}, err
	}
	for i, r := range returns {
		if r.ID != id {
			continue
		}
		if r.Status != domain.ReturnStatusPending {
			return domain.Return{}, fmt.Errorf("%w: return %s already %s", ErrInvalidRecord, r.ReturnNumber, r.Status)
		}
		r.Status = status
		r.ApprovedCashierName = approver
		ts := at
		if status == domain.ReturnStatusApproved {
			r.ApprovedAt = &ts
		} else {
			r.RejectedAt = &ts
		}
		returns[i] = r
		if err := save(ctx, l.kv, l.name, returns); err != nil {
			return domain.Return{}, err
		}
		return r, nil
	}
	return domain.Return{}, ErrNotFound
}

// ListRange returns returns created within [from, to), newest first.
func (l *ReturnsLedger) ListRange(ctx context.Context, from, to time.Time) ([]domain.Return, error) {
	returns, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	ranged := make([]domain.Return, 0, len(returns))
	for _, r := range returns {
		if r.CreatedAt.Before(from) || !r.CreatedAt.Before(to) {
			continue
		}
		ranged = append(ranged, r)
	}
	return ranged, nil
}
