package ledger

import (
	"context"
	"slices"
	"strings"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// CustomerLedger owns the customers collection.
type CustomerLedger struct {
	kv   kvstore.Store
	name string
}

func (l *CustomerLedger) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := load[domain.Customer](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(customers, func(a, b domain.Customer) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return customers, nil
}

func (l *CustomerLedger) Get(ctx context.Context, id string) (domain.Customer, error) {
	customers, err := load[domain.Customer](ctx, l.kv, l.name)
	if err != nil {
		return domain.Customer{}, err
	}
	for _, c := range customers {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Customer{}, ErrNotFound
}

// Search matches name, phone or email, case-insensitively on name and
// email.
func (l *CustomerLedger) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	customers, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return customers, nil
	}
	matched := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(c.Phone, query) ||
			strings.Contains(strings.ToLower(c.Email), query) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (l *CustomerLedger) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	customers, err := load[domain.Customer](ctx, l.kv, l.name)
	if err != nil {
		return domain.Customer{}, err
	}
	customers = append(customers, customer)
	if err := save(ctx, l.kv, l.name, customers); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (l *CustomerLedger) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	customers, err := load[domain.Customer](ctx, l.kv, l.name)
	if err != nil {
		return domain.Customer{}, err
	}
	for i, existing := range customers {
		if existing.ID != customer.ID {
			continue
		}
		customer.CreatedAt = existing.CreatedAt
		customer.TotalPurchasesCents = existing.TotalPurchasesCents
		customer.LastVisit = existing.LastVisit
		customers[i] = customer
		if err := save(ctx, l.kv, l.name, customers); err != nil {
			return domain.Customer{}, err
		}
		return customer, nil
	}
	return domain.Customer{}, ErrNotFound
}

func (l *CustomerLedger) Delete(ctx context.Context, id string) error {
	customers, err := load[domain.Customer](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i, existing := range customers {
		if existing.ID == id {
			customers = append(customers[:i], customers[i+1:]...)
			return save(ctx, l.kv, l.name, customers)
		}
	}
	return ErrNotFound
}

// RecordPurchase accumulates a completed sale onto the customer's
// lifetime total and stamps the visit. A missing customer is not an
// error; checkout must not fail because a walk-in id went stale.
func (l *CustomerLedger) RecordPurchase(ctx context.Context, id string, totalCents int64, at time.Time) error {
	customers, err := load[domain.Customer](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i, c := range customers {
		if c.ID != id {
			continue
		}
		c.TotalPurchasesCents += totalCents
		visit := at
		c.LastVisit = &visit
		c.UpdatedAt = at
		customers[i] = c
		return save(ctx, l.kv, l.name, customers)
	}
	return nil
}
