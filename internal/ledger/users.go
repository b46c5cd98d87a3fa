package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// UserLedger owns the global users collection. It is never shop-scoped;
// an operator logs in once and works any register.
type UserLedger struct {
	kv   kvstore.Store
	name string
}

func NewUserLedger(kv kvstore.Store) *UserLedger {
	return &UserLedger{kv: kv, name: kvstore.CollectionUsers}
}

func (l *UserLedger) List(ctx context.Context) ([]domain.User, error) {
	users, err := load[domain.User](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(users, func(a, b domain.User) int {
		return strings.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (l *UserLedger) Get(ctx context.Context, id string) (domain.User, error) {
	users, err := load[domain.User](ctx, l.kv, l.name)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (l *UserLedger) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	users, err := load[domain.User](ctx, l.kv, l.name)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.ToLower(u.Username) == username {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (l *UserLedger) Create(ctx context.Context, user domain.User) (domain.User, error) {
	users, err := load[domain.User](ctx, l.kv, l.name)
	if err != nil {
		return domain.User{}, err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Username, user.Username) {
			return domain.User{}, fmt.Errorf("%w: username %s taken", ErrInvalidRecord, user.Username)
		}
	}
	users = append(users, user)
	if err := save(ctx, l.kv, l.name, users); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (l *UserLedger) SetActive(ctx context.Context, id string, active bool) (domain.User, error) {
	users, err := load[domain.User](ctx, l.kv, l.name)
	if err != nil {
		return domain.User{}, err
	}
	for i, u := range users {
		if u.ID != id {
			continue
		}
		u.Active = active
		users[i] = u
		if err := save(ctx, l.kv, l.name, users); err != nil {
			return domain.User{}, err
		}
		return u, nil
	}
	return domain.User{}, ErrNotFound
}

func (l *UserLedger) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	users, err := load[domain.User](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i, u := range users {
		if u.ID != id {
			continue
		}
		u.PasswordHash = passwordHash
		users[i] = u
		return save(ctx, l.kv, l.name, users)
	}
	return ErrNotFound
}
