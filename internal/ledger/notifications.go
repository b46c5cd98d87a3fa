package ledger

import (
	"context"
	"slices"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
)

// notificationCap bounds the collection so the alert feed cannot grow
// without limit. Oldest entries fall off first.
const notificationCap = 200

// NotificationLedger owns the notifications collection, a rolling feed
// of stock alerts and operational messages.
type NotificationLedger struct {
	kv   kvstore.Store
	name string
}

func (l *NotificationLedger) List(ctx context.Context) ([]domain.Notification, error) {
	notifications, err := load[domain.Notification](ctx, l.kv, l.name)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(notifications, func(a, b domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return notifications, nil
}

func (l *NotificationLedger) Unread(ctx context.Context) ([]domain.Notification, error) {
	notifications, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	unread := make([]domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		if !n.Read {
			unread = append(unread, n)
		}
	}
	return unread, nil
}

func (l *NotificationLedger) Append(ctx context.Context, notification domain.Notification) error {
	notifications, err := load[domain.Notification](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	notifications = append(notifications, notification)
	if len(notifications) > notificationCap {
		notifications = notifications[len(notifications)-notificationCap:]
	}
	return save(ctx, l.kv, l.name, notifications)
}

func (l *NotificationLedger) MarkRead(ctx context.Context, id string) error {
	notifications, err := load[domain.Notification](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i, n := range notifications {
		if n.ID != id {
			continue
		}
		n.Read = true
		notifications[i] = n
		return save(ctx, l.kv, l.name, notifications)
	}
	return ErrNotFound
}

func (l *NotificationLedger) MarkAllRead(ctx context.Context) error {
	notifications, err := load[domain.Notification](ctx, l.kv, l.name)
	if err != nil {
		return err
	}
	for i := range notifications {
		notifications[i].Read = true
	}
	return save(ctx, l.kv, l.name, notifications)
}
