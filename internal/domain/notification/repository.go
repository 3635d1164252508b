package notification

import (
	"context"
)

// Repository defines the notification repository interface.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)

	// GetForRecipient returns notifications visible to an employee: their
	// individual audience, the broadcast audience, and their role audience.
	GetForRecipient(ctx context.Context, employeeID string, role string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)

	GetUnreadCount(ctx context.Context, employeeID string, role string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, employeeID string, role string) error
	MarkAllAsRead(ctx context.Context, employeeID string, role string) error
}
