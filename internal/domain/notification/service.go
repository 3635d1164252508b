package notification

import (
	"context"
)

// Service defines the notification service interface. Queueing is
// best-effort by design: a queue failure is logged, never propagated to
// the workflow that triggered the notification.
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest)

	// Direct operations
	GetNotifications(ctx context.Context, employeeID string, role string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, employeeID string, role string) (int, error)
	MarkAsRead(ctx context.Context, employeeID string, role string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, employeeID string, role string) error

	// SSE subscription on the recipient's audience topics
	Subscribe(ctx context.Context, employeeID string, role string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
