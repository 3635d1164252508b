package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnauthorized         = errors.New("unauthorized to access this notification")
	ErrInvalidAudience      = errors.New("invalid notification audience")
	ErrQueueFull            = errors.New("notification queue is full")
)
