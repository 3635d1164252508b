package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 50
	FlushInterval time.Duration // default: 500ms
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	// Set defaults
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 500 * time.Millisecond
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	// Start background workers
	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker is the background worker that processes the notification queue
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = newNotification(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("Notification batch insert failed", "worker", id, "count", len(notifications), "error", err)
		} else {
			for _, n := range notifications {
				s.publish(n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			flush()
			return
		}
	}
}

// QueueNotification implements notification.Service. Delivery is
// best-effort: a full queue with a failed direct insert is logged and
// the triggering workflow proceeds unaffected.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) {
	if !req.Audience.Valid() {
		slog.Error("Dropping notification with invalid audience", "kind", req.Audience.Kind, "value", req.Audience.Value)
		return
	}

	select {
	case s.queue <- req:
	default:
		// Queue full, try direct insert
		if err := s.directInsert(ctx, req); err != nil {
			slog.Error("Notification dropped, queue full and direct insert failed", "error", err)
		}
	}
}

// directInsert inserts a notification directly when the queue is full
func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := newNotification(req)

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.publish(n)

	return nil
}

func newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:        uuid.New().String(),
		Audience:  req.Audience,
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		Category:  req.Category,
		Data:      req.Data,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
}

// publish pushes a stored notification to the live subscribers of its
// audience topic.
func (s *service) publish(n *notification.Notification) {
	s.hub.Publish(n.Audience.Topic(), sse.Event{
		Event: "notification",
		Data:  toResponse(n),
	})
}

// toResponse converts a Notification entity to NotificationResponse
func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:           n.ID,
		AudienceKind: n.Audience.Kind,
		Title:        n.Title,
		Message:      n.Message,
		Type:         n.Type,
		Category:     n.Category,
		Data:         n.Data,
		IsRead:       n.IsRead,
		ReadAt:       n.ReadAt,
		CreatedAt:    n.CreatedAt,
	}
}

// GetNotifications retrieves paginated notifications visible to an employee
func (s *service) GetNotifications(ctx context.Context, employeeID string, role string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetForRecipient(ctx, employeeID, role, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, employeeID, role)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications visible to an employee
func (s *service) GetUnreadCount(ctx context.Context, employeeID string, role string) (int, error) {
	return s.repo.GetUnreadCount(ctx, employeeID, role)
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, employeeID string, role string, req notification.MarkAsReadRequest) error {
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, employeeID, role)
}

// MarkAllAsRead marks all visible notifications as read
func (s *service) MarkAllAsRead(ctx context.Context, employeeID string, role string) error {
	return s.repo.MarkAllAsRead(ctx, employeeID, role)
}

// Subscribe creates an SSE subscription covering the employee's
// individual, broadcast, and role audiences.
func (s *service) Subscribe(ctx context.Context, employeeID string, role string) (<-chan notification.SSEEvent, func()) {
	topics := []string{
		notification.Individual(employeeID).Topic(),
		notification.Broadcast().Topic(),
		notification.ForRole(role).Topic(),
	}
	ch, cleanup := s.hub.Subscribe(topics...)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if resp, ok := event.Data.(notification.NotificationResponse); ok {
					out <- notification.SSEEvent{
						Event: event.Event,
						Data:  resp,
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("Notification service stopped")
}
