package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo records writes; workers call it concurrently.
type fakeRepo struct {
	mu      sync.Mutex
	stored  []*notification.Notification
	lastGet struct {
		page     int
		pageSize int
	}
}

func (r *fakeRepo) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, n)
	return nil
}

func (r *fakeRepo) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, notifications...)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	return nil, notification.ErrNotificationNotFound
}

func (r *fakeRepo) GetForRecipient(ctx context.Context, employeeID string, role string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastGet.page = page
	r.lastGet.pageSize = pageSize
	return nil, 0, nil
}

func (r *fakeRepo) GetUnreadCount(ctx context.Context, employeeID string, role string) (int, error) {
	return 0, nil
}

func (r *fakeRepo) MarkAsRead(ctx context.Context, ids []string, employeeID string, role string) error {
	return nil
}

func (r *fakeRepo) MarkAllAsRead(ctx context.Context, employeeID string, role string) error {
	return nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

func receiveEvent(t *testing.T, ch <-chan notification.SSEEvent) notification.SSEEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SSE event")
		return notification.SSEEvent{}
	}
}

func TestNotificationService_QueueAndDeliver(t *testing.T) {
	repo := &fakeRepo{}
	hub := sse.NewHub()
	service := NewNotificationService(repo, hub, Config{FlushInterval: 20 * time.Millisecond})
	defer service.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cleanup := service.Subscribe(ctx, "emp-1", "employee")
	defer cleanup()

	service.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.Individual("emp-1"),
		Title:    "Adjustment approved",
		Message:  "Your time correction request was approved",
		Type:     notification.TypeSuccess,
		Category: notification.CategoryAdjustment,
	})

	event := receiveEvent(t, events)
	assert.Equal(t, "notification", event.Event)
	assert.Equal(t, "Adjustment approved", event.Data.Title)
	assert.Equal(t, notification.TypeSuccess, event.Data.Type)
	assert.Equal(t, notification.AudienceIndividual, event.Data.AudienceKind)
	assert.NotEmpty(t, event.Data.ID)

	assert.Equal(t, 1, repo.count())
}

func TestNotificationService_RoleFanOut(t *testing.T) {
	repo := &fakeRepo{}
	hub := sse.NewHub()
	service := NewNotificationService(repo, hub, Config{FlushInterval: 20 * time.Millisecond})
	defer service.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hrEvents, hrCleanup := service.Subscribe(ctx, "hr-1", "hr")
	defer hrCleanup()
	empEvents, empCleanup := service.Subscribe(ctx, "emp-1", "employee")
	defer empCleanup()

	service.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.ForRole("hr"),
		Title:    "New adjustment request",
		Message:  "Ayu Lestari requested a time correction",
		Type:     notification.TypeInfo,
		Category: notification.CategoryAdjustment,
	})

	event := receiveEvent(t, hrEvents)
	assert.Equal(t, notification.AudienceRole, event.Data.AudienceKind)

	// The role audience never reaches an employee subscriber.
	select {
	case leaked := <-empEvents:
		t.Fatalf("employee subscriber received role notification: %+v", leaked)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotificationService_BroadcastReachesEveryone(t *testing.T) {
	repo := &fakeRepo{}
	hub := sse.NewHub()
	service := NewNotificationService(repo, hub, Config{FlushInterval: 20 * time.Millisecond})
	defer service.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hrEvents, hrCleanup := service.Subscribe(ctx, "hr-1", "hr")
	defer hrCleanup()
	empEvents, empCleanup := service.Subscribe(ctx, "emp-1", "employee")
	defer empCleanup()

	service.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.Broadcast(),
		Title:    "Office closed Friday",
		Message:  "The office is closed for the public holiday",
		Type:     notification.TypeInfo,
		Category: notification.CategorySystem,
	})

	assert.Equal(t, notification.AudienceBroadcast, receiveEvent(t, hrEvents).Data.AudienceKind)
	assert.Equal(t, notification.AudienceBroadcast, receiveEvent(t, empEvents).Data.AudienceKind)
}

func TestNotificationService_InvalidAudienceDropped(t *testing.T) {
	repo := &fakeRepo{}
	service := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: 20 * time.Millisecond})

	service.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		Title:   "Orphaned",
		Message: "No audience",
	})

	service.Stop()
	assert.Equal(t, 0, repo.count())
}

func TestNotificationService_StopFlushesPending(t *testing.T) {
	repo := &fakeRepo{}
	// A long flush interval so only Stop can flush.
	service := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Minute})

	service.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		Audience: notification.Individual("emp-1"),
		Title:    "Pending at shutdown",
		Message:  "Still in the queue",
	})

	service.Stop()
	assert.Equal(t, 1, repo.count())
}

func TestNotificationService_DirectInsertWhenQueueFull(t *testing.T) {
	repo := &fakeRepo{}
	// One-slot queue and a flush interval long enough that workers leave
	// the queued item in place.
	service := NewNotificationService(repo, sse.NewHub(), Config{QueueSize: 1, FlushInterval: time.Minute, WorkerCount: 1})
	defer service.Stop()

	ctx := context.Background()
	req := notification.CreateNotificationRequest{
		Audience: notification.Individual("emp-1"),
		Title:    "Filler",
		Message:  "Fills the queue",
	}

	// Saturate the queue, then overflow. The overflow lands in the repo
	// immediately through the direct insert path.
	deadline := time.Now().Add(2 * time.Second)
	for repo.count() == 0 {
		require.True(t, time.Now().Before(deadline), "direct insert never happened")
		service.QueueNotification(ctx, req)
	}
}

func TestNotificationService_GetNotifications_PaginationDefaults(t *testing.T) {
	repo := &fakeRepo{}
	service := NewNotificationService(repo, sse.NewHub(), Config{})
	defer service.Stop()

	_, err := service.GetNotifications(context.Background(), "emp-1", "employee", 0, 500, false)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lastGet.page)
	assert.Equal(t, 20, repo.lastGet.pageSize)
}
