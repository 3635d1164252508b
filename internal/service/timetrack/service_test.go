package timetrack

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geocode"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/service/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============= In-memory fakes =============

type fakeEntryRepo struct {
	entries map[string]timeentry.TimeEntry
	nextID  int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]timeentry.TimeEntry)}
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	r.nextID++
	entry.ID = fmt.Sprintf("entry-%d", r.nextID)
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeEntryRepo) CreateExclusive(ctx context.Context, entry timeentry.TimeEntry, day string) (timeentry.TimeEntry, error) {
	exists, _ := r.HasEntryOnDay(ctx, entry.EmployeeID, day)
	if exists {
		return timeentry.TimeEntry{}, timeentry.ErrAlreadyClockedInToday
	}
	return r.Create(ctx, entry)
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
	}
	return entry, nil
}

func (r *fakeEntryRepo) GetActiveEntry(ctx context.Context, employeeID string) (timeentry.TimeEntry, error) {
	for _, entry := range r.entries {
		if entry.EmployeeID == employeeID && entry.Status == timeentry.StatusActive {
			return entry, nil
		}
	}
	return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
}

func (r *fakeEntryRepo) HasEntryOnDay(ctx context.Context, employeeID string, day string) (bool, error) {
	for _, entry := range r.entries {
		if entry.EmployeeID == employeeID && entry.ClockIn.UTC().Format("2006-01-02") == day {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEntryRepo) Complete(ctx context.Context, id string, update timeentry.CompleteUpdate) (timeentry.TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.Status != timeentry.StatusActive {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotActive
	}
	entry.ClockOut = &update.ClockOut
	entry.Status = timeentry.StatusCompleted
	if update.Notes != nil {
		entry.Notes = update.Notes
	}
	r.entries[id] = entry
	return entry, nil
}

func (r *fakeEntryRepo) StartBreak(ctx context.Context, id string, startedAt time.Time) (timeentry.TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.Status != timeentry.StatusActive {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotActive
	}
	if entry.BreakStartedAt != nil {
		return timeentry.TimeEntry{}, timeentry.ErrBreakAlreadyStarted
	}
	entry.BreakStartedAt = &startedAt
	r.entries[id] = entry
	return entry, nil
}

func (r *fakeEntryRepo) EndBreak(ctx context.Context, id string, minutes int) (timeentry.TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.BreakStartedAt == nil {
		return timeentry.TimeEntry{}, timeentry.ErrBreakNotStarted
	}
	entry.BreakMinutes += minutes
	entry.BreakStartedAt = nil
	r.entries[id] = entry
	return entry, nil
}

func (r *fakeEntryRepo) ApplyAdjustment(ctx context.Context, id string, update timeentry.AdjustmentUpdate) (timeentry.TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.Status != timeentry.StatusCompleted {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotActive
	}
	entry.ClockIn = update.ClockIn
	if update.ClockOut != nil {
		entry.ClockOut = update.ClockOut
	}
	entry.Status = timeentry.StatusAdjusted
	entry.AdjustmentRequestID = &update.AdjustmentRequestID
	r.entries[id] = entry
	return entry, nil
}

func (r *fakeEntryRepo) List(ctx context.Context, filter timeentry.EntriesFilter) ([]timeentry.TimeEntry, int64, error) {
	var result []timeentry.TimeEntry
	for _, entry := range r.entries {
		if filter.EmployeeID != nil && entry.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(entry.Status) != *filter.Status {
			continue
		}
		result = append(result, entry)
	}
	return result, int64(len(result)), nil
}

func (r *fakeEntryRepo) FindStaleActive(ctx context.Context, cutoff time.Time) ([]timeentry.TimeEntry, error) {
	var result []timeentry.TimeEntry
	for _, entry := range r.entries {
		if entry.Status == timeentry.StatusActive && entry.ClockIn.Before(cutoff) {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, emp := range r.employees {
		result = append(result, emp)
	}
	return result, nil
}

type fakeOfficeRepo struct {
	offices []office.Office
}

func (r *fakeOfficeRepo) ListActive(ctx context.Context) ([]office.Office, error) {
	return r.offices, nil
}

func (r *fakeOfficeRepo) GetByID(ctx context.Context, id string) (office.Office, error) {
	for _, o := range r.offices {
		if o.ID == id {
			return o, nil
		}
	}
	return office.Office{}, office.ErrOfficeNotFound
}

type fakeNotifier struct {
	queued []notification.CreateNotificationRequest
}

func (n *fakeNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) {
	n.queued = append(n.queued, req)
}

func (n *fakeNotifier) GetNotifications(ctx context.Context, employeeID string, role string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	return &notification.NotificationListResponse{}, nil
}

func (n *fakeNotifier) GetUnreadCount(ctx context.Context, employeeID string, role string) (int, error) {
	return 0, nil
}

func (n *fakeNotifier) MarkAsRead(ctx context.Context, employeeID string, role string, req notification.MarkAsReadRequest) error {
	return nil
}

func (n *fakeNotifier) MarkAllAsRead(ctx context.Context, employeeID string, role string) error {
	return nil
}

func (n *fakeNotifier) Subscribe(ctx context.Context, employeeID string, role string) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	return ch, func() { close(ch) }
}

func (n *fakeNotifier) Stop() {}

// ============= Test setup =============

type testEnv struct {
	service   timeentry.TimeTrackingService
	entryRepo *fakeEntryRepo
	notifier  *fakeNotifier
}

func newTestEnv(t *testing.T, cfg Config, offices ...office.Office) *testEnv {
	t.Helper()

	entryRepo := newFakeEntryRepo()
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Name: "Ayu Lestari", Email: "ayu@example.com", Role: employee.RoleEmployee},
		"emp-2": {ID: "emp-2", Name: "Budi Santoso", Email: "budi@example.com", Role: employee.RoleEmployee},
	}}
	notifier := &fakeNotifier{}
	resolver := location.NewResolver(geocode.Noop{}, &fakeOfficeRepo{offices: offices})

	return &testEnv{
		service:   NewTimeTrackingService(cfg, entryRepo, employeeRepo, resolver, notifier),
		entryRepo: entryRepo,
		notifier:  notifier,
	}
}

func clockInReq(employeeID string) timeentry.ClockInRequest {
	return timeentry.ClockInRequest{
		EmployeeID: employeeID,
		Latitude:   -6.2088,
		Longitude:  106.8456,
	}
}

// ============= Tests =============

func TestTimeTrackingService_ClockIn_Success(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	result, err := env.service.ClockIn(ctx, clockInReq("emp-1"))

	require.NoError(t, err)
	assert.Equal(t, "emp-1", result.EmployeeID)
	assert.Equal(t, "Ayu Lestari", result.EmployeeName)
	assert.Equal(t, timeentry.StatusActive, result.Status)
	assert.Nil(t, result.ClockOut)
	assert.Nil(t, result.WorkedHours)
	require.NotNil(t, result.ClockInLocation)
	// Without a geocoder the address falls back to the raw coordinates.
	assert.Equal(t, "-6.208800, 106.845600", result.ClockInLocation.Address)
}

func TestTimeTrackingService_ClockIn_NotifiesHR(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	_, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	require.Len(t, env.notifier.queued, 1)
	queued := env.notifier.queued[0]
	assert.Equal(t, notification.ForRole("hr"), queued.Audience)
	assert.Equal(t, notification.CategoryAttendance, queued.Category)
	assert.Contains(t, queued.Message, "Ayu Lestari")
}

func TestTimeTrackingService_ClockIn_OfficeProximity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{}, office.Office{
		ID:           "office-1",
		Name:         "Jakarta HQ",
		Latitude:     -6.2088,
		Longitude:    106.8456,
		RadiusMeters: 150,
		IsActive:     true,
	})

	result, err := env.service.ClockIn(ctx, clockInReq("emp-1"))

	require.NoError(t, err)
	require.NotNil(t, result.ClockInLocation)
	loc := result.ClockInLocation
	require.NotNil(t, loc.IsAtOffice)
	assert.True(t, *loc.IsAtOffice)
	require.NotNil(t, loc.OfficeName)
	assert.Equal(t, "Jakarta HQ", *loc.OfficeName)
	require.NotNil(t, loc.DistanceFromOfficeMeters)
	assert.Less(t, *loc.DistanceFromOfficeMeters, 1.0)
}

func TestTimeTrackingService_ClockIn_InvalidCoordinates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	req := clockInReq("emp-1")
	req.Latitude = 91

	_, err := env.service.ClockIn(ctx, req)
	assert.Error(t, err)
}

func TestTimeTrackingService_ClockIn_UnknownEmployee(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	_, err := env.service.ClockIn(ctx, clockInReq("emp-missing"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestTimeTrackingService_ClockIn_SingleEntryPolicy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{SingleEntryPerDay: true})

	first, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = env.service.ClockOut(ctx, timeentry.ClockOutRequest{
		ID:         first.ID,
		EmployeeID: "emp-1",
		Latitude:   -6.2088,
		Longitude:  106.8456,
	})
	require.NoError(t, err)

	// Second clock-in the same day is rejected even though no entry is active.
	_, err = env.service.ClockIn(ctx, clockInReq("emp-1"))
	assert.ErrorIs(t, err, timeentry.ErrAlreadyClockedInToday)

	// A different employee is unaffected.
	_, err = env.service.ClockIn(ctx, clockInReq("emp-2"))
	assert.NoError(t, err)
}

func TestTimeTrackingService_ClockIn_MultipleEntriesWhenPolicyOff(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{SingleEntryPerDay: false})

	first, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = env.service.ClockOut(ctx, timeentry.ClockOutRequest{
		ID:         first.ID,
		EmployeeID: "emp-1",
		Latitude:   -6.2088,
		Longitude:  106.8456,
	})
	require.NoError(t, err)

	second, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTimeTrackingService_ClockOut_Success(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	created, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	// Backdate the clock-in so worked hours are meaningful.
	entry := env.entryRepo.entries[created.ID]
	entry.ClockIn = time.Now().UTC().Add(-8 * time.Hour)
	env.entryRepo.entries[created.ID] = entry

	result, err := env.service.ClockOut(ctx, timeentry.ClockOutRequest{
		ID:         created.ID,
		EmployeeID: "emp-1",
		Latitude:   -6.21,
		Longitude:  106.85,
	})

	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusCompleted, result.Status)
	require.NotNil(t, result.ClockOut)
	require.NotNil(t, result.WorkedHours)
	assert.InDelta(t, 8.0, *result.WorkedHours, 0.05)

	// Clock-in and clock-out notifications.
	require.Len(t, env.notifier.queued, 2)
	assert.True(t, strings.Contains(env.notifier.queued[1].Message, "clocked out"))
}

func TestTimeTrackingService_ClockOut_WrongEmployee(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	created, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = env.service.ClockOut(ctx, timeentry.ClockOutRequest{
		ID:         created.ID,
		EmployeeID: "emp-2",
		Latitude:   -6.21,
		Longitude:  106.85,
	})
	assert.ErrorIs(t, err, timeentry.ErrUnauthorized)
}

func TestTimeTrackingService_ClockOut_AlreadyCompleted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	created, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	req := timeentry.ClockOutRequest{
		ID:         created.ID,
		EmployeeID: "emp-1",
		Latitude:   -6.21,
		Longitude:  106.85,
	}

	_, err = env.service.ClockOut(ctx, req)
	require.NoError(t, err)

	_, err = env.service.ClockOut(ctx, req)
	assert.ErrorIs(t, err, timeentry.ErrEntryNotActive)
}

func TestTimeTrackingService_ClockOut_ClosesOpenBreak(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	created, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = env.service.StartBreak(ctx, "emp-1")
	require.NoError(t, err)

	result, err := env.service.ClockOut(ctx, timeentry.ClockOutRequest{
		ID:         created.ID,
		EmployeeID: "emp-1",
		Latitude:   -6.21,
		Longitude:  106.85,
	})

	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusCompleted, result.Status)
	assert.False(t, result.OnBreak)
}

func TestTimeTrackingService_Breaks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	_, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	result, err := env.service.StartBreak(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, result.OnBreak)

	// Starting a second break while one is open fails.
	_, err = env.service.StartBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, timeentry.ErrBreakAlreadyStarted)

	result, err = env.service.EndBreak(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, result.OnBreak)

	// Ending again without an open break fails.
	_, err = env.service.EndBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, timeentry.ErrBreakNotStarted)
}

func TestTimeTrackingService_StartBreak_NoActiveEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	_, err := env.service.StartBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, timeentry.ErrTimeEntryNotFound)
}

func TestTimeTrackingService_TodayStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	status, err := env.service.TodayStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, status.HasActiveEntry)
	assert.True(t, status.CanClockIn)
	assert.False(t, status.CanClockOut)

	created, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	status, err = env.service.TodayStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, status.HasActiveEntry)
	assert.True(t, status.ClockedInToday)
	assert.False(t, status.CanClockIn)
	assert.True(t, status.CanClockOut)
	require.NotNil(t, status.ActiveEntry)
	assert.Equal(t, created.ID, status.ActiveEntry.ID)

	_, err = env.service.ClockOut(ctx, timeentry.ClockOutRequest{
		ID:         created.ID,
		EmployeeID: "emp-1",
		Latitude:   -6.21,
		Longitude:  106.85,
	})
	require.NoError(t, err)

	status, err = env.service.TodayStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, status.HasActiveEntry)
	assert.True(t, status.ClockedInToday)
	assert.True(t, status.CanClockIn)
}

func TestTimeTrackingService_TodayStatus_SingleEntryPolicy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{SingleEntryPerDay: true})

	created, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = env.service.ClockOut(ctx, timeentry.ClockOutRequest{
		ID:         created.ID,
		EmployeeID: "emp-1",
		Latitude:   -6.21,
		Longitude:  106.85,
	})
	require.NoError(t, err)

	status, err := env.service.TodayStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, status.CanClockIn)
}

func TestTimeTrackingService_GetMyEntries_ScopedToEmployee(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Config{})

	_, err := env.service.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)
	_, err = env.service.ClockIn(ctx, clockInReq("emp-2"))
	require.NoError(t, err)

	result, err := env.service.GetMyEntries(ctx, "emp-1", timeentry.EntriesFilter{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "emp-1", result.Entries[0].EmployeeID)
}

func TestBreakMinutesSince(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		startedAt time.Time
		want      int
	}{
		{"whole minutes", now.Add(-30 * time.Minute), 30},
		{"floors partial minute", now.Add(-90 * time.Second), 1},
		{"sub-minute break", now.Add(-30 * time.Second), 0},
		{"clock skew clamps to zero", now.Add(time.Minute), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, breakMinutesSince(tt.startedAt, now))
		})
	}
}
