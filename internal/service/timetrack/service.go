package timetrack

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/service/location"
)

// Config holds attendance policy switches for the service.
type Config struct {
	// SingleEntryPerDay rejects a clock-in when the employee already has
	// an entry whose clock-in falls on the current UTC day.
	SingleEntryPerDay bool
}

type TimeTrackingServiceImpl struct {
	cfg Config
	timeentry.TimeEntryRepository
	employee.EmployeeRepository
	resolver     *location.Resolver
	notification notification.Service
}

func NewTimeTrackingService(
	cfg Config,
	entryRepo timeentry.TimeEntryRepository,
	employeeRepo employee.EmployeeRepository,
	resolver *location.Resolver,
	notificationService notification.Service,
) timeentry.TimeTrackingService {
	return &TimeTrackingServiceImpl{
		cfg:                 cfg,
		TimeEntryRepository: entryRepo,
		EmployeeRepository:  employeeRepo,
		resolver:            resolver,
		notification:        notificationService,
	}
}

// ClockIn implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) ClockIn(ctx context.Context, req timeentry.ClockInRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	now := time.Now().UTC()

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	loc, err := s.resolver.Resolve(ctx, req.Latitude, req.Longitude, req.AccuracyMeters)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	s.resolver.AnnotateOfficeProximity(ctx, &loc)

	entry := timeentry.TimeEntry{
		EmployeeID:      emp.ID,
		EmployeeName:    emp.Name,
		ClockIn:         now,
		ClockInLocation: &loc,
		Status:          timeentry.StatusActive,
		Notes:           req.Notes,
	}

	if s.cfg.SingleEntryPerDay {
		entry, err = s.TimeEntryRepository.CreateExclusive(ctx, entry, now.Format("2006-01-02"))
	} else {
		entry, err = s.TimeEntryRepository.Create(ctx, entry)
	}
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	s.notification.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.ForRole(string(employee.RoleHR)),
		Title:    "Employee clocked in",
		Message:  fmt.Sprintf("%s clocked in at %s", emp.Name, loc.Address),
		Type:     notification.TypeInfo,
		Category: notification.CategoryAttendance,
		Data: map[string]interface{}{
			"time_entry_id": entry.ID,
			"employee_id":   entry.EmployeeID,
		},
	})

	return toResponse(entry), nil
}

// ClockOut implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) ClockOut(ctx context.Context, req timeentry.ClockOutRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	now := time.Now().UTC()

	entry, err := s.TimeEntryRepository.GetByID(ctx, req.ID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if entry.EmployeeID != req.EmployeeID {
		return timeentry.TimeEntryResponse{}, timeentry.ErrUnauthorized
	}

	// An open break ends implicitly at clock-out.
	if entry.OnBreak() {
		minutes := breakMinutesSince(*entry.BreakStartedAt, now)
		entry, err = s.TimeEntryRepository.EndBreak(ctx, entry.ID, minutes)
		if err != nil {
			return timeentry.TimeEntryResponse{}, err
		}
	}

	loc, err := s.resolver.Resolve(ctx, req.Latitude, req.Longitude, req.AccuracyMeters)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	entry, err = s.TimeEntryRepository.Complete(ctx, entry.ID, timeentry.CompleteUpdate{
		ClockOut: now,
		Location: locationUpdate(loc),
		Notes:    req.Notes,
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	hours := timeentry.WorkHours(entry.ClockIn, now, entry.BreakMinutes)
	s.notification.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.ForRole(string(employee.RoleHR)),
		Title:    "Employee clocked out",
		Message:  fmt.Sprintf("%s clocked out after %.2f hours", entry.EmployeeName, hours),
		Type:     notification.TypeInfo,
		Category: notification.CategoryAttendance,
		Data: map[string]interface{}{
			"time_entry_id": entry.ID,
			"employee_id":   entry.EmployeeID,
			"worked_hours":  hours,
		},
	})

	return toResponse(entry), nil
}

// StartBreak implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) StartBreak(ctx context.Context, employeeID string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.TimeEntryRepository.GetActiveEntry(ctx, employeeID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	entry, err = s.TimeEntryRepository.StartBreak(ctx, entry.ID, time.Now().UTC())
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	return toResponse(entry), nil
}

// EndBreak implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) EndBreak(ctx context.Context, employeeID string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.TimeEntryRepository.GetActiveEntry(ctx, employeeID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if !entry.OnBreak() {
		return timeentry.TimeEntryResponse{}, timeentry.ErrBreakNotStarted
	}

	minutes := breakMinutesSince(*entry.BreakStartedAt, time.Now().UTC())
	entry, err = s.TimeEntryRepository.EndBreak(ctx, entry.ID, minutes)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	return toResponse(entry), nil
}

// GetEntry implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) GetEntry(ctx context.Context, id string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.TimeEntryRepository.GetByID(ctx, id)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	return toResponse(entry), nil
}

// GetMyEntries implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) GetMyEntries(ctx context.Context, employeeID string, filter timeentry.EntriesFilter) (timeentry.ListTimeEntriesResponse, error) {
	filter.EmployeeID = &employeeID
	return s.ListEntries(ctx, filter)
}

// ListEntries implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) ListEntries(ctx context.Context, filter timeentry.EntriesFilter) (timeentry.ListTimeEntriesResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeentry.ListTimeEntriesResponse{}, err
	}

	entries, total, err := s.TimeEntryRepository.List(ctx, filter)
	if err != nil {
		return timeentry.ListTimeEntriesResponse{}, err
	}

	responses := make([]timeentry.TimeEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toResponse(entry))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return timeentry.ListTimeEntriesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Entries:    responses,
	}, nil
}

// TodayStatus implements timeentry.TimeTrackingService.
func (s *TimeTrackingServiceImpl) TodayStatus(ctx context.Context, employeeID string) (timeentry.TodayStatusResponse, error) {
	status := timeentry.TodayStatusResponse{}

	entry, err := s.TimeEntryRepository.GetActiveEntry(ctx, employeeID)
	switch {
	case err == nil:
		resp := toResponse(entry)
		status.HasActiveEntry = true
		status.ActiveEntry = &resp
		status.OnBreak = entry.OnBreak()
		status.CanClockOut = true
	case errors.Is(err, timeentry.ErrTimeEntryNotFound):
		// No active entry; fall through to the day check.
	default:
		return timeentry.TodayStatusResponse{}, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	clockedInToday, err := s.TimeEntryRepository.HasEntryOnDay(ctx, employeeID, today)
	if err != nil {
		return timeentry.TodayStatusResponse{}, err
	}
	status.ClockedInToday = clockedInToday

	status.CanClockIn = !status.HasActiveEntry
	if s.cfg.SingleEntryPerDay && clockedInToday {
		status.CanClockIn = false
	}

	return status, nil
}

// breakMinutesSince floors the elapsed break time to whole minutes, so
// break_minutes only ever accumulates full minutes.
func breakMinutesSince(startedAt, now time.Time) int {
	minutes := int(now.Sub(startedAt).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

func locationUpdate(loc geo.Location) *timeentry.LocationUpdate {
	return &timeentry.LocationUpdate{
		Latitude:                 loc.Latitude,
		Longitude:                loc.Longitude,
		Address:                  loc.Address,
		AccuracyMeters:           loc.AccuracyMeters,
		CapturedAt:               loc.CapturedAt,
		DistanceFromOfficeMeters: loc.DistanceFromOfficeMeters,
		IsAtOffice:               loc.IsAtOffice,
		OfficeName:               loc.OfficeName,
	}
}

func toLocationResponse(loc *geo.Location) *timeentry.LocationResponse {
	if loc == nil {
		return nil
	}

	resp := &timeentry.LocationResponse{
		Latitude:                 loc.Latitude,
		Longitude:                loc.Longitude,
		Address:                  loc.Address,
		AccuracyMeters:           loc.AccuracyMeters,
		CapturedAt:               loc.CapturedAt.Format(time.RFC3339),
		DistanceFromOfficeMeters: loc.DistanceFromOfficeMeters,
		IsAtOffice:               loc.IsAtOffice,
		OfficeName:               loc.OfficeName,
	}
	if loc.DistanceFromOfficeMeters != nil {
		formatted := geo.FormatDistance(*loc.DistanceFromOfficeMeters)
		resp.DistanceFromOffice = &formatted
	}

	return resp
}

func toResponse(entry timeentry.TimeEntry) timeentry.TimeEntryResponse {
	var clockOut *string
	if entry.ClockOut != nil {
		formatted := entry.ClockOut.UTC().Format(time.RFC3339)
		clockOut = &formatted
	}

	return timeentry.TimeEntryResponse{
		ID:                  entry.ID,
		EmployeeID:          entry.EmployeeID,
		EmployeeName:        entry.EmployeeName,
		ClockIn:             entry.ClockIn.UTC().Format(time.RFC3339),
		ClockOut:            clockOut,
		ClockInLocation:     toLocationResponse(entry.ClockInLocation),
		ClockOutLocation:    toLocationResponse(entry.ClockOutLocation),
		BreakMinutes:        entry.BreakMinutes,
		OnBreak:             entry.OnBreak(),
		WorkedHours:         entry.WorkedHours(),
		Status:              entry.Status,
		AdjustmentRequestID: entry.AdjustmentRequestID,
		Notes:               entry.Notes,
		CreatedAt:           entry.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
