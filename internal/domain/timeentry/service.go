package timeentry

import (
	"context"
)

// TimeTrackingService defines business logic for the attendance lifecycle.
type TimeTrackingService interface {
	// ClockIn opens a new active entry for the authenticated employee.
	ClockIn(ctx context.Context, req ClockInRequest) (TimeEntryResponse, error)

	// ClockOut completes an active entry and computes hours worked.
	ClockOut(ctx context.Context, req ClockOutRequest) (TimeEntryResponse, error)

	// StartBreak opens a break on the employee's active entry.
	StartBreak(ctx context.Context, employeeID string) (TimeEntryResponse, error)

	// EndBreak closes the open break, accumulating whole minutes.
	EndBreak(ctx context.Context, employeeID string) (TimeEntryResponse, error)

	// GetEntry retrieves a single entry by ID.
	GetEntry(ctx context.Context, id string) (TimeEntryResponse, error)

	// GetMyEntries retrieves entries for the authenticated employee.
	GetMyEntries(ctx context.Context, employeeID string, filter EntriesFilter) (ListTimeEntriesResponse, error)

	// ListEntries retrieves entries across employees (HR).
	ListEntries(ctx context.Context, filter EntriesFilter) (ListTimeEntriesResponse, error)

	// TodayStatus reports what attendance actions are currently available.
	TodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)
}
