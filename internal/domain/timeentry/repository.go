package timeentry

import (
	"context"
	"time"
)

// TimeEntryRepository defines data access methods for time entries.
// The state-guarded methods (Complete, StartBreak, EndBreak,
// ApplyAdjustment) use conditional updates so a concurrent writer cannot
// drive an entry through an illegal transition.
type TimeEntryRepository interface {
	// Create inserts a new active entry.
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	// CreateExclusive inserts a new active entry only if the employee has
	// no entry whose clock-in falls on the given local day (YYYY-MM-DD).
	// Returns ErrAlreadyClockedInToday otherwise.
	CreateExclusive(ctx context.Context, entry TimeEntry, day string) (TimeEntry, error)

	GetByID(ctx context.Context, id string) (TimeEntry, error)

	// GetActiveEntry returns the employee's most recent active entry, or
	// ErrTimeEntryNotFound when none exists.
	GetActiveEntry(ctx context.Context, employeeID string) (TimeEntry, error)

	// HasEntryOnDay reports whether the employee has any entry for the
	// given local day (YYYY-MM-DD).
	HasEntryOnDay(ctx context.Context, employeeID string, day string) (bool, error)

	// Complete clocks the entry out. Only fires while status=active;
	// returns ErrEntryNotActive otherwise.
	Complete(ctx context.Context, id string, update CompleteUpdate) (TimeEntry, error)

	// StartBreak records an open break. Requires status=active and no
	// break in progress (ErrEntryNotActive / ErrBreakAlreadyStarted).
	StartBreak(ctx context.Context, id string, startedAt time.Time) (TimeEntry, error)

	// EndBreak closes the open break, adding minutes to the accumulated
	// total. Requires an open break (ErrBreakNotStarted).
	EndBreak(ctx context.Context, id string, minutes int) (TimeEntry, error)

	// ApplyAdjustment overwrites the recorded times from an approved
	// adjustment request and marks the entry adjusted. Only fires while
	// status=completed.
	ApplyAdjustment(ctx context.Context, id string, update AdjustmentUpdate) (TimeEntry, error)

	// List retrieves entries with filters and pagination. When
	// filter.EmployeeID is set, results are restricted to that employee.
	List(ctx context.Context, filter EntriesFilter) ([]TimeEntry, int64, error)

	// FindStaleActive returns active entries whose clock-in is older than
	// the cutoff. Used by the stale-entry watchdog.
	FindStaleActive(ctx context.Context, cutoff time.Time) ([]TimeEntry, error)
}

// CompleteUpdate carries the clock-out mutation.
type CompleteUpdate struct {
	ClockOut time.Time
	Location *LocationUpdate
	Notes    *string
}

// AdjustmentUpdate carries the approved-adjustment mutation.
type AdjustmentUpdate struct {
	ClockIn             time.Time
	ClockOut            *time.Time
	AdjustmentRequestID string
}

// LocationUpdate carries a resolved location for persistence.
type LocationUpdate struct {
	Latitude                 float64
	Longitude                float64
	Address                  string
	AccuracyMeters           *float64
	CapturedAt               time.Time
	DistanceFromOfficeMeters *float64
	IsAtOffice               *bool
	OfficeName               *string
}
