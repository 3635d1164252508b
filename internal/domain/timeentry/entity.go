package timeentry

import (
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geo"
)

// Status is the lifecycle state of a time entry.
//
//	active:    clocked in, no clock-out yet
//	completed: clocked out
//	adjusted:  a correction request was approved against the entry (terminal)
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAdjusted  Status = "adjusted"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted || s == StatusAdjusted
}

type TimeEntry struct {
	ID           string
	EmployeeID   string
	EmployeeName string

	ClockIn  time.Time
	ClockOut *time.Time

	ClockInLocation  *geo.Location
	ClockOutLocation *geo.Location

	// BreakMinutes accumulates whole minutes spent on break. It never
	// decreases within an entry's lifetime.
	BreakMinutes int
	// BreakStartedAt is non-nil only while a break is open.
	BreakStartedAt *time.Time

	Status              Status
	AdjustmentRequestID *string
	Notes               *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OnBreak reports whether the entry has an open break.
func (e *TimeEntry) OnBreak() bool {
	return e.BreakStartedAt != nil
}

// WorkedHours returns the net hours worked, or nil while the entry is
// still active.
func (e *TimeEntry) WorkedHours() *float64 {
	if e.ClockOut == nil {
		return nil
	}
	hours := WorkHours(e.ClockIn, *e.ClockOut, e.BreakMinutes)
	return &hours
}

// WorkHours computes net hours worked: the clock-in/clock-out span minus
// break time, clamped at zero. All "hours worked" displays and the
// adjustment-approval recomputation go through this function.
func WorkHours(clockIn, clockOut time.Time, breakMinutes int) float64 {
	hours := clockOut.Sub(clockIn).Hours() - float64(breakMinutes)/60
	if hours < 0 {
		return 0
	}
	return hours
}
