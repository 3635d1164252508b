package adjustment

import "time"

// Status is the review state of an adjustment request. Pending requests
// move to exactly one of approved or rejected; both are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Reason tags why the employee is requesting a correction.
type Reason string

const (
	ReasonForgotClockIn  Reason = "forgot_clock_in"
	ReasonForgotClockOut Reason = "forgot_clock_out"
	ReasonSystemError    Reason = "system_error"
	ReasonWrongTime      Reason = "wrong_time"
	ReasonOther          Reason = "other"
)

// AllReasons returns every valid adjustment reason.
func AllReasons() []Reason {
	return []Reason{
		ReasonForgotClockIn,
		ReasonForgotClockOut,
		ReasonSystemError,
		ReasonWrongTime,
		ReasonOther,
	}
}

func (r Reason) Valid() bool {
	for _, known := range AllReasons() {
		if r == known {
			return true
		}
	}
	return false
}

type AdjustmentRequest struct {
	ID           string
	TimeEntryID  string
	EmployeeID   string
	EmployeeName string

	// Snapshot of the entry at submission time. Immutable thereafter,
	// even if the entry changes again before review.
	OriginalClockIn  time.Time
	OriginalClockOut *time.Time

	RequestedClockIn time.Time
	// Nil means no change requested to the clock-out.
	RequestedClockOut *time.Time

	Reason     Reason
	ReasonText string
	Notes      *string

	Status Status

	// Populated only on approval/rejection.
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNotes *string

	CreatedAt time.Time
}
