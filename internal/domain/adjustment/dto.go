package adjustment

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

// ========================================
// ADJUSTMENT REQUEST DTOs
// ========================================

type SubmitRequest struct {
	TimeEntryID       string  `json:"time_entry_id"`
	EmployeeID        string  `json:"-"`
	RequestedClockIn  string  `json:"requested_clock_in"`            // RFC3339
	RequestedClockOut *string `json:"requested_clock_out,omitempty"` // RFC3339
	Reason            Reason  `json:"reason"`
	ReasonText        string  `json:"reason_text"`
	Notes             *string `json:"notes,omitempty"`

	// Parsed during validation.
	ParsedClockIn  time.Time  `json:"-"`
	ParsedClockOut *time.Time `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TimeEntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_entry_id",
			Message: "time_entry_id is required",
		})
	}

	if validator.IsEmpty(r.RequestedClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_clock_in",
			Message: "requested_clock_in is required",
		})
	} else if t, valid := validator.IsValidDateTime(r.RequestedClockIn); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_clock_in",
			Message: "requested_clock_in must be an ISO8601 timestamp",
		})
	} else {
		r.ParsedClockIn = t
	}

	if r.RequestedClockOut != nil && *r.RequestedClockOut != "" {
		if t, valid := validator.IsValidDateTime(*r.RequestedClockOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_clock_out",
				Message: "requested_clock_out must be an ISO8601 timestamp",
			})
		} else {
			r.ParsedClockOut = &t
		}
	}

	if r.ParsedClockOut != nil && !r.ParsedClockOut.After(r.ParsedClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_clock_out",
			Message: "requested_clock_out must be after requested_clock_in",
		})
	}

	if !r.Reason.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be one of: forgot_clock_in, forgot_clock_out, system_error, wrong_time, other",
		})
	}

	if validator.IsEmpty(r.ReasonText) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason_text",
			Message: "reason_text is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReviewRequest approves or rejects a pending adjustment request.
type ReviewRequest struct {
	ID         string  `json:"-"`
	ReviewedBy string  `json:"-"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "adjustment request id is required",
		})
	}

	if validator.IsEmpty(r.ReviewedBy) {
		errs = append(errs, validator.ValidationError{
			Field:   "reviewed_by",
			Message: "reviewer identity is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdjustmentResponse struct {
	ID                string  `json:"id"`
	TimeEntryID       string  `json:"time_entry_id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name"`
	OriginalClockIn   string  `json:"original_clock_in"`
	OriginalClockOut  *string `json:"original_clock_out,omitempty"`
	RequestedClockIn  string  `json:"requested_clock_in"`
	RequestedClockOut *string `json:"requested_clock_out,omitempty"`
	Reason            Reason  `json:"reason"`
	ReasonText        string  `json:"reason_text"`
	Notes             *string `json:"notes,omitempty"`
	Status            Status  `json:"status"`
	ReviewedBy        *string `json:"reviewed_by,omitempty"`
	ReviewedAt        *string `json:"reviewed_at,omitempty"`
	ReviewNotes       *string `json:"review_notes,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

type RequestsFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc (by created_at)
}

func (f *RequestsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		validStatuses := []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, approved, rejected",
			})
		}
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAdjustmentsResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Requests   []AdjustmentResponse `json:"requests"`
}
