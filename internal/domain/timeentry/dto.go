package timeentry

import (
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

// ========================================
// TIME ENTRY DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID     string   `json:"-"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	ID             string   `json:"-"`
	EmployeeID     string   `json:"-"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "time entry id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LocationResponse struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Address        string   `json:"address"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
	CapturedAt     string   `json:"captured_at"`

	DistanceFromOfficeMeters *float64 `json:"distance_from_office_meters,omitempty"`
	DistanceFromOffice       *string  `json:"distance_from_office,omitempty"`
	IsAtOffice               *bool    `json:"is_at_office,omitempty"`
	OfficeName               *string  `json:"office_name,omitempty"`
}

type TimeEntryResponse struct {
	ID                  string            `json:"id"`
	EmployeeID          string            `json:"employee_id"`
	EmployeeName        string            `json:"employee_name"`
	ClockIn             string            `json:"clock_in"`
	ClockOut            *string           `json:"clock_out,omitempty"`
	ClockInLocation     *LocationResponse `json:"clock_in_location,omitempty"`
	ClockOutLocation    *LocationResponse `json:"clock_out_location,omitempty"`
	BreakMinutes        int               `json:"break_minutes"`
	OnBreak             bool              `json:"on_break"`
	WorkedHours         *float64          `json:"worked_hours,omitempty"`
	Status              Status            `json:"status"`
	AdjustmentRequestID *string           `json:"adjustment_request_id,omitempty"`
	Notes               *string           `json:"notes,omitempty"`
	CreatedAt           string            `json:"created_at"`
	UpdatedAt           string            `json:"updated_at"`
}

type EntriesFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // clock_in, employee_name, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EntriesFilter) Validate() error {
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
		validStatuses := []string{string(StatusActive), string(StatusCompleted), string(StatusAdjusted)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: active, completed, adjusted",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"clock_in", "employee_name", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: clock_in, employee_name, status",
			})
		}
	} else {
		f.SortBy = "clock_in" // Default sort
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
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListTimeEntriesResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Entries    []TimeEntryResponse `json:"entries"`
}

// TodayStatusResponse tells a client what attendance actions are
// available right now.
type TodayStatusResponse struct {
	HasActiveEntry bool               `json:"has_active_entry"`
	ActiveEntry    *TimeEntryResponse `json:"active_entry,omitempty"`
	ClockedInToday bool               `json:"clocked_in_today"`
	OnBreak        bool               `json:"on_break"`
	CanClockIn     bool               `json:"can_clock_in"`
	CanClockOut    bool               `json:"can_clock_out"`
}
