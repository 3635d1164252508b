package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrHRAccessRequired):
		Forbidden(w, "HR role required")

	// Time entry domain errors
	case errors.Is(err, timeentry.ErrAlreadyClockedInToday):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, timeentry.ErrLocationUnavailable):
		UnprocessableEntity(w, "Location could not be determined")
	case errors.Is(err, timeentry.ErrEntryNotActive):
		Conflict(w, "Time entry is not active")
	case errors.Is(err, timeentry.ErrBreakNotStarted):
		Conflict(w, "No break in progress")
	case errors.Is(err, timeentry.ErrBreakAlreadyStarted):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, timeentry.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this time entry")

	// Adjustment domain errors
	case errors.Is(err, adjustment.ErrRequestNotFound):
		NotFound(w, "Adjustment request not found")
	case errors.Is(err, adjustment.ErrEntryNotCompleted):
		Conflict(w, "Time entry must be completed before requesting an adjustment")
	case errors.Is(err, adjustment.ErrAlreadyReviewed):
		Conflict(w, "Adjustment request already reviewed")
	case errors.Is(err, adjustment.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this adjustment request")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this notification")

	// Office domain errors
	case errors.Is(err, office.ErrOfficeNotFound):
		NotFound(w, "Office not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
