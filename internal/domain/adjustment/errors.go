package adjustment

import "errors"

// Adjustment domain errors
var (
	ErrRequestNotFound   = errors.New("adjustment request not found")
	ErrEntryNotCompleted = errors.New("time entry must be completed before requesting an adjustment")
	ErrAlreadyReviewed   = errors.New("adjustment request has already been approved or rejected")
	ErrUnauthorized      = errors.New("unauthorized to access this adjustment request")
)
