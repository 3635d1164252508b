package timeentry

import "errors"

// Time entry domain errors
var (
	// Clock-in errors
	ErrAlreadyClockedInToday = errors.New("you have already clocked in today")
	ErrLocationUnavailable   = errors.New("location could not be determined")

	// Clock-out and break errors
	ErrEntryNotActive      = errors.New("time entry is not active")
	ErrBreakNotStarted     = errors.New("no break in progress")
	ErrBreakAlreadyStarted = errors.New("a break is already in progress")

	// General errors
	ErrTimeEntryNotFound = errors.New("time entry not found")
	ErrUnauthorized      = errors.New("unauthorized to access this time entry")
)
