package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geo"
	"github.com/jackc/pgx/v5"
)

type timeEntryRepository struct {
	db *database.DB
}

// NewTimeEntryRepository creates a new time entry repository
func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

const timeEntryColumns = `
	id, employee_id, employee_name,
	clock_in, clock_out,
	clock_in_latitude, clock_in_longitude, clock_in_accuracy_meters, clock_in_address, clock_in_captured_at,
	distance_from_office_meters, is_at_office, office_name,
	clock_out_latitude, clock_out_longitude, clock_out_accuracy_meters, clock_out_address, clock_out_captured_at,
	break_minutes, break_started_at,
	status, adjustment_request_id, notes,
	created_at, updated_at`

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	var (
		inLat, inLon, inAcc    *float64
		inAddr                 *string
		inCapturedAt           *time.Time
		distMeters             *float64
		isAtOffice             *bool
		officeName             *string
		outLat, outLon, outAcc *float64
		outAddr                *string
		outCapturedAt          *time.Time
	)

	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.EmployeeName,
		&e.ClockIn, &e.ClockOut,
		&inLat, &inLon, &inAcc, &inAddr, &inCapturedAt,
		&distMeters, &isAtOffice, &officeName,
		&outLat, &outLon, &outAcc, &outAddr, &outCapturedAt,
		&e.BreakMinutes, &e.BreakStartedAt,
		&e.Status, &e.AdjustmentRequestID, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	if inLat != nil && inLon != nil {
		loc := geo.Location{
			Latitude:                 *inLat,
			Longitude:                *inLon,
			AccuracyMeters:           inAcc,
			DistanceFromOfficeMeters: distMeters,
			IsAtOffice:               isAtOffice,
			OfficeName:               officeName,
		}
		if inAddr != nil {
			loc.Address = *inAddr
		}
		if inCapturedAt != nil {
			loc.CapturedAt = *inCapturedAt
		}
		e.ClockInLocation = &loc
	}

	if outLat != nil && outLon != nil {
		loc := geo.Location{
			Latitude:       *outLat,
			Longitude:      *outLon,
			AccuracyMeters: outAcc,
		}
		if outAddr != nil {
			loc.Address = *outAddr
		}
		if outCapturedAt != nil {
			loc.CapturedAt = *outCapturedAt
		}
		e.ClockOutLocation = &loc
	}

	return e, nil
}

// Create implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			employee_id, employee_name, clock_in,
			clock_in_latitude, clock_in_longitude, clock_in_accuracy_meters, clock_in_address, clock_in_captured_at,
			distance_from_office_meters, is_at_office, office_name,
			break_minutes, status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id, created_at, updated_at
	`

	args := createEntryArgs(entry)
	err := q.QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

// CreateExclusive implements timeentry.TimeEntryRepository. The insert is
// conditional on the employee having no entry on the given day, so two
// concurrent sessions cannot both clock in when the single-entry policy
// is on.
func (r *timeEntryRepository) CreateExclusive(ctx context.Context, entry timeentry.TimeEntry, day string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			employee_id, employee_name, clock_in,
			clock_in_latitude, clock_in_longitude, clock_in_accuracy_meters, clock_in_address, clock_in_captured_at,
			distance_from_office_meters, is_at_office, office_name,
			break_minutes, status, notes
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		WHERE NOT EXISTS (
			SELECT 1 FROM time_entries
			WHERE employee_id = $1 AND (clock_in AT TIME ZONE 'UTC')::date = $15::date
		)
		RETURNING id, created_at, updated_at
	`

	args := append(createEntryArgs(entry), day)
	err := q.QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrAlreadyClockedInToday
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

func createEntryArgs(entry timeentry.TimeEntry) []interface{} {
	var (
		inLat, inLon, inAcc *float64
		inAddr              *string
		inCapturedAt        *time.Time
		distMeters          *float64
		isAtOffice          *bool
		officeName          *string
	)
	if loc := entry.ClockInLocation; loc != nil {
		inLat = &loc.Latitude
		inLon = &loc.Longitude
		inAcc = loc.AccuracyMeters
		inAddr = &loc.Address
		inCapturedAt = &loc.CapturedAt
		distMeters = loc.DistanceFromOfficeMeters
		isAtOffice = loc.IsAtOffice
		officeName = loc.OfficeName
	}

	return []interface{}{
		entry.EmployeeID,
		entry.EmployeeName,
		entry.ClockIn,
		inLat, inLon, inAcc, inAddr, inCapturedAt,
		distMeters, isAtOffice, officeName,
		entry.BreakMinutes,
		entry.Status,
		entry.Notes,
	}
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = $1`

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	return entry, nil
}

// GetActiveEntry implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetActiveEntry(ctx context.Context, employeeID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE employee_id = $1 AND status = $2
		ORDER BY clock_in DESC
		LIMIT 1
	`

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, employeeID, timeentry.StatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get active time entry: %w", err)
	}

	return entry, nil
}

// HasEntryOnDay implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) HasEntryOnDay(ctx context.Context, employeeID string, day string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_entries
			WHERE employee_id = $1 AND (clock_in AT TIME ZONE 'UTC')::date = $2::date
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check entries for day: %w", err)
	}

	return exists, nil
}

// Complete implements timeentry.TimeEntryRepository. The update only
// fires while the entry is active.
func (r *timeEntryRepository) Complete(ctx context.Context, id string, update timeentry.CompleteUpdate) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	var (
		outLat, outLon, outAcc *float64
		outAddr                *string
		outCapturedAt          *time.Time
	)
	if loc := update.Location; loc != nil {
		outLat = &loc.Latitude
		outLon = &loc.Longitude
		outAcc = loc.AccuracyMeters
		outAddr = &loc.Address
		outCapturedAt = &loc.CapturedAt
	}

	query := `
		UPDATE time_entries
		SET clock_out = $2,
			clock_out_latitude = $3, clock_out_longitude = $4, clock_out_accuracy_meters = $5,
			clock_out_address = $6, clock_out_captured_at = $7,
			notes = COALESCE($8, notes),
			status = $9,
			updated_at = NOW()
		WHERE id = $1 AND status = $10
		RETURNING ` + timeEntryColumns

	entry, err := scanTimeEntry(q.QueryRow(ctx, query,
		id, update.ClockOut,
		outLat, outLon, outAcc, outAddr, outCapturedAt,
		update.Notes,
		timeentry.StatusCompleted, timeentry.StatusActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotActive
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to complete time entry: %w", err)
	}

	return entry, nil
}

// StartBreak implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) StartBreak(ctx context.Context, id string, startedAt time.Time) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET break_started_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3 AND break_started_at IS NULL
		RETURNING ` + timeEntryColumns

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, id, startedAt, timeentry.StatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish "not active" from "break already open".
			current, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return timeentry.TimeEntry{}, getErr
			}
			if current.Status != timeentry.StatusActive {
				return timeentry.TimeEntry{}, timeentry.ErrEntryNotActive
			}
			return timeentry.TimeEntry{}, timeentry.ErrBreakAlreadyStarted
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to start break: %w", err)
	}

	return entry, nil
}

// EndBreak implements timeentry.TimeEntryRepository. break_minutes only
// ever grows; the guard on break_started_at makes a double end-break a
// no-op that surfaces as ErrBreakNotStarted.
func (r *timeEntryRepository) EndBreak(ctx context.Context, id string, minutes int) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET break_minutes = break_minutes + $2,
			break_started_at = NULL,
			updated_at = NOW()
		WHERE id = $1 AND break_started_at IS NOT NULL
		RETURNING ` + timeEntryColumns

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, id, minutes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrBreakNotStarted
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to end break: %w", err)
	}

	return entry, nil
}

// ApplyAdjustment implements timeentry.TimeEntryRepository. The requested
// times are copied verbatim; a nil clock-out leaves the recorded
// clock-out unchanged.
func (r *timeEntryRepository) ApplyAdjustment(ctx context.Context, id string, update timeentry.AdjustmentUpdate) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET clock_in = $2,
			clock_out = COALESCE($3, clock_out),
			status = $4,
			adjustment_request_id = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = $6
		RETURNING ` + timeEntryColumns

	entry, err := scanTimeEntry(q.QueryRow(ctx, query,
		id, update.ClockIn, update.ClockOut,
		timeentry.StatusAdjusted, update.AdjustmentRequestID,
		timeentry.StatusCompleted,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotActive
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to apply adjustment: %w", err)
	}

	return entry, nil
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, filter timeentry.EntriesFilter) ([]timeentry.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("(clock_in AT TIME ZONE 'UTC')::date >= $%d::date", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("(clock_in AT TIME ZONE 'UTC')::date <= $%d::date", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM time_entries WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	// SortBy/SortOrder are validated against an allow-list in the DTO,
	// never interpolated from raw input.
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "clock_in"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(
		"SELECT %s FROM time_entries WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		timeEntryColumns, where, sortBy, sortOrder, argPos, argPos+1,
	)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	return entries, total, nil
}

// FindStaleActive implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) FindStaleActive(ctx context.Context, cutoff time.Time) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE status = $1 AND clock_in < $2
		ORDER BY clock_in ASC
	`

	rows, err := q.Query(ctx, query, timeentry.StatusActive, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale active entries: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	return entries, nil
}
