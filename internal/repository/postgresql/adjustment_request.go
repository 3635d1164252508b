package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type adjustmentRepository struct {
	db *database.DB
}

// NewAdjustmentRepository creates a new adjustment request repository
func NewAdjustmentRepository(db *database.DB) adjustment.AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

const adjustmentColumns = `
	id, time_entry_id, employee_id, employee_name,
	original_clock_in, original_clock_out,
	requested_clock_in, requested_clock_out,
	reason, reason_text, notes,
	status, reviewed_by, reviewed_at, review_notes,
	created_at`

func scanAdjustment(row pgx.Row) (adjustment.AdjustmentRequest, error) {
	var a adjustment.AdjustmentRequest
	err := row.Scan(
		&a.ID, &a.TimeEntryID, &a.EmployeeID, &a.EmployeeName,
		&a.OriginalClockIn, &a.OriginalClockOut,
		&a.RequestedClockIn, &a.RequestedClockOut,
		&a.Reason, &a.ReasonText, &a.Notes,
		&a.Status, &a.ReviewedBy, &a.ReviewedAt, &a.ReviewNotes,
		&a.CreatedAt,
	)
	if err != nil {
		return adjustment.AdjustmentRequest{}, err
	}
	return a, nil
}

// Create implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) Create(ctx context.Context, request adjustment.AdjustmentRequest) (adjustment.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO adjustment_requests (
			time_entry_id, employee_id, employee_name,
			original_clock_in, original_clock_out,
			requested_clock_in, requested_clock_out,
			reason, reason_text, notes, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		request.TimeEntryID,
		request.EmployeeID,
		request.EmployeeName,
		request.OriginalClockIn,
		request.OriginalClockOut,
		request.RequestedClockIn,
		request.RequestedClockOut,
		request.Reason,
		request.ReasonText,
		request.Notes,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt)

	if err != nil {
		return adjustment.AdjustmentRequest{}, fmt.Errorf("failed to create adjustment request: %w", err)
	}

	return request, nil
}

// GetByID implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) GetByID(ctx context.Context, id string) (adjustment.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + adjustmentColumns + ` FROM adjustment_requests WHERE id = $1`

	request, err := scanAdjustment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adjustment.AdjustmentRequest{}, adjustment.ErrRequestNotFound
		}
		return adjustment.AdjustmentRequest{}, fmt.Errorf("failed to get adjustment request: %w", err)
	}

	return request, nil
}

// MarkReviewed implements adjustment.AdjustmentRepository. The update is
// conditional on status=pending.
func (r *adjustmentRepository) MarkReviewed(ctx context.Context, id string, update adjustment.ReviewUpdate) (adjustment.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE adjustment_requests
		SET status = $2, reviewed_by = $3, reviewed_at = $4, review_notes = $5
		WHERE id = $1 AND status = $6
		RETURNING ` + adjustmentColumns

	request, err := scanAdjustment(q.QueryRow(ctx, query,
		id, update.Status, update.ReviewedBy, update.ReviewedAt, update.ReviewNotes,
		adjustment.StatusPending,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adjustment.AdjustmentRequest{}, adjustment.ErrAlreadyReviewed
		}
		return adjustment.AdjustmentRequest{}, fmt.Errorf("failed to mark adjustment request reviewed: %w", err)
	}

	return request, nil
}

// List implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) List(ctx context.Context, filter adjustment.RequestsFilter) ([]adjustment.AdjustmentRequest, int64, error) {
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

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM adjustment_requests WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count adjustment requests: %w", err)
	}

	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(
		"SELECT %s FROM adjustment_requests WHERE %s ORDER BY created_at %s LIMIT $%d OFFSET $%d",
		adjustmentColumns, where, sortOrder, argPos, argPos+1,
	)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list adjustment requests: %w", err)
	}
	defer rows.Close()

	var requests []adjustment.AdjustmentRequest
	for rows.Next() {
		request, err := scanAdjustment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan adjustment request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate adjustment requests: %w", err)
	}

	return requests, total, nil
}
