package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type officeRepository struct {
	db *database.DB
}

// NewOfficeRepository creates a new office repository
func NewOfficeRepository(db *database.DB) office.OfficeRepository {
	return &officeRepository{db: db}
}

const officeColumns = `id, name, latitude, longitude, radius_meters, is_active, created_at, updated_at`

// ListActive implements office.OfficeRepository.
func (r *officeRepository) ListActive(ctx context.Context) ([]office.Office, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + officeColumns + ` FROM offices WHERE is_active = TRUE ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	defer rows.Close()

	var offices []office.Office
	for rows.Next() {
		var o office.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Latitude, &o.Longitude, &o.RadiusMeters, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offices: %w", err)
	}

	return offices, nil
}

// GetByID implements office.OfficeRepository.
func (r *officeRepository) GetByID(ctx context.Context, id string) (office.Office, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + officeColumns + ` FROM offices WHERE id = $1`

	var o office.Office
	err := q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.Latitude, &o.Longitude, &o.RadiusMeters, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrOfficeNotFound
		}
		return office.Office{}, fmt.Errorf("failed to get office: %w", err)
	}

	return o, nil
}
