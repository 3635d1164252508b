package adjustment

import (
	"context"
	"time"
)

// AdjustmentRepository defines data access methods for adjustment requests.
type AdjustmentRepository interface {
	Create(ctx context.Context, request AdjustmentRequest) (AdjustmentRequest, error)

	GetByID(ctx context.Context, id string) (AdjustmentRequest, error)

	// MarkReviewed moves a pending request to approved or rejected. The
	// update is conditional on status=pending; ErrAlreadyReviewed is
	// returned when the request was reviewed concurrently.
	MarkReviewed(ctx context.Context, id string, update ReviewUpdate) (AdjustmentRequest, error)

	List(ctx context.Context, filter RequestsFilter) ([]AdjustmentRequest, int64, error)
}

// ReviewUpdate carries the terminal review mutation.
type ReviewUpdate struct {
	Status      Status
	ReviewedBy  string
	ReviewedAt  time.Time
	ReviewNotes *string
}
