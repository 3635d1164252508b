package adjustment

import "context"

// AdjustmentService defines business logic for the correction workflow.
type AdjustmentService interface {
	// Submit creates a pending request against a completed time entry,
	// snapshotting the entry's current times.
	Submit(ctx context.Context, req SubmitRequest) (AdjustmentResponse, error)

	// Approve applies the requested times to the entry and marks the
	// request approved, atomically: either both writes land or neither.
	Approve(ctx context.Context, req ReviewRequest) (AdjustmentResponse, error)

	// Reject marks the request rejected. The time entry is untouched.
	Reject(ctx context.Context, req ReviewRequest) (AdjustmentResponse, error)

	GetRequest(ctx context.Context, id string) (AdjustmentResponse, error)

	// ListRequests retrieves requests with filters (HR view).
	ListRequests(ctx context.Context, filter RequestsFilter) (ListAdjustmentsResponse, error)

	// GetMyRequests retrieves the authenticated employee's requests.
	GetMyRequests(ctx context.Context, employeeID string, filter RequestsFilter) (ListAdjustmentsResponse, error)
}
