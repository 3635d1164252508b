package office

import "context"

// OfficeRepository defines data access methods for offices.
type OfficeRepository interface {
	ListActive(ctx context.Context) ([]Office, error)
	GetByID(ctx context.Context, id string) (Office, error)
}
