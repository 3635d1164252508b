package adjustment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/repository/postgresql"
)

type AdjustmentServiceImpl struct {
	db *database.DB
	adjustment.AdjustmentRepository
	timeentry.TimeEntryRepository
	notification notification.Service
}

func NewAdjustmentService(
	db *database.DB,
	adjustmentRepo adjustment.AdjustmentRepository,
	entryRepo timeentry.TimeEntryRepository,
	notificationService notification.Service,
) adjustment.AdjustmentService {
	return &AdjustmentServiceImpl{
		db:                   db,
		AdjustmentRepository: adjustmentRepo,
		TimeEntryRepository:  entryRepo,
		notification:         notificationService,
	}
}

// Submit implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Submit(ctx context.Context, req adjustment.SubmitRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	entry, err := s.TimeEntryRepository.GetByID(ctx, req.TimeEntryID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	if entry.EmployeeID != req.EmployeeID {
		return adjustment.AdjustmentResponse{}, adjustment.ErrUnauthorized
	}
	if entry.Status != timeentry.StatusCompleted {
		return adjustment.AdjustmentResponse{}, adjustment.ErrEntryNotCompleted
	}

	request := adjustment.AdjustmentRequest{
		TimeEntryID:  entry.ID,
		EmployeeID:   entry.EmployeeID,
		EmployeeName: entry.EmployeeName,

		OriginalClockIn:  entry.ClockIn,
		OriginalClockOut: entry.ClockOut,

		RequestedClockIn:  req.ParsedClockIn,
		RequestedClockOut: req.ParsedClockOut,

		Reason:     req.Reason,
		ReasonText: req.ReasonText,
		Notes:      req.Notes,
		Status:     adjustment.StatusPending,
	}

	request, err = s.AdjustmentRepository.Create(ctx, request)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	s.notification.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.ForRole(string(employee.RoleHR)),
		Title:    "New adjustment request",
		Message:  fmt.Sprintf("%s requested a time correction (%s)", request.EmployeeName, request.Reason),
		Type:     notification.TypeInfo,
		Category: notification.CategoryAdjustment,
		Data: map[string]interface{}{
			"adjustment_request_id": request.ID,
			"time_entry_id":         request.TimeEntryID,
			"employee_id":           request.EmployeeID,
		},
	})

	return toResponse(request), nil
}

// Approve implements adjustment.AdjustmentService. Applying the new times
// to the entry and marking the request approved happen in one
// transaction; a failure on either side leaves both untouched.
func (s *AdjustmentServiceImpl) Approve(ctx context.Context, req adjustment.ReviewRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	now := time.Now().UTC()

	var reviewed adjustment.AdjustmentRequest
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.AdjustmentRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != adjustment.StatusPending {
			return adjustment.ErrAlreadyReviewed
		}

		_, err = s.TimeEntryRepository.ApplyAdjustment(txCtx, request.TimeEntryID, timeentry.AdjustmentUpdate{
			ClockIn:             request.RequestedClockIn,
			ClockOut:            request.RequestedClockOut,
			AdjustmentRequestID: request.ID,
		})
		if err != nil {
			return err
		}

		reviewed, err = s.AdjustmentRepository.MarkReviewed(txCtx, request.ID, adjustment.ReviewUpdate{
			Status:      adjustment.StatusApproved,
			ReviewedBy:  req.ReviewedBy,
			ReviewedAt:  now,
			ReviewNotes: req.Notes,
		})
		return err
	})
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	s.notification.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.Individual(reviewed.EmployeeID),
		Title:    "Adjustment approved",
		Message:  "Your time correction request was approved",
		Type:     notification.TypeSuccess,
		Category: notification.CategoryAdjustment,
		Data: map[string]interface{}{
			"adjustment_request_id": reviewed.ID,
			"time_entry_id":         reviewed.TimeEntryID,
		},
	})

	return toResponse(reviewed), nil
}

// Reject implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Reject(ctx context.Context, req adjustment.ReviewRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	reviewed, err := s.AdjustmentRepository.MarkReviewed(ctx, req.ID, adjustment.ReviewUpdate{
		Status:      adjustment.StatusRejected,
		ReviewedBy:  req.ReviewedBy,
		ReviewedAt:  time.Now().UTC(),
		ReviewNotes: req.Notes,
	})
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	s.notification.QueueNotification(ctx, notification.CreateNotificationRequest{
		Audience: notification.Individual(reviewed.EmployeeID),
		Title:    "Adjustment rejected",
		Message:  "Your time correction request was rejected",
		Type:     notification.TypeWarning,
		Category: notification.CategoryAdjustment,
		Data: map[string]interface{}{
			"adjustment_request_id": reviewed.ID,
			"time_entry_id":         reviewed.TimeEntryID,
		},
	})

	return toResponse(reviewed), nil
}

// GetRequest implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) GetRequest(ctx context.Context, id string) (adjustment.AdjustmentResponse, error) {
	request, err := s.AdjustmentRepository.GetByID(ctx, id)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	return toResponse(request), nil
}

// ListRequests implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) ListRequests(ctx context.Context, filter adjustment.RequestsFilter) (adjustment.ListAdjustmentsResponse, error) {
	if err := filter.Validate(); err != nil {
		return adjustment.ListAdjustmentsResponse{}, err
	}

	requests, total, err := s.AdjustmentRepository.List(ctx, filter)
	if err != nil {
		return adjustment.ListAdjustmentsResponse{}, err
	}

	responses := make([]adjustment.AdjustmentResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toResponse(request))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return adjustment.ListAdjustmentsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   responses,
	}, nil
}

// GetMyRequests implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) GetMyRequests(ctx context.Context, employeeID string, filter adjustment.RequestsFilter) (adjustment.ListAdjustmentsResponse, error) {
	filter.EmployeeID = &employeeID
	return s.ListRequests(ctx, filter)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

func toResponse(request adjustment.AdjustmentRequest) adjustment.AdjustmentResponse {
	return adjustment.AdjustmentResponse{
		ID:                request.ID,
		TimeEntryID:       request.TimeEntryID,
		EmployeeID:        request.EmployeeID,
		EmployeeName:      request.EmployeeName,
		OriginalClockIn:   request.OriginalClockIn.UTC().Format(time.RFC3339),
		OriginalClockOut:  formatTimePtr(request.OriginalClockOut),
		RequestedClockIn:  request.RequestedClockIn.UTC().Format(time.RFC3339),
		RequestedClockOut: formatTimePtr(request.RequestedClockOut),
		Reason:            request.Reason,
		ReasonText:        request.ReasonText,
		Notes:             request.Notes,
		Status:            request.Status,
		ReviewedBy:        request.ReviewedBy,
		ReviewedAt:        formatTimePtr(request.ReviewedAt),
		ReviewNotes:       request.ReviewNotes,
		CreatedAt:         request.CreatedAt.UTC().Format(time.RFC3339),
	}
}
