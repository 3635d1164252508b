package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AdjustmentHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type adjustmentHandlerImpl struct {
	adjustmentService adjustment.AdjustmentService
}

func NewAdjustmentHandler(adjustmentService adjustment.AdjustmentService) AdjustmentHandler {
	return &adjustmentHandlerImpl{
		adjustmentService: adjustmentService,
	}
}

// Submit implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req adjustment.SubmitRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit adjustment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.EmployeeID(r)

	result, err := h.adjustmentService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment request submitted", result)
}

// reviewRequestBody is the optional JSON body for approve/reject.
type reviewRequestBody struct {
	Notes *string `json:"notes,omitempty"`
}

func (h *adjustmentHandlerImpl) decodeReview(r *http.Request) adjustment.ReviewRequest {
	req := adjustment.ReviewRequest{
		ID:         chi.URLParam(r, "id"),
		ReviewedBy: middleware.EmployeeID(r),
	}

	var body reviewRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		req.Notes = body.Notes
	}

	return req
}

// Approve implements AdjustmentHandler (HR only).
func (h *adjustmentHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.adjustmentService.Approve(r.Context(), h.decodeReview(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment request approved", result)
}

// Reject implements AdjustmentHandler (HR only).
func (h *adjustmentHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	result, err := h.adjustmentService.Reject(r.Context(), h.decodeReview(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment request rejected", result)
}

// Get implements AdjustmentHandler. Employees may only read their own
// requests; HR may read any.
func (h *adjustmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Adjustment request ID is required", nil)
		return
	}

	result, err := h.adjustmentService.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if middleware.Role(r) != string(employee.RoleHR) && result.EmployeeID != middleware.EmployeeID(r) {
		response.HandleError(w, adjustment.ErrUnauthorized)
		return
	}

	response.Success(w, result)
}

// GetMyRequests implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	filter := parseRequestsFilter(r)

	result, err := h.adjustmentService.GetMyRequests(r.Context(), middleware.EmployeeID(r), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// List implements AdjustmentHandler (HR only, routed behind RequireHR).
func (h *adjustmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseRequestsFilter(r)

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	result, err := h.adjustmentService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func parseRequestsFilter(r *http.Request) adjustment.RequestsFilter {
	q := r.URL.Query()

	filter := adjustment.RequestsFilter{
		Page:      getIntQueryParam(r, "page", 0),
		Limit:     getIntQueryParam(r, "limit", 0),
		SortOrder: q.Get("sort_order"),
	}

	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}

	return filter
}
