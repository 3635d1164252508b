package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeEntryHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	TodayStatus(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetMyEntries(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type timeEntryHandlerImpl struct {
	timeTrackingService timeentry.TimeTrackingService
}

func NewTimeEntryHandler(timeTrackingService timeentry.TimeTrackingService) TimeEntryHandler {
	return &timeEntryHandlerImpl{
		timeTrackingService: timeTrackingService,
	}
}

// ClockIn implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req timeentry.ClockInRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClockIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.EmployeeID(r)

	result, err := h.timeTrackingService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req timeentry.ClockOutRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.EmployeeID = middleware.EmployeeID(r)

	result, err := h.timeTrackingService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// StartBreak implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeTrackingService.StartBreak(r.Context(), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", result)
}

// EndBreak implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeTrackingService.EndBreak(r.Context(), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// TodayStatus implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) TodayStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeTrackingService.TodayStatus(r.Context(), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements TimeEntryHandler. Employees may only read their own
// entries; HR may read any.
func (h *timeEntryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Time entry ID is required", nil)
		return
	}

	result, err := h.timeTrackingService.GetEntry(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if middleware.Role(r) != string(employee.RoleHR) && result.EmployeeID != middleware.EmployeeID(r) {
		response.HandleError(w, timeentry.ErrUnauthorized)
		return
	}

	response.Success(w, result)
}

// GetMyEntries implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) GetMyEntries(w http.ResponseWriter, r *http.Request) {
	filter := parseEntriesFilter(r)

	result, err := h.timeTrackingService.GetMyEntries(r.Context(), middleware.EmployeeID(r), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// List implements TimeEntryHandler (HR only, routed behind RequireHR).
func (h *timeEntryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseEntriesFilter(r)

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	result, err := h.timeTrackingService.ListEntries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func parseEntriesFilter(r *http.Request) timeentry.EntriesFilter {
	q := r.URL.Query()

	filter := timeentry.EntriesFilter{
		Page:      getIntQueryParam(r, "page", 0),
		Limit:     getIntQueryParam(r, "limit", 0),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}
	if startDate := q.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := q.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	return filter
}
