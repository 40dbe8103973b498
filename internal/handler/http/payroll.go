package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/gulfline-hr/payroll-backend-go/internal/handler/http/response"
	approvalsvc "github.com/gulfline-hr/payroll-backend-go/internal/service/approval"
	payrollsvc "github.com/gulfline-hr/payroll-backend-go/internal/service/payroll"
	"github.com/gulfline-hr/payroll-backend-go/internal/service/payrollsync"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// PayrollHandler defines the payroll handler interface
type PayrollHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService  *payrollsvc.Service
	syncService     *payrollsync.Service
	approvalService *approvalsvc.Service
}

func NewPayrollHandler(payrollService *payrollsvc.Service, syncService *payrollsync.Service, approvalService *approvalsvc.Service) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService:  payrollService,
		syncService:     syncService,
		approvalService: approvalService,
	}
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := payroll.Filter{
		Page:  getIntQueryParam(r, "page", 1),
		Limit: getIntQueryParam(r, "limit", 20),
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if month, err := strconv.Atoi(v); err == nil {
			filter.PeriodMonth = &month
		}
	}
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filter.PeriodYear = &year
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := approval.Status(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}

	result, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *payrollHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	result, err := h.payrollService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := getIntQueryParam(r, "year", now.Year())
	month := getIntQueryParam(r, "month", int(now.Month()))

	result, err := h.payrollService.GetSummary(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	outcomes, err := h.syncService.GenerateForPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll generation finished", outcomes)
}

func (h *payrollHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := approval.Action(chi.URLParam(r, "action"))

	actorID := getUserIDFromContext(r)
	if actorID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req payroll.TransitionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	p, err := h.approvalService.TransitionPayroll(r.Context(), id, actorID, action, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll status updated", payroll.ToResponse(p))
}
