package http

import (
	"encoding/json"
	"net/http"

	adjdomain "github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/handler/http/response"
	adjsvc "github.com/gulfline-hr/payroll-backend-go/internal/service/adjustment"
	approvalsvc "github.com/gulfline-hr/payroll-backend-go/internal/service/approval"
	"github.com/go-chi/chi/v5"
)

// AdjustmentHandler defines the bonus/reimbursement/deduction/overtime
// handler interface
type AdjustmentHandler interface {
	CreateRecord(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	TransitionRecord(w http.ResponseWriter, r *http.Request)

	CreateOvertime(w http.ResponseWriter, r *http.Request)
	GetOvertime(w http.ResponseWriter, r *http.Request)
	ApproveOvertime(w http.ResponseWriter, r *http.Request)
	RejectOvertime(w http.ResponseWriter, r *http.Request)
}

type adjustmentHandlerImpl struct {
	adjService      *adjsvc.Service
	approvalService *approvalsvc.Service
}

func NewAdjustmentHandler(adjService *adjsvc.Service, approvalService *approvalsvc.Service) AdjustmentHandler {
	return &adjustmentHandlerImpl{
		adjService:      adjService,
		approvalService: approvalService,
	}
}

func kindFromURL(r *http.Request) approval.Kind {
	switch chi.URLParam(r, "kind") {
	case "bonuses":
		return approval.KindBonus
	case "reimbursements":
		return approval.KindReimbursement
	case "deductions":
		return approval.KindDeduction
	default:
		return ""
	}
}

func (h *adjustmentHandlerImpl) CreateRecord(w http.ResponseWriter, r *http.Request) {
	kind := kindFromURL(r)
	if kind == "" {
		response.NotFound(w, "Unknown adjustment kind")
		return
	}

	var req adjdomain.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.adjService.CreateRecord(r.Context(), kind, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Record created", result)
}

func (h *adjustmentHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	kind := kindFromURL(r)
	if kind == "" {
		response.NotFound(w, "Unknown adjustment kind")
		return
	}

	result, err := h.adjService.GetRecord(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type transitionBody struct {
	Reason *string `json:"reason,omitempty"`
}

func (h *adjustmentHandlerImpl) TransitionRecord(w http.ResponseWriter, r *http.Request) {
	kind := kindFromURL(r)
	if kind == "" {
		response.NotFound(w, "Unknown adjustment kind")
		return
	}

	id := chi.URLParam(r, "id")
	action := approval.Action(chi.URLParam(r, "action"))

	actorID := getUserIDFromContext(r)
	if actorID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var body transitionBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	rec, err := h.approvalService.TransitionAdjustment(r.Context(), kind, id, actorID, action, body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record status updated", adjdomain.ToRecordResponse(rec))
}

func (h *adjustmentHandlerImpl) CreateOvertime(w http.ResponseWriter, r *http.Request) {
	var req adjdomain.CreateOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.adjService.CreateOvertime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime created", result)
}

func (h *adjustmentHandlerImpl) GetOvertime(w http.ResponseWriter, r *http.Request) {
	result, err := h.adjService.GetOvertime(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *adjustmentHandlerImpl) ApproveOvertime(w http.ResponseWriter, r *http.Request) {
	actorID := getUserIDFromContext(r)
	if actorID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	ot, err := h.approvalService.ApproveOvertime(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime approved", adjdomain.ToOvertimeResponse(ot))
}

type rejectOvertimeBody struct {
	Reason string `json:"reason"`
}

func (h *adjustmentHandlerImpl) RejectOvertime(w http.ResponseWriter, r *http.Request) {
	actorID := getUserIDFromContext(r)
	if actorID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var body rejectOvertimeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if body.Reason == "" {
		response.BadRequest(w, "reason is required", nil)
		return
	}

	ot, err := h.approvalService.RejectOvertime(r.Context(), chi.URLParam(r, "id"), actorID, body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rejected", adjdomain.ToOvertimeResponse(ot))
}
