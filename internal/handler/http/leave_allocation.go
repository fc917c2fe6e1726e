package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveAllocationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListAttributes(w http.ResponseWriter, r *http.Request)
	GetAttribute(w http.ResponseWriter, r *http.Request)
	UpdateAttribute(w http.ResponseWriter, r *http.Request)
	DeleteAttribute(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	AddCarryForward(w http.ResponseWriter, r *http.Request)
	ListCarryForward(w http.ResponseWriter, r *http.Request)
	RemoveCarryForward(w http.ResponseWriter, r *http.Request)
}

type leaveAllocationHandlerImpl struct {
	allocationService leave.AllocationService
}

func NewLeaveAllocationHandler(allocationService leave.AllocationService) LeaveAllocationHandler {
	return &leaveAllocationHandlerImpl{allocationService: allocationService}
}

// Create implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateAllocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.allocationService.CreateAllocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave allocation created successfully", result)
}

// ListAttributes implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) ListAttributes(w http.ResponseWriter, r *http.Request) {
	filter := leave.AttributeFilter{
		CompanyID: queryString(r, "company_id"),
		Year:      queryInt(r, "year"),
		Role:      queryString(r, "role"),
		LeaveName: queryString(r, "leave_name"),
		IsActive:  queryBool(r, "is_active"),
	}
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.allocationService.ListAttributes(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// GetAttribute implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) GetAttribute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.allocationService.GetAttribute(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateAttribute implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateAttributeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.allocationService.UpdateAttribute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave allocation updated successfully", result)
}

// DeleteAttribute implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) DeleteAttribute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.allocationService.DeleteAttribute(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave allocation deleted successfully", nil)
}

// ListRecords implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := leave.RecordFilter{
		CompanyID:        queryString(r, "company_id"),
		CompanyUserID:    queryString(r, "company_user_id"),
		UserID:           queryString(r, "user_id"),
		LeaveAttributeID: queryString(r, "leave_attribute_id"),
		Year:             queryInt(r, "year"),
	}
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.allocationService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// GetRecord implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.allocationService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AddCarryForward implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) AddCarryForward(w http.ResponseWriter, r *http.Request) {
	var req leave.AddCarryForwardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.allocationService.AddCarryForward(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Carry-forward added successfully", result)
}

// ListCarryForward implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) ListCarryForward(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordId")
	if !requireUUID(w, "record_id", recordID) {
		return
	}

	result, err := h.allocationService.ListCarryForward(r.Context(), recordID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RemoveCarryForward implements LeaveAllocationHandler.
func (h *leaveAllocationHandlerImpl) RemoveCarryForward(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.allocationService.RemoveCarryForward(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Carry-forward removed successfully", result)
}
