package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	UpdateAttribute(w http.ResponseWriter, r *http.Request)
	DeleteAttribute(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", result)
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := shift.ShiftFilter{
		CompanyID:      queryString(r, "company_id"),
		CreatedBy:      queryString(r, "created_by"),
		ShiftName:      queryString(r, "shift_name"),
		AssignedUserID: queryString(r, "assigned_user_id"),
		IsActive:       queryBool(r, "is_active"),
	}
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.ListShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.shiftService.GetShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements ShiftHandler.
func (h *shiftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.UpdateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated successfully", result)
}

// Delete implements ShiftHandler.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.shiftService.DeleteShift(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

// Assign implements ShiftHandler.
func (h *shiftHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req shift.AssignShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.AssignShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment updated successfully", result)
}

// UpdateAttribute implements ShiftHandler.
func (h *shiftHandlerImpl) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateShiftAttributeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.UpdateAttribute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift attribute updated successfully", result)
}

// DeleteAttribute implements ShiftHandler.
func (h *shiftHandlerImpl) DeleteAttribute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.shiftService.DeleteAttribute(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift attribute deleted successfully", nil)
}
