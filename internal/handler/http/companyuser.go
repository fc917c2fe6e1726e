package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompanyUserHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByCompany(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	AssignRole(w http.ResponseWriter, r *http.Request)
	RemoveRole(w http.ResponseWriter, r *http.Request)
}

type companyUserHandlerImpl struct {
	companyUserService companyuser.CompanyUserService
}

func NewCompanyUserHandler(companyUserService companyuser.CompanyUserService) CompanyUserHandler {
	return &companyUserHandlerImpl{companyUserService: companyUserService}
}

// Create implements CompanyUserHandler.
func (h *companyUserHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req companyuser.CreateCompanyUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyUserService.CreateCompanyUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company user created successfully", result)
}

// List implements CompanyUserHandler.
func (h *companyUserHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := companyuser.CompanyUserFilter{
		CompanyID: queryString(r, "company_id"),
		UserID:    queryString(r, "user_id"),
		RoleID:    queryString(r, "role_id"),
		IsActive:  queryBool(r, "is_active"),
	}
	if s := queryString(r, "status"); s != nil {
		status := companyuser.Status(*s)
		filter.Status = &status
	}
	h.list(w, r, filter)
}

// ListByCompany implements CompanyUserHandler.
func (h *companyUserHandlerImpl) ListByCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	if !requireUUID(w, "company_id", companyID) {
		return
	}
	h.list(w, r, companyuser.CompanyUserFilter{CompanyID: &companyID})
}

// ListByUser implements CompanyUserHandler.
func (h *companyUserHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireUUID(w, "user_id", userID) {
		return
	}
	h.list(w, r, companyuser.CompanyUserFilter{UserID: &userID})
}

func (h *companyUserHandlerImpl) list(w http.ResponseWriter, r *http.Request, filter companyuser.CompanyUserFilter) {
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyUserService.ListCompanyUsers(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// Get implements CompanyUserHandler.
func (h *companyUserHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.companyUserService.GetCompanyUser(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements CompanyUserHandler.
func (h *companyUserHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req companyuser.UpdateCompanyUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyUserService.UpdateCompanyUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company user updated successfully", result)
}

// Delete implements CompanyUserHandler.
func (h *companyUserHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.companyUserService.DeleteCompanyUser(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company user deleted successfully", nil)
}

// UpdateStatus implements CompanyUserHandler.
func (h *companyUserHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}
	var req companyuser.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyUserService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company user status updated successfully", result)
}

// AssignRole implements CompanyUserHandler.
func (h *companyUserHandlerImpl) AssignRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}
	var req companyuser.AssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyUserService.AssignRole(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role assigned successfully", result)
}

// RemoveRole implements CompanyUserHandler.
func (h *companyUserHandlerImpl) RemoveRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.companyUserService.RemoveRole(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role removed successfully", result)
}
