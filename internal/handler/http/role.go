package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RoleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type roleHandlerImpl struct {
	roleService role.RoleService
}

func NewRoleHandler(roleService role.RoleService) RoleHandler {
	return &roleHandlerImpl{roleService: roleService}
}

// Create implements RoleHandler.
func (h *roleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req role.CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.roleService.CreateRole(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Role created successfully", result)
}

// List implements RoleHandler. company_id is required.
func (h *roleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if !requireUUID(w, "company_id", companyID) {
		return
	}

	result, err := h.roleService.ListRoles(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements RoleHandler.
func (h *roleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements RoleHandler.
func (h *roleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req role.UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.roleService.UpdateRole(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role updated successfully", result)
}

// Delete implements RoleHandler.
func (h *roleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.roleService.DeleteRole(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role deleted successfully", nil)
}
