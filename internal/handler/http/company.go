package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	ListRoles(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService     company.CompanyService
	companyUserService companyuser.CompanyUserService
	roleService        role.RoleService
}

func NewCompanyHandler(companyService company.CompanyService, companyUserService companyuser.CompanyUserService, roleService role.RoleService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService:     companyService,
		companyUserService: companyUserService,
		roleService:        roleService,
	}
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.companyService.CreateCompany(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", result)
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := company.CompanyFilter{Name: queryString(r, "name")}
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.companyService.ListCompanies(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// GetByID implements CompanyHandler.
func (c *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := c.companyService.GetCompany(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.companyService.UpdateCompany(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", result)
}

// Delete implements CompanyHandler.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := c.companyService.DeleteCompany(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company deleted successfully", nil)
}

// ListUsers implements CompanyHandler. Only active members are returned.
func (c *CompanyHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}
	if _, err := c.companyService.GetCompany(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	active := true
	filter := companyuser.CompanyUserFilter{CompanyID: &id, IsActive: &active}
	filter.Page, filter.Limit = queryPage(r)
	if filter.Limit == 0 {
		filter.Limit = pagination.MaxLimit
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.companyUserService.ListCompanyUsers(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// ListRoles implements CompanyHandler.
func (c *CompanyHandlerImpl) ListRoles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}
	if _, err := c.companyService.GetCompany(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.roleService.ListRoles(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
