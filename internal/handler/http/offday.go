package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/offday"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const defaultUpcomingDays = 30

type OffDayHandler interface {
	UpsertCompanyOff(w http.ResponseWriter, r *http.Request)
	ListCompanyOffs(w http.ResponseWriter, r *http.Request)
	GetCompanyOff(w http.ResponseWriter, r *http.Request)
	UpdateCompanyOff(w http.ResponseWriter, r *http.Request)
	DeleteCompanyOff(w http.ResponseWriter, r *http.Request)
	GetWeekOff(w http.ResponseWriter, r *http.Request)

	CreateOffDay(w http.ResponseWriter, r *http.Request)
	ListByCompany(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	Upcoming(w http.ResponseWriter, r *http.Request)
	GetOffDay(w http.ResponseWriter, r *http.Request)
	UpdateOffDay(w http.ResponseWriter, r *http.Request)
	DeleteOffDay(w http.ResponseWriter, r *http.Request)
}

type offDayHandlerImpl struct {
	offDayService offday.OffDayService
}

func NewOffDayHandler(offDayService offday.OffDayService) OffDayHandler {
	return &offDayHandlerImpl{offDayService: offDayService}
}

// UpsertCompanyOff implements OffDayHandler.
func (h *offDayHandlerImpl) UpsertCompanyOff(w http.ResponseWriter, r *http.Request) {
	var req offday.UpsertCompanyOffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.offDayService.UpsertCompanyOff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company week-off saved successfully", result)
}

// ListCompanyOffs implements OffDayHandler.
func (h *offDayHandlerImpl) ListCompanyOffs(w http.ResponseWriter, r *http.Request) {
	filter := offday.CompanyOffFilter{CompanyID: queryString(r, "company_id")}
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.offDayService.ListCompanyOffs(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// GetCompanyOff implements OffDayHandler.
func (h *offDayHandlerImpl) GetCompanyOff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.offDayService.GetCompanyOff(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateCompanyOff implements OffDayHandler.
func (h *offDayHandlerImpl) UpdateCompanyOff(w http.ResponseWriter, r *http.Request) {
	var req offday.UpdateCompanyOffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.offDayService.UpdateCompanyOff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company week-off updated successfully", result)
}

// DeleteCompanyOff implements OffDayHandler.
func (h *offDayHandlerImpl) DeleteCompanyOff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.offDayService.DeleteCompanyOff(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company week-off deleted successfully", nil)
}

// GetWeekOff implements OffDayHandler.
func (h *offDayHandlerImpl) GetWeekOff(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	if !requireUUID(w, "company_id", companyID) {
		return
	}

	result, err := h.offDayService.GetCompanyWeekOff(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateOffDay implements OffDayHandler.
func (h *offDayHandlerImpl) CreateOffDay(w http.ResponseWriter, r *http.Request) {
	var req offday.CreateOffDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.offDayService.CreateOffDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Off day created successfully", result)
}

// ListByCompany implements OffDayHandler.
func (h *offDayHandlerImpl) ListByCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	if !requireUUID(w, "company_id", companyID) {
		return
	}
	rng, err := offday.ParseRange(r.URL.Query().Get("from_date"), r.URL.Query().Get("to_date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.offDayService.ListOffDaysByCompany(r.Context(), companyID, rng)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByUser implements OffDayHandler. The path id is the company-user id.
func (h *offDayHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	companyUserID := chi.URLParam(r, "userId")
	if !requireUUID(w, "user_id", companyUserID) {
		return
	}
	rng, err := offday.ParseRange(r.URL.Query().Get("from_date"), r.URL.Query().Get("to_date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.offDayService.ListOffDaysByUser(r.Context(), companyUserID, rng)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upcoming implements OffDayHandler.
func (h *offDayHandlerImpl) Upcoming(w http.ResponseWriter, r *http.Request) {
	companyUserID := chi.URLParam(r, "userId")
	if !requireUUID(w, "user_id", companyUserID) {
		return
	}
	days := defaultUpcomingDays
	if d := queryInt(r, "days"); d != nil && *d > 0 {
		days = *d
	}

	result, err := h.offDayService.UpcomingOffDaysForUser(r.Context(), companyUserID, days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetOffDay implements OffDayHandler.
func (h *offDayHandlerImpl) GetOffDay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.offDayService.GetOffDay(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateOffDay implements OffDayHandler.
func (h *offDayHandlerImpl) UpdateOffDay(w http.ResponseWriter, r *http.Request) {
	var req offday.UpdateOffDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.offDayService.UpdateOffDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Off day updated successfully", result)
}

// DeleteOffDay implements OffDayHandler.
func (h *offDayHandlerImpl) DeleteOffDay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.offDayService.DeleteOffDay(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Off day deleted successfully", nil)
}
