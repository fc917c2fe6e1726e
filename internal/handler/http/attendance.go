package http

import (
	"net"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	FindUser(w http.ResponseWriter, r *http.Request)
	CheckStatus(w http.ResponseWriter, r *http.Request)
	CheckShift(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// PunchIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IPAddress == nil {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
			req.IPAddress = &host
		}
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !requireCaller(w, r, req.UserID, req.CompanyID) {
		return
	}

	result, err := h.attendanceService.PunchIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punched in successfully", result)
}

// PunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !requireCaller(w, r, req.UserID, req.CompanyID) {
		return
	}

	result, err := h.attendanceService.PunchOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punched out successfully", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		CompanyID:     queryString(r, "company_id"),
		UserID:        queryString(r, "user_id"),
		CompanyUserID: queryString(r, "company_user_id"),
		StartDate:     queryString(r, "start_date"),
		EndDate:       queryString(r, "end_date"),
		UserName:      queryString(r, "user_name"),
	}
	if s := queryString(r, "final_status"); s != nil {
		status := attendance.Status(*s)
		filter.FinalStatus = &status
	}
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// FindUser implements AttendanceHandler.
func (h *attendanceHandlerImpl) FindUser(w http.ResponseWriter, r *http.Request) {
	filter := attendance.UserAttendanceFilter{
		CompanyID: r.URL.Query().Get("company_id"),
		UserID:    r.URL.Query().Get("user_id"),
		Date:      queryString(r, "date"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.FindUserAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckStatus implements AttendanceHandler. at defaults to now.
func (h *attendanceHandlerImpl) CheckStatus(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	userID := r.URL.Query().Get("user_id")
	if !requireUUID(w, "company_id", companyID) || !requireUUID(w, "user_id", userID) {
		return
	}
	at := time.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.ValidationError(w, map[string]string{"at": "at must be an RFC3339 timestamp"})
			return
		}
		at = parsed
	}

	result, err := h.attendanceService.CheckStatus(r.Context(), companyID, userID, at)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckShift implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckShift(w http.ResponseWriter, r *http.Request) {
	companyUserID := r.URL.Query().Get("company_user_id")
	companyID := r.URL.Query().Get("company_id")
	if !requireUUID(w, "company_user_id", companyUserID) || !requireUUID(w, "company_id", companyID) {
		return
	}

	response.Success(w, h.attendanceService.CheckShift(r.Context(), companyUserID, companyID))
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	companyID := chi.URLParam(r, "companyId")
	if !requireUUID(w, "user_id", userID) || !requireUUID(w, "company_id", companyID) {
		return
	}

	result, err := h.attendanceService.Summary(r.Context(), userID, companyID, r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}
