package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const maxMultipartMemory = 10 << 20

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	ChangeStatus(w http.ResponseWriter, r *http.Request)
	AddComment(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	UserBalance(w http.ResponseWriter, r *http.Request)
	CompanyStats(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// Create implements LeaveHandler. Accepts a JSON body, or multipart with the
// JSON in "data" and an optional "attachment" file.
func (l *LeaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	var attachment *leave.AttachmentUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			slog.Debug("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		dataJSON := r.FormValue("data")
		if dataJSON == "" {
			response.BadRequest(w, "Field 'data' is required", nil)
			return
		}
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		file, fileHeader, err := r.FormFile("attachment")
		if err != nil && err != http.ErrMissingFile {
			slog.Debug("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		if file != nil {
			defer file.Close()
			attachment = &leave.AttachmentUpload{
				File:     file,
				FileName: fileHeader.Filename,
				Size:     fileHeader.Size,
				MimeType: fileHeader.Header.Get("Content-Type"),
			}
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !requireCaller(w, r, req.UserID, req.CompanyID) {
		return
	}

	result, err := l.leaveService.CreateLeave(r.Context(), req, attachment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", result)
}

// List implements LeaveHandler.
func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveFilter{
		CompanyID: queryString(r, "company_id"),
		UserID:    queryString(r, "user_id"),
	}
	if s := queryString(r, "status"); s != nil {
		status := leave.Status(*s)
		filter.Status = &status
	}
	filter.Page, filter.Limit = queryPage(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.ListLeaves(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.MetaFromPage(result.Page))
}

// Get implements LeaveHandler.
func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := l.leaveService.GetLeave(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements LeaveHandler.
func (l *LeaveHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.UpdateLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", result)
}

// Delete implements LeaveHandler.
func (l *LeaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	if err := l.leaveService.RemoveLeave(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

// Approve implements LeaveHandler. The approver defaults to the caller.
func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}
	var req leave.ApproveLeaveRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	req.ID = id
	if req.ApproverID == "" {
		req.ApproverID = claimString(r, "user_id")
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !requireCaller(w, r, req.ApproverID, "") {
		return
	}

	result, err := l.leaveService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// Reject implements LeaveHandler. The approver defaults to the caller.
func (l *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}
	var req leave.RejectLeaveRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	req.ID = id
	if req.ApproverID == "" {
		req.ApproverID = claimString(r, "user_id")
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !requireCaller(w, r, req.ApproverID, "") {
		return
	}

	result, err := l.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}

	result, err := l.leaveService.Cancel(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}

// ChangeStatus implements LeaveHandler.
func (l *LeaveHandlerImpl) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireUUID(w, "id", id) {
		return
	}
	var req leave.ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	if req.ApproverID == nil {
		if caller := claimString(r, "user_id"); caller != "" {
			req.ApproverID = &caller
		}
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if req.ApproverID != nil && !requireCaller(w, r, *req.ApproverID, "") {
		return
	}

	result, err := l.leaveService.ChangeStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave status updated", result)
}

// AddComment implements LeaveHandler.
func (l *LeaveHandlerImpl) AddComment(w http.ResponseWriter, r *http.Request) {
	var req leave.AddCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = claimString(r, "user_id")
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !requireCaller(w, r, req.UserID, "") {
		return
	}

	result, err := l.leaveService.AddComment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Comment added successfully", result)
}

// ListByUser implements LeaveHandler.
func (l *LeaveHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireUUID(w, "user_id", userID) {
		return
	}
	companyID := queryString(r, "company_id")
	if companyID != nil && !requireUUID(w, "company_id", *companyID) {
		return
	}

	result, err := l.leaveService.GetUserLeaves(r.Context(), userID, companyID, queryInt(r, "year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UserBalance implements LeaveHandler. company_id is required.
func (l *LeaveHandlerImpl) UserBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	companyID := r.URL.Query().Get("company_id")
	if !requireUUID(w, "user_id", userID) || !requireUUID(w, "company_id", companyID) {
		return
	}

	result, err := l.leaveService.UserBalance(r.Context(), userID, companyID, queryInt(r, "year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CompanyStats implements LeaveHandler.
func (l *LeaveHandlerImpl) CompanyStats(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	if !requireUUID(w, "company_id", companyID) {
		return
	}

	result, err := l.leaveService.CompanyStats(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
