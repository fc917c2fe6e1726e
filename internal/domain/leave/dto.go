package leave

import (
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

func parseDate(s string) time.Time {
	d, _ := time.Parse(dateLayout, s)
	return d
}

type CreateLeaveRequest struct {
	CompanyID   string  `json:"company_id" validate:"required,uuid"`
	UserID      string  `json:"user_id" validate:"required,uuid"`
	LeaveTypeID string  `json:"leave_type_id" validate:"required,uuid"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason      *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
	Status      *Status `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_REVIEW APPROVED"`
}

func (r *CreateLeaveRequest) Validate() error {
	errs := validator.Collect(nil, r)
	if len(errs) == 0 && !parseDate(r.EndDate).After(parseDate(r.StartDate)) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed range of a validated request.
func (r CreateLeaveRequest) Dates() (time.Time, time.Time) {
	return parseDate(r.StartDate), parseDate(r.EndDate)
}

// InitialStatus defaults to PENDING.
func (r CreateLeaveRequest) InitialStatus() Status {
	if r.Status == nil {
		return StatusPending
	}
	return *r.Status
}

// AttachmentUpload is a file received alongside a leave request.
type AttachmentUpload struct {
	File     io.Reader
	FileName string
	Size     int64
	MimeType string
}

var allowedAttachmentExts = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}

// ValidateAttachment checks the extension and size limit.
func ValidateAttachment(a AttachmentUpload, maxSize int64) error {
	name := strings.ToLower(a.FileName)
	dot := strings.LastIndex(name, ".")
	if dot < 0 || !validator.IsInSlice(name[dot:], allowedAttachmentExts) {
		return validator.ValidationErrors{{
			Field:   "attachment",
			Message: "attachment must be one of: pdf, jpg, jpeg, png, doc, docx",
		}}
	}
	if a.Size <= 0 || (maxSize > 0 && a.Size > maxSize) {
		return validator.ValidationErrors{{
			Field:   "attachment",
			Message: "attachment size is out of range",
		}}
	}
	return nil
}

type UpdateLeaveRequest struct {
	ID        string  `json:"-"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Reason == nil && r.StartDate == nil && r.EndDate == nil {
		errs = append(errs, validator.ValidationError{Field: "request", Message: "at least one field must be provided"})
	}
	errs = validator.Collect(errs, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveLeaveRequest struct {
	ID         string `json:"-"`
	ApproverID string `json:"approver_id" validate:"required,uuid"`
}

func (r *ApproveLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type RejectLeaveRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"approver_id" validate:"required,uuid"`
	Reason     *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

func (r *RejectLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type ChangeStatusRequest struct {
	ID         string  `json:"-"`
	ApproverID *string `json:"approver_id,omitempty" validate:"omitempty,uuid"`
	Status     Status  `json:"status" validate:"required,oneof=PENDING IN_REVIEW APPROVED REJECTED CANCELLED"`
	Reason     *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

func (r *ChangeStatusRequest) Validate() error {
	errs := validator.Collect(nil, r)
	if r.Status == StatusApproved && r.ApproverID == nil {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver_id is required to approve"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddCommentRequest struct {
	LeaveID string `json:"leave_id" validate:"required,uuid"`
	UserID  string `json:"user_id" validate:"required,uuid"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

func (r *AddCommentRequest) Validate() error {
	r.Comment = strings.TrimSpace(r.Comment)
	return validator.Struct(r)
}

type LeaveFilter struct {
	CompanyID *string
	UserID    *string
	Status    *Status
	Page      int
	Limit     int
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.CompanyID != nil && !validator.IsValidUUID(*f.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id must be a valid UUID"})
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if f.Status != nil && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status is invalid"})
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateAllocationRequest struct {
	CompanyID     string   `json:"company_id" validate:"required,uuid"`
	Year          int      `json:"year" validate:"required,gte=2000,lte=2100"`
	LeaveName     string   `json:"leave_name" validate:"required,max=100"`
	Roles         []string `json:"roles" validate:"required,min=1,unique,dive,required,max=100"`
	AllocatedDays float64  `json:"allocated_days" validate:"gt=0,lte=366"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

func (r *CreateAllocationRequest) Validate() error {
	r.LeaveName = strings.TrimSpace(r.LeaveName)
	for i := range r.Roles {
		r.Roles[i] = strings.TrimSpace(r.Roles[i])
	}
	return validator.Struct(r)
}

type UpdateAttributeRequest struct {
	ID            string   `json:"-"`
	LeaveName     *string  `json:"leave_name,omitempty" validate:"omitempty,max=100"`
	AllocatedDays *float64 `json:"allocated_days,omitempty" validate:"omitempty,gt=0,lte=366"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

func (r *UpdateAttributeRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.LeaveName != nil && validator.IsEmpty(*r.LeaveName) {
		errs = append(errs, validator.ValidationError{Field: "leave_name", Message: "leave_name must not be empty"})
	}
	errs = validator.Collect(errs, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttributeFilter struct {
	CompanyID *string
	Year      *int
	Role      *string
	LeaveName *string
	IsActive  *bool
	Page      int
	Limit     int
}

func (f *AttributeFilter) Validate() error {
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	if f.CompanyID != nil && !validator.IsValidUUID(*f.CompanyID) {
		return validator.ValidationErrors{{Field: "company_id", Message: "company_id must be a valid UUID"}}
	}
	return nil
}

type RecordFilter struct {
	CompanyID        *string
	CompanyUserID    *string
	UserID           *string
	LeaveAttributeID *string
	Year             *int
	Page             int
	Limit            int
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors
	for field, v := range map[string]*string{
		"company_id":         f.CompanyID,
		"company_user_id":    f.CompanyUserID,
		"user_id":            f.UserID,
		"leave_attribute_id": f.LeaveAttributeID,
	} {
		if v != nil && !validator.IsValidUUID(*v) {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be a valid UUID"})
		}
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddCarryForwardRequest struct {
	UsersLeaveRecordID string  `json:"users_leave_record_id" validate:"required,uuid"`
	Days               float64 `json:"days"`
	Year               int     `json:"year" validate:"required,gte=2000,lte=2100"`
}

func (r *AddCarryForwardRequest) Validate() error {
	return validator.Struct(r)
}

type CommentResponse struct {
	ID        string    `json:"id"`
	LeaveID   string    `json:"leave_id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type AttachmentResponse struct {
	ID        string    `json:"id"`
	LeaveID   string    `json:"leave_id"`
	Path      string    `json:"path"`
	URL       string    `json:"url,omitempty"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

type LeaveResponse struct {
	ID                 string               `json:"id"`
	CompanyID          string               `json:"company_id"`
	UserID             string               `json:"user_id"`
	CompanyUserID      string               `json:"company_user_id"`
	LeaveTypeID        string               `json:"leave_type_id"`
	LeaveName          *string              `json:"leave_name,omitempty"`
	UsersLeaveRecordID string               `json:"users_leave_record_id"`
	StartDate          string               `json:"start_date"`
	EndDate            string               `json:"end_date"`
	LeaveDays          float64              `json:"leave_days"`
	Status             Status               `json:"status"`
	ApproverID         *string              `json:"approver_id,omitempty"`
	Reason             *string              `json:"reason,omitempty"`
	RejectionReason    *string              `json:"rejection_reason,omitempty"`
	Comments           []CommentResponse    `json:"comments,omitempty"`
	Attachments        []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type ListLeaveResponse struct {
	pagination.Page
	Leaves []LeaveResponse `json:"leaves"`
}

type LeaveStatsResponse struct {
	CompanyID string `json:"company_id"`
	Total     int64  `json:"total"`
	Pending   int64  `json:"pending"`
	InReview  int64  `json:"in_review"`
	Approved  int64  `json:"approved"`
	Rejected  int64  `json:"rejected"`
	Cancelled int64  `json:"cancelled"`
}

type AttributeResponse struct {
	ID            string    `json:"id"`
	AllocationID  string    `json:"allocation_id"`
	CompanyID     string    `json:"company_id"`
	Year          int       `json:"year"`
	LeaveName     string    `json:"leave_name"`
	Role          string    `json:"role"`
	AllocatedDays float64   `json:"allocated_days"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListAttributeResponse struct {
	pagination.Page
	Attributes []AttributeResponse `json:"attributes"`
}

type CreateAllocationResponse struct {
	AllocationID   string              `json:"allocation_id"`
	Attributes     []AttributeResponse `json:"attributes"`
	RecordsCreated int                 `json:"records_created"`
}

type CarryForwardResponse struct {
	ID                 string    `json:"id"`
	UsersLeaveRecordID string    `json:"users_leave_record_id"`
	Days               float64   `json:"days"`
	Year               int       `json:"year"`
	CreatedAt          time.Time `json:"created_at"`
}

type RecordResponse struct {
	ID               string                 `json:"id"`
	CompanyUserID    string                 `json:"company_user_id"`
	UserID           string                 `json:"user_id"`
	LeaveAttributeID string                 `json:"leave_attribute_id"`
	Year             int                    `json:"year"`
	UsedDays         float64                `json:"used_days"`
	RemainingDays    float64                `json:"remaining_days"`
	CarriedOverDays  float64                `json:"carried_over_days"`
	Attribute        *AttributeResponse     `json:"leave_attribute,omitempty"`
	CarryForwards    []CarryForwardResponse `json:"carry_forward_days,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

type ListRecordResponse struct {
	pagination.Page
	Records []RecordResponse `json:"records"`
}

type BalanceSummary struct {
	LeaveName   string  `json:"leave_name"`
	Allocated   float64 `json:"allocated"`
	Used        float64 `json:"used"`
	Remaining   float64 `json:"remaining"`
	CarriedOver float64 `json:"carried_over"`
}

type UserBalanceResponse struct {
	UserID         string           `json:"user_id"`
	CompanyID      string           `json:"company_id"`
	Year           int              `json:"year"`
	Records        []RecordResponse `json:"records"`
	ApprovedLeaves []LeaveResponse  `json:"approved_leaves"`
	Summary        []BalanceSummary `json:"summary"`
}

func NewAttributeResponse(a LeaveAttribute) AttributeResponse {
	return AttributeResponse{
		ID:            a.ID,
		AllocationID:  a.AllocationID,
		CompanyID:     a.CompanyID,
		Year:          a.Year,
		LeaveName:     a.LeaveName,
		Role:          a.Role,
		AllocatedDays: a.AllocatedDays,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func NewCarryForwardResponse(c CarryForwardDays) CarryForwardResponse {
	return CarryForwardResponse{
		ID:                 c.ID,
		UsersLeaveRecordID: c.UsersLeaveRecordID,
		Days:               c.Days,
		Year:               c.Year,
		CreatedAt:          c.CreatedAt,
	}
}

func NewRecordResponse(r UsersLeaveRecord) RecordResponse {
	resp := RecordResponse{
		ID:               r.ID,
		CompanyUserID:    r.CompanyUserID,
		UserID:           r.UserID,
		LeaveAttributeID: r.LeaveAttributeID,
		Year:             r.Year,
		UsedDays:         r.UsedDays,
		RemainingDays:    r.RemainingDays,
		CarriedOverDays:  r.CarriedOverDays,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Attribute != nil {
		attr := NewAttributeResponse(*r.Attribute)
		resp.Attribute = &attr
	}
	for _, cf := range r.CarryForwards {
		resp.CarryForwards = append(resp.CarryForwards, NewCarryForwardResponse(cf))
	}
	return resp
}

func NewLeaveResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:                 l.ID,
		CompanyID:          l.CompanyID,
		UserID:             l.UserID,
		CompanyUserID:      l.CompanyUserID,
		LeaveTypeID:        l.LeaveTypeID,
		LeaveName:          l.LeaveName,
		UsersLeaveRecordID: l.UsersLeaveRecordID,
		StartDate:          l.StartDate.Format(dateLayout),
		EndDate:            l.EndDate.Format(dateLayout),
		LeaveDays:          l.LeaveDays,
		Status:             l.Status,
		ApproverID:         l.ApproverID,
		Reason:             l.Reason,
		RejectionReason:    l.RejectionReason,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	for _, c := range l.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:        c.ID,
			LeaveID:   c.LeaveID,
			UserID:    c.UserID,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, a := range l.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:        a.ID,
			LeaveID:   a.LeaveID,
			Path:      a.Path,
			FileName:  a.FileName,
			FileSize:  a.FileSize,
			MimeType:  a.MimeType,
			CreatedAt: a.CreatedAt,
		})
	}
	return resp
}
