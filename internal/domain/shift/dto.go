package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

const timeOfDayLayout = "15:04:05"

type CreateShiftAttributeRequest struct {
	ShiftName          string   `json:"shift_name" validate:"required,max=100"`
	StartTime          string   `json:"start_time" validate:"required"`
	EndTime            string   `json:"end_time" validate:"required"`
	BreakDuration      *int     `json:"break_duration,omitempty" validate:"omitempty,gte=0,lte=1440"`
	GracePeriodMinutes *int     `json:"grace_period_minutes,omitempty" validate:"omitempty,gte=0,lte=720"`
	Description        *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Color              *string  `json:"color,omitempty" validate:"omitempty,max=20"`
	IsActive           *bool    `json:"is_active,omitempty"`
	AssignedUserIDs    []string `json:"assigned_user_ids,omitempty" validate:"omitempty,dive,uuid"`
}

type CreateShiftRequest struct {
	CompanyID      string                        `json:"company_id" validate:"required,uuid"`
	ShiftCreatedBy string                        `json:"shift_created_by" validate:"required,uuid"`
	Attributes     []CreateShiftAttributeRequest `json:"attributes" validate:"required,min=1,dive"`
}

func (r *CreateShiftRequest) Validate() error {
	errs := validator.Collect(nil, r)

	for i, attr := range r.Attributes {
		errs = append(errs, validateTimes(fmt.Sprintf("attributes[%d]", i), &attr.StartTime, &attr.EndTime)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToAttribute converts a validated request into an attribute.
func (r CreateShiftAttributeRequest) ToAttribute() ShiftAttribute {
	start, _ := validator.ParseTimeOfDay(r.StartTime)
	end, _ := validator.ParseTimeOfDay(r.EndTime)
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return ShiftAttribute{
		ShiftName:          strings.TrimSpace(r.ShiftName),
		StartTime:          start,
		EndTime:            end,
		BreakDuration:      r.BreakDuration,
		GracePeriodMinutes: r.GracePeriodMinutes,
		Description:        r.Description,
		Color:              r.Color,
		IsActive:           isActive,
	}
}

func validateTimes(prefix string, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}
	if start != nil && *start != "" {
		if _, ok := validator.ParseTimeOfDay(*start); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field("start_time"),
				Message: "start_time must be HH:MM, HH:MM:SS or an ISO8601 timestamp",
			})
		}
	}
	if end != nil && *end != "" {
		if _, ok := validator.ParseTimeOfDay(*end); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field("end_time"),
				Message: "end_time must be HH:MM, HH:MM:SS or an ISO8601 timestamp",
			})
		}
	}
	return errs
}

type UpdateShiftRequest struct {
	ID             string  `json:"-"`
	CompanyID      *string `json:"company_id,omitempty" validate:"omitempty,uuid"`
	ShiftCreatedBy *string `json:"shift_created_by,omitempty" validate:"omitempty,uuid"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	errs = validator.Collect(errs, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftAttributeRequest struct {
	ID                 string  `json:"-"`
	ShiftName          *string `json:"shift_name,omitempty" validate:"omitempty,max=100"`
	StartTime          *string `json:"start_time,omitempty"`
	EndTime            *string `json:"end_time,omitempty"`
	BreakDuration      *int    `json:"break_duration,omitempty" validate:"omitempty,gte=0,lte=1440"`
	GracePeriodMinutes *int    `json:"grace_period_minutes,omitempty" validate:"omitempty,gte=0,lte=720"`
	Description        *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color              *string `json:"color,omitempty" validate:"omitempty,max=20"`
	IsActive           *bool   `json:"is_active,omitempty"`
}

func (r *UpdateShiftAttributeRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.ShiftName != nil && validator.IsEmpty(*r.ShiftName) {
		errs = append(errs, validator.ValidationError{Field: "shift_name", Message: "shift_name must not be empty"})
	}
	errs = append(errs, validateTimes("", r.StartTime, r.EndTime)...)
	errs = validator.Collect(errs, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignShiftRequest struct {
	ShiftAttributeID string   `json:"shift_attribute_id" validate:"required,uuid"`
	AssignedUserIDs  []string `json:"assigned_user_ids,omitempty" validate:"omitempty,dive,uuid"`
	RemoveUserIDs    []string `json:"remove_user_ids,omitempty" validate:"omitempty,dive,uuid"`
}

func (r *AssignShiftRequest) Validate() error {
	errs := validator.Collect(nil, r)
	if len(r.AssignedUserIDs) == 0 && len(r.RemoveUserIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "assigned_user_ids",
			Message: "assigned_user_ids or remove_user_ids is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftFilter struct {
	CompanyID      *string
	CreatedBy      *string
	ShiftName      *string
	AssignedUserID *string
	IsActive       *bool
	Page           int
	Limit          int
}

func (f *ShiftFilter) Validate() error {
	var errs validator.ValidationErrors
	for field, v := range map[string]*string{
		"company_id":       f.CompanyID,
		"created_by":       f.CreatedBy,
		"assigned_user_id": f.AssignedUserID,
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

type ShiftAttributeResponse struct {
	ID                 string    `json:"id"`
	ShiftID            string    `json:"shift_id"`
	ShiftName          string    `json:"shift_name"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	BreakDuration      *int      `json:"break_duration,omitempty"`
	GracePeriodMinutes *int      `json:"grace_period_minutes,omitempty"`
	Description        *string   `json:"description,omitempty"`
	Color              *string   `json:"color,omitempty"`
	IsActive           bool      `json:"is_active"`
	AssignedUserIDs    []string  `json:"assigned_user_ids"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ShiftResponse struct {
	ID             string                   `json:"id"`
	CompanyID      string                   `json:"company_id"`
	ShiftCreatedBy string                   `json:"shift_created_by"`
	Attributes     []ShiftAttributeResponse `json:"attributes"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

type ListShiftResponse struct {
	pagination.Page
	Shifts []ShiftResponse `json:"shifts"`
}

type AssignShiftResponse struct {
	ShiftAttributeID string   `json:"shift_attribute_id"`
	Created          int      `json:"created"`
	Skipped          int      `json:"skipped"`
	Removed          int64    `json:"removed"`
	AssignedUserIDs  []string `json:"assigned_user_ids"`
}

func NewAttributeResponse(a ShiftAttribute) ShiftAttributeResponse {
	assigned := make([]string, 0, len(a.Assignments))
	for _, as := range a.Assignments {
		assigned = append(assigned, as.AssignedUserID)
	}
	return ShiftAttributeResponse{
		ID:                 a.ID,
		ShiftID:            a.ShiftID,
		ShiftName:          a.ShiftName,
		StartTime:          a.StartTime.Format(timeOfDayLayout),
		EndTime:            a.EndTime.Format(timeOfDayLayout),
		BreakDuration:      a.BreakDuration,
		GracePeriodMinutes: a.GracePeriodMinutes,
		Description:        a.Description,
		Color:              a.Color,
		IsActive:           a.IsActive,
		AssignedUserIDs:    assigned,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func NewShiftResponse(s Shift) ShiftResponse {
	attrs := make([]ShiftAttributeResponse, 0, len(s.Attributes))
	for _, a := range s.Attributes {
		attrs = append(attrs, NewAttributeResponse(a))
	}
	return ShiftResponse{
		ID:             s.ID,
		CompanyID:      s.CompanyID,
		ShiftCreatedBy: s.ShiftCreatedBy,
		Attributes:     attrs,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
