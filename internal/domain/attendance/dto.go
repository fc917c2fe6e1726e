package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type PunchInRequest struct {
	CompanyID     string     `json:"company_id" validate:"required,uuid"`
	UserID        string     `json:"user_id" validate:"required,uuid"`
	CompanyUserID string     `json:"company_user_id" validate:"required,uuid"`
	Time          *time.Time `json:"time,omitempty"`
	Location      *Location  `json:"location,omitempty"`
	Status        *Status    `json:"status,omitempty" validate:"omitempty,oneof=PRESENT LATE HALF_DAY EARLY_LEAVE"`
	DeviceID      *string    `json:"device_id,omitempty" validate:"omitempty,max=255"`
	IPAddress     *string    `json:"ip_address,omitempty" validate:"omitempty,ip"`
	Remarks       *string    `json:"remarks,omitempty" validate:"omitempty,max=1000"`
}

func (r *PunchInRequest) Validate() error {
	return validator.Struct(r)
}

type PunchOutRequest struct {
	CompanyID     string     `json:"company_id" validate:"required,uuid"`
	UserID        string     `json:"user_id" validate:"required,uuid"`
	CompanyUserID string     `json:"company_user_id" validate:"required,uuid"`
	Time          *time.Time `json:"time,omitempty"`
	Location      *Location  `json:"location,omitempty"`
	Status        *Status    `json:"status,omitempty" validate:"omitempty,oneof=PRESENT LATE HALF_DAY EARLY_LEAVE"`
	Remarks       *string    `json:"remarks,omitempty" validate:"omitempty,max=1000"`
}

func (r *PunchOutRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateAttendanceRequest struct {
	ID             string   `json:"-"`
	FinalStatus    *Status  `json:"final_status,omitempty" validate:"omitempty,oneof=PRESENT ABSENT ON_LEAVE HALF_DAY LATE EARLY_LEAVE"`
	TotalWorkHours *float64 `json:"total_work_hours,omitempty" validate:"omitempty,gte=0,lte=24"`
	TotalOvertime  *float64 `json:"total_overtime,omitempty" validate:"omitempty,gte=0,lte=24"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.FinalStatus == nil && r.TotalWorkHours == nil && r.TotalOvertime == nil {
		errs = append(errs, validator.ValidationError{Field: "request", Message: "at least one field must be provided"})
	}
	errs = validator.Collect(errs, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceFilter struct {
	CompanyID     *string
	UserID        *string
	CompanyUserID *string
	StartDate     *string
	EndDate       *string
	FinalStatus   *Status
	UserName      *string
	Page          int
	Limit         int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	for field, v := range map[string]*string{
		"company_id":      f.CompanyID,
		"user_id":         f.UserID,
		"company_user_id": f.CompanyUserID,
	} {
		if v != nil && !validator.IsValidUUID(*v) {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be a valid UUID"})
		}
	}
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)
	if f.FinalStatus != nil && !f.FinalStatus.Valid() {
		errs = append(errs, validator.ValidationError{Field: "final_status", Message: "final_status is invalid"})
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDateRange(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var s, e time.Time
	var okS, okE bool
	if start != nil {
		if s, okS = validator.IsValidDate(*start); !okS {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if end != nil {
		if e, okE = validator.IsValidDate(*end); !okE {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if okS && okE && e.Before(s) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	return errs
}

// UserAttendanceFilter selects one user's days, either a single date or a range.
type UserAttendanceFilter struct {
	CompanyID string
	UserID    string
	Date      *string
	StartDate *string
	EndDate   *string
}

func (f *UserAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(f.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id must be a valid UUID"})
	}
	if !validator.IsValidUUID(f.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if f.Date != nil {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
		}
	}
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchResponse struct {
	ID               string     `json:"id"`
	AttendanceID     string     `json:"attendance_id"`
	PunchIn          time.Time  `json:"punch_in"`
	PunchOut         *time.Time `json:"punch_out,omitempty"`
	PunchInLocation  *Location  `json:"punch_in_location,omitempty"`
	PunchOutLocation *Location  `json:"punch_out_location,omitempty"`
	PunchType        PunchType  `json:"punch_type"`
	Status           Status     `json:"status"`
	WorkHours        *float64   `json:"work_hours,omitempty"`
	Overtime         *float64   `json:"overtime,omitempty"`
	DeviceID         *string    `json:"device_id,omitempty"`
	IPAddress        *string    `json:"ip_address,omitempty"`
	Remarks          *string    `json:"remarks,omitempty"`
}

type AttendanceResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	UserID         string          `json:"user_id"`
	CompanyUserID  *string         `json:"company_user_id,omitempty"`
	UserName       *string         `json:"user_name,omitempty"`
	PunchDate      string          `json:"punch_date"`
	FinalStatus    Status          `json:"final_status"`
	TotalWorkHours float64         `json:"total_work_hours"`
	TotalOvertime  float64         `json:"total_overtime"`
	Punches        []PunchResponse `json:"punches"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PunchResult is returned by punch-in and punch-out.
type PunchResult struct {
	Attendance AttendanceResponse `json:"attendance"`
	Punch      PunchResponse      `json:"punch"`
}

type ListAttendanceResponse struct {
	pagination.Page
	Attendances []AttendanceResponse `json:"attendances"`
}

type SummaryDay struct {
	Date        string  `json:"date"`
	FinalStatus Status  `json:"final_status"`
	WorkHours   float64 `json:"work_hours"`
	Overtime    float64 `json:"overtime"`
	PunchCount  int     `json:"punch_count"`
}

type SummaryResponse struct {
	UserID         string       `json:"user_id"`
	CompanyID      string       `json:"company_id"`
	Period         string       `json:"period"`
	TotalWorkDays  int          `json:"total_work_days"`
	PresentDays    int          `json:"present_days"`
	AbsentDays     int          `json:"absent_days"`
	TotalWorkHours float64      `json:"total_work_hours"`
	TotalOvertime  float64      `json:"total_overtime"`
	Days           []SummaryDay `json:"days"`
}

func NewPunchResponse(p UserPunch) PunchResponse {
	return PunchResponse{
		ID:               p.ID,
		AttendanceID:     p.AttendanceID,
		PunchIn:          p.PunchIn,
		PunchOut:         p.PunchOut,
		PunchInLocation:  p.PunchInLocation,
		PunchOutLocation: p.PunchOutLocation,
		PunchType:        p.PunchType,
		Status:           p.Status,
		WorkHours:        p.WorkHours,
		Overtime:         p.Overtime,
		DeviceID:         p.DeviceID,
		IPAddress:        p.IPAddress,
		Remarks:          p.Remarks,
	}
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	punches := make([]PunchResponse, 0, len(a.Punches))
	for _, p := range a.Punches {
		punches = append(punches, NewPunchResponse(p))
	}
	return AttendanceResponse{
		ID:             a.ID,
		CompanyID:      a.CompanyID,
		UserID:         a.UserID,
		CompanyUserID:  a.CompanyUserID,
		UserName:       a.UserName,
		PunchDate:      a.PunchDate.Format(dateLayout),
		FinalStatus:    a.FinalStatus,
		TotalWorkHours: a.TotalWorkHours,
		TotalOvertime:  a.TotalOvertime,
		Punches:        punches,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
