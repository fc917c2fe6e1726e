package offday

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

func validateWeekDays(field string, days []int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s must contain values between 0 (Sunday) and 6 (Saturday), got %d", field, d),
			})
			continue
		}
		if seen[d] {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s contains duplicate day %d", field, d),
			})
		}
		seen[d] = true
	}
	return errs
}

type UpsertCompanyOffRequest struct {
	CompanyID   string  `json:"company_id" validate:"required,uuid"`
	WeekDay     []int   `json:"week_day" validate:"required,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *UpsertCompanyOffRequest) Validate() error {
	errs := validator.Collect(nil, r)
	errs = append(errs, validateWeekDays("week_day", r.WeekDay)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateCompanyOffRequest struct {
	ID          string  `json:"-"`
	WeekDay     []int   `json:"week_day,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateCompanyOffRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	errs = append(errs, validateWeekDays("week_day", r.WeekDay)...)
	errs = validator.Collect(errs, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompanyOffFilter struct {
	CompanyID *string
	Page      int
	Limit     int
}

func (f *CompanyOffFilter) Validate() error {
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	if f.CompanyID != nil && !validator.IsValidUUID(*f.CompanyID) {
		return validator.ValidationErrors{{Field: "company_id", Message: "company_id must be a valid UUID"}}
	}
	return nil
}

type CreateOffDayRequest struct {
	CompanyID   string   `json:"company_id" validate:"required,uuid"`
	CreatedByID string   `json:"created_by_id" validate:"required,uuid"`
	Name        string   `json:"name" validate:"required,max=255"`
	HolidayType string   `json:"holiday_type" validate:"required,max=100"`
	FromDate    string   `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate      string   `json:"to_date" validate:"required,datetime=2006-01-02"`
	StartTime   *string  `json:"start_time,omitempty" validate:"omitempty,max=20"`
	EndTime     *string  `json:"end_time,omitempty" validate:"omitempty,max=20"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	UserIDs     []string `json:"user_ids,omitempty" validate:"omitempty,dive,uuid"`
}

func (r *CreateOffDayRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	errs := validator.Collect(nil, r)
	errs = append(errs, validateRange(&r.FromDate, &r.ToDate)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRange(from, to *string) validator.ValidationErrors {
	if from == nil || to == nil {
		return nil
	}
	f, okF := validator.IsValidDate(*from)
	t, okT := validator.IsValidDate(*to)
	if okF && okT && f.After(t) {
		return validator.ValidationErrors{{Field: "to_date", Message: "to_date must not be before from_date"}}
	}
	return nil
}

// Dates returns the parsed range of a validated request.
func (r CreateOffDayRequest) Dates() (time.Time, time.Time) {
	from, _ := time.Parse(dateLayout, r.FromDate)
	to, _ := time.Parse(dateLayout, r.ToDate)
	return from, to
}

type UpdateOffDayRequest struct {
	ID          string    `json:"-"`
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=255"`
	HolidayType *string   `json:"holiday_type,omitempty" validate:"omitempty,max=100"`
	FromDate    *string   `json:"from_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate      *string   `json:"to_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string   `json:"start_time,omitempty" validate:"omitempty,max=20"`
	EndTime     *string   `json:"end_time,omitempty" validate:"omitempty,max=20"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	UserIDs     *[]string `json:"user_ids,omitempty" validate:"omitempty,dive,uuid"`
}

func (r *UpdateOffDayRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	errs = validator.Collect(errs, r)
	errs = append(errs, validateRange(r.FromDate, r.ToDate)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OffDayRangeFilter narrows off days to those overlapping [From, To].
type OffDayRangeFilter struct {
	From *time.Time
	To   *time.Time
}

// ParseRange parses optional "YYYY-MM-DD" bounds.
func ParseRange(from, to string) (OffDayRangeFilter, error) {
	var f OffDayRangeFilter
	var errs validator.ValidationErrors
	if from != "" {
		d, ok := validator.IsValidDate(from)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "from_date", Message: "from_date must be YYYY-MM-DD"})
		} else {
			f.From = &d
		}
	}
	if to != "" {
		d, ok := validator.IsValidDate(to)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "to_date", Message: "to_date must be YYYY-MM-DD"})
		} else {
			f.To = &d
		}
	}
	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

type CompanyOffResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	WeekDay      []int     `json:"week_day"`
	WeekDayNames []string  `json:"week_day_names"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListCompanyOffResponse struct {
	pagination.Page
	CompanyOffs []CompanyOffResponse `json:"company_offs"`
}

type WeekOffResponse struct {
	CompanyID    string   `json:"company_id"`
	WeekDay      []int    `json:"week_day"`
	WeekDayNames []string `json:"week_day_names"`
}

type OffDayResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	CompanyOffID string    `json:"company_off_id"`
	CreatedByID  string    `json:"created_by_id"`
	Name         string    `json:"name"`
	HolidayType  string    `json:"holiday_type"`
	FromDate     string    `json:"from_date"`
	ToDate       string    `json:"to_date"`
	StartTime    *string   `json:"start_time,omitempty"`
	EndTime      *string   `json:"end_time,omitempty"`
	Description  *string   `json:"description,omitempty"`
	CompanyWide  bool      `json:"company_wide"`
	UserIDs      []string  `json:"user_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewCompanyOffResponse(c CompanyOff) CompanyOffResponse {
	return CompanyOffResponse{
		ID:           c.ID,
		CompanyID:    c.CompanyID,
		WeekDay:      c.WeekDay,
		WeekDayNames: WeekDayNames(c.WeekDay),
		Description:  c.Description,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func NewOffDayResponse(o OffDay) OffDayResponse {
	userIDs := o.UserIDs
	if userIDs == nil {
		userIDs = []string{}
	}
	return OffDayResponse{
		ID:           o.ID,
		CompanyID:    o.CompanyID,
		CompanyOffID: o.CompanyOffID,
		CreatedByID:  o.CreatedByID,
		Name:         o.Name,
		HolidayType:  o.HolidayType,
		FromDate:     o.FromDate.Format(dateLayout),
		ToDate:       o.ToDate.Format(dateLayout),
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		Description:  o.Description,
		CompanyWide:  o.CompanyWide(),
		UserIDs:      userIDs,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
