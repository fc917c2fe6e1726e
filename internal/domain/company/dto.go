package company

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

type CreateCompanyRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=100"`
	District *string `json:"district,omitempty" validate:"omitempty,max=100"`
	State    *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country  *string `json:"country,omitempty" validate:"omitempty,max=100"`
	ZipCode  *string `json:"zip_code,omitempty" validate:"omitempty,max=20"`
}

func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type UpdateCompanyRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=100"`
	District *string `json:"district,omitempty" validate:"omitempty,max=100"`
	State    *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country  *string `json:"country,omitempty" validate:"omitempty,max=100"`
	ZipCode  *string `json:"zip_code,omitempty" validate:"omitempty,max=20"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
		if trimmed == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
	}
	errs = validator.Collect(errs, r)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompanyFilter struct {
	Name  *string
	Page  int
	Limit int
}

func (f *CompanyFilter) Validate() error {
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return nil
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	District  *string   `json:"district,omitempty"`
	State     *string   `json:"state,omitempty"`
	Country   *string   `json:"country,omitempty"`
	ZipCode   *string   `json:"zip_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListCompanyResponse struct {
	pagination.Page
	Companies []CompanyResponse `json:"companies"`
}
