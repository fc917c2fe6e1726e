package companyuser

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

type CreateCompanyUserRequest struct {
	UserID     string  `json:"user_id" validate:"required,uuid"`
	CompanyID  string  `json:"company_id" validate:"required,uuid"`
	RoleID     *string `json:"role_id,omitempty" validate:"omitempty,uuid"`
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	MiddleName *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Status     *Status `json:"status,omitempty" validate:"omitempty,oneof=PENDING ACTIVE INACTIVE SUSPENDED"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *CreateCompanyUserRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	return validator.Struct(r)
}

type UpdateCompanyUserRequest struct {
	ID         string  `json:"-"`
	RoleID     *string `json:"role_id,omitempty" validate:"omitempty,uuid"`
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	MiddleName *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Status     *Status `json:"status,omitempty" validate:"omitempty,oneof=PENDING ACTIVE INACTIVE SUSPENDED"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateCompanyUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name must not be empty",
		})
	}
	errs = validator.Collect(errs, r)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status" validate:"required,oneof=PENDING ACTIVE INACTIVE SUSPENDED"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validator.Struct(r)
}

type AssignRoleRequest struct {
	ID     string `json:"-"`
	RoleID string `json:"role_id" validate:"required,uuid"`
}

func (r *AssignRoleRequest) Validate() error {
	return validator.Struct(r)
}

type CompanyUserFilter struct {
	CompanyID *string
	UserID    *string
	RoleID    *string
	Status    *Status
	IsActive  *bool
	Page      int
	Limit     int
}

func (f *CompanyUserFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.CompanyID != nil && !validator.IsValidUUID(*f.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id must be a valid UUID",
		})
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}
	if f.Status != nil && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PENDING, ACTIVE, INACTIVE, SUSPENDED",
		})
	}
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompanyUserResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CompanyID  string    `json:"company_id"`
	RoleID     *string   `json:"role_id,omitempty"`
	RoleName   *string   `json:"role_name,omitempty"`
	Email      *string   `json:"email,omitempty"`
	FirstName  string    `json:"first_name"`
	MiddleName *string   `json:"middle_name,omitempty"`
	LastName   *string   `json:"last_name,omitempty"`
	FullName   string    `json:"full_name"`
	Status     Status    `json:"status"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListCompanyUserResponse struct {
	pagination.Page
	CompanyUsers []CompanyUserResponse `json:"company_users"`
}
