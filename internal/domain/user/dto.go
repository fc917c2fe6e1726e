package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r)
}

type UpdateUserRequest struct {
	ID       string  `json:"-"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	if r.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &normalized
	}
	errs = validator.Collect(errs, r)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserFilter struct {
	Email    *string
	IsActive *bool
	Page     int
	Limit    int
}

func (f *UserFilter) Validate() error {
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return nil
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListUserResponse struct {
	pagination.Page
	Users []UserResponse `json:"users"`
}
