package role

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

type CreateRoleRequest struct {
	CompanyID   string  `json:"company_id" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateRoleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type UpdateRoleRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateRoleRequest) Validate() error {
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

type RoleResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
