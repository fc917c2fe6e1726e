package role

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrRoleNotFound   = apperror.New(apperror.NotFound, "role not found")
	ErrRoleNameExists = apperror.New(apperror.Conflict, "role name already exists in this company")
)
