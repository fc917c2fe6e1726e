package company

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrCompanyNotFound   = apperror.New(apperror.NotFound, "company not found")
	ErrCompanyNameExists = apperror.New(apperror.Conflict, "company name already exists")
)
