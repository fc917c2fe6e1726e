package offday

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrCompanyOffNotFound  = apperror.New(apperror.NotFound, "company off not found")
	ErrOffDayNotFound      = apperror.New(apperror.NotFound, "off day not found")
	ErrCreatorNotInCompany = apperror.New(apperror.Validation, "off day creator is not a member of this company")
)
