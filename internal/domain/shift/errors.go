package shift

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrShiftNotFound          = apperror.New(apperror.NotFound, "shift not found")
	ErrShiftAttributeNotFound = apperror.New(apperror.NotFound, "shift attribute not found")
	ErrNoActiveShift          = apperror.New(apperror.NotFound, "no active shift assigned")
	ErrCreatorNotInCompany    = apperror.New(apperror.Validation, "shift creator is not a member of this company")
)
