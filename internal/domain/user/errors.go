package user

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrUserNotFound       = apperror.New(apperror.NotFound, "user not found")
	ErrEmailExists        = apperror.New(apperror.Conflict, "email already registered")
	ErrUserHasMemberships = apperror.New(apperror.Conflict, "user still belongs to one or more companies")
)
