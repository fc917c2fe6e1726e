package companyuser

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrCompanyUserNotFound = apperror.New(apperror.NotFound, "company user not found")
	ErrMembershipExists    = apperror.New(apperror.Conflict, "user is already a member of this company")
	ErrRoleNotInCompany    = apperror.New(apperror.Validation, "role does not belong to this company")
	ErrInvalidStatus       = apperror.New(apperror.Validation, "invalid company user status")
)
