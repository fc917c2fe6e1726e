package companyuser

import "context"

type CompanyUserRepository interface {
	Create(ctx context.Context, cu CompanyUser) (CompanyUser, error)
	GetByID(ctx context.Context, id string) (CompanyUser, error)
	GetByUserAndCompany(ctx context.Context, userID, companyID string) (CompanyUser, error)
	List(ctx context.Context, filter CompanyUserFilter) ([]CompanyUser, int64, error)
	// ListActiveByRoleName returns active members of companyID whose role is named roleName.
	ListActiveByRoleName(ctx context.Context, companyID, roleName string) ([]CompanyUser, error)
	// FilterMembers returns the subset of ids that are memberships of companyID.
	FilterMembers(ctx context.Context, companyID string, ids []string) ([]string, error)
	Update(ctx context.Context, cu CompanyUser) (CompanyUser, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateRole(ctx context.Context, id string, roleID *string) error
	Delete(ctx context.Context, id string) error
}
