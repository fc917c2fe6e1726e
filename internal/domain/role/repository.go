package role

import "context"

type RoleRepository interface {
	Create(ctx context.Context, r CompanyRole) (CompanyRole, error)
	GetByID(ctx context.Context, id string) (CompanyRole, error)
	ListByCompany(ctx context.Context, companyID string) ([]CompanyRole, error)
	ExistsByName(ctx context.Context, companyID, name string, excludeID *string) (bool, error)
	Update(ctx context.Context, r CompanyRole) (CompanyRole, error)
	Delete(ctx context.Context, id string) error
}
