package role

import "context"

type RoleService interface {
	CreateRole(ctx context.Context, req CreateRoleRequest) (RoleResponse, error)
	ListRoles(ctx context.Context, companyID string) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (RoleResponse, error)
	UpdateRole(ctx context.Context, req UpdateRoleRequest) (RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error
}
