package companyuser

import "context"

type CompanyUserService interface {
	CreateCompanyUser(ctx context.Context, req CreateCompanyUserRequest) (CompanyUserResponse, error)
	ListCompanyUsers(ctx context.Context, filter CompanyUserFilter) (ListCompanyUserResponse, error)
	GetCompanyUser(ctx context.Context, id string) (CompanyUserResponse, error)
	UpdateCompanyUser(ctx context.Context, req UpdateCompanyUserRequest) (CompanyUserResponse, error)
	DeleteCompanyUser(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (CompanyUserResponse, error)
	AssignRole(ctx context.Context, req AssignRoleRequest) (CompanyUserResponse, error)
	RemoveRole(ctx context.Context, id string) (CompanyUserResponse, error)
}
