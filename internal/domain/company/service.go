package company

import "context"

type CompanyService interface {
	CreateCompany(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	ListCompanies(ctx context.Context, filter CompanyFilter) (ListCompanyResponse, error)
	GetCompany(ctx context.Context, id string) (CompanyResponse, error)
	UpdateCompany(ctx context.Context, req UpdateCompanyRequest) (CompanyResponse, error)
	DeleteCompany(ctx context.Context, id string) error
}
