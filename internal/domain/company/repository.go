package company

import "context"

type CompanyRepository interface {
	Create(ctx context.Context, newCompany Company) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	// ExistsByName reports whether another company already uses name, ignoring excludeID.
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	List(ctx context.Context, filter CompanyFilter) ([]Company, int64, error)
	Update(ctx context.Context, c Company) (Company, error)
	Delete(ctx context.Context, id string) error
}
