package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hrops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
)

type CompanyServiceImpl struct {
	db *database.DB
	company.CompanyRepository

	// Seeded on create
	roleRepo role.RoleRepository
}

func NewCompanyService(db *database.DB, companyRepository company.CompanyRepository, roleRepo role.RoleRepository) company.CompanyService {
	return &CompanyServiceImpl{
		db:                db,
		CompanyRepository: companyRepository,
		roleRepo:          roleRepo,
	}
}

func mapCompanyToResponse(c company.Company) company.CompanyResponse {
	return company.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		City:      c.City,
		District:  c.District,
		State:     c.State,
		Country:   c.Country,
		ZipCode:   c.ZipCode,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateCompany implements company.CompanyService.
func (s *CompanyServiceImpl) CreateCompany(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	var created company.Company
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		exists, err := s.CompanyRepository.ExistsByName(txCtx, req.Name, nil)
		if err != nil {
			return err
		}
		if exists {
			return company.ErrCompanyNameExists
		}

		created, err = s.CompanyRepository.Create(txCtx, company.Company{
			Name:     req.Name,
			Phone:    req.Phone,
			Email:    req.Email,
			Address:  req.Address,
			City:     req.City,
			District: req.District,
			State:    req.State,
			Country:  req.Country,
			ZipCode:  req.ZipCode,
		})
		if err != nil {
			return err
		}

		for _, r := range fixtures.DefaultRoles(created.ID) {
			if _, err := s.roleRepo.Create(txCtx, r); err != nil {
				return fmt.Errorf("failed to seed role %s: %w", r.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		logUnexpected("failed to create company", err)
		return company.CompanyResponse{}, err
	}

	slog.Info("company created", "company_id", created.ID)
	return mapCompanyToResponse(created), nil
}

// ListCompanies implements company.CompanyService.
func (s *CompanyServiceImpl) ListCompanies(ctx context.Context, filter company.CompanyFilter) (company.ListCompanyResponse, error) {
	companies, total, err := s.CompanyRepository.List(ctx, filter)
	if err != nil {
		return company.ListCompanyResponse{}, err
	}

	resp := company.ListCompanyResponse{
		Page:      pagination.NewPage(filter.Page, filter.Limit, total),
		Companies: make([]company.CompanyResponse, 0, len(companies)),
	}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, mapCompanyToResponse(c))
	}
	return resp, nil
}

// GetCompany implements company.CompanyService.
func (s *CompanyServiceImpl) GetCompany(ctx context.Context, id string) (company.CompanyResponse, error) {
	c, err := s.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return mapCompanyToResponse(c), nil
}

// UpdateCompany implements company.CompanyService.
func (s *CompanyServiceImpl) UpdateCompany(ctx context.Context, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	var updated company.Company
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		current, err := s.CompanyRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil && *req.Name != current.Name {
			exists, err := s.CompanyRepository.ExistsByName(txCtx, *req.Name, &req.ID)
			if err != nil {
				return err
			}
			if exists {
				return company.ErrCompanyNameExists
			}
			current.Name = *req.Name
		}
		if req.Phone != nil {
			current.Phone = req.Phone
		}
		if req.Email != nil {
			current.Email = req.Email
		}
		if req.Address != nil {
			current.Address = req.Address
		}
		if req.City != nil {
			current.City = req.City
		}
		if req.District != nil {
			current.District = req.District
		}
		if req.State != nil {
			current.State = req.State
		}
		if req.Country != nil {
			current.Country = req.Country
		}
		if req.ZipCode != nil {
			current.ZipCode = req.ZipCode
		}

		updated, err = s.CompanyRepository.Update(txCtx, current)
		return err
	})
	if err != nil {
		logUnexpected("failed to update company", err)
		return company.CompanyResponse{}, err
	}
	return mapCompanyToResponse(updated), nil
}

// DeleteCompany implements company.CompanyService.
func (s *CompanyServiceImpl) DeleteCompany(ctx context.Context, id string) error {
	if err := s.CompanyRepository.Delete(ctx, id); err != nil {
		logUnexpected("failed to delete company", err)
		return err
	}
	slog.Info("company deleted", "company_id", id)
	return nil
}

func logUnexpected(msg string, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		slog.Error(msg, "error", err)
	}
}
