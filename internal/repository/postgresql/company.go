package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, phone, email, address, city, district, state, country, zip_code, created_at, updated_at`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.City,
		&c.District, &c.State, &c.Country, &c.ZipCode, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO companies (name, phone, email, address, city, district, state, country, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		newCompany.Name, newCompany.Phone, newCompany.Email, newCompany.Address, newCompany.City,
		newCompany.District, newCompany.State, newCompany.Country, newCompany.ZipCode,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return company.Company{}, company.ErrCompanyNameExists
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by id %s: %w", id, err)
	}
	return found, nil
}

// ExistsByName implements company.CompanyRepository.
func (r *companyRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM companies WHERE LOWER(name) = LOWER($1) AND ($2::uuid IS NULL OR id <> $2))`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company name: %w", err)
	}
	return exists, nil
}

// List implements company.CompanyRepository.
func (r *companyRepositoryImpl) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Name != nil && *filter.Name != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM companies WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM companies WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		companyColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []company.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

// Update implements company.CompanyRepository.
func (r *companyRepositoryImpl) Update(ctx context.Context, c company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE companies
		SET name = $2, phone = $3, email = $4, address = $5, city = $6, district = $7,
			state = $8, country = $9, zip_code = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + companyColumns

	updated, err := scanCompany(q.QueryRow(ctx, query,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.City, c.District, c.State, c.Country, c.ZipCode,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		if database.IsUniqueViolation(err) {
			return company.Company{}, company.ErrCompanyNameExists
		}
		return company.Company{}, fmt.Errorf("failed to update company with id %s: %w", c.ID, err)
	}
	return updated, nil
}

// Delete implements company.CompanyRepository.
func (r *companyRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
