package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const roleColumns = `id, company_id, name, description, created_at, updated_at`

type roleRepositoryImpl struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) role.RoleRepository {
	return &roleRepositoryImpl{db: db}
}

func scanRole(row pgx.Row) (role.CompanyRole, error) {
	var cr role.CompanyRole
	err := row.Scan(&cr.ID, &cr.CompanyID, &cr.Name, &cr.Description, &cr.CreatedAt, &cr.UpdatedAt)
	return cr, err
}

// Create implements role.RoleRepository.
func (r *roleRepositoryImpl) Create(ctx context.Context, cr role.CompanyRole) (role.CompanyRole, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanRole(q.QueryRow(ctx,
		`INSERT INTO company_roles (company_id, name, description) VALUES ($1, $2, $3) RETURNING `+roleColumns,
		cr.CompanyID, cr.Name, cr.Description,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return role.CompanyRole{}, role.ErrRoleNameExists
		}
		return role.CompanyRole{}, fmt.Errorf("failed to create role: %w", err)
	}
	return created, nil
}

// GetByID implements role.RoleRepository.
func (r *roleRepositoryImpl) GetByID(ctx context.Context, id string) (role.CompanyRole, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM company_roles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return role.CompanyRole{}, role.ErrRoleNotFound
		}
		return role.CompanyRole{}, fmt.Errorf("failed to get role by id %s: %w", id, err)
	}
	return found, nil
}

// ListByCompany implements role.RoleRepository.
func (r *roleRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]role.CompanyRole, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+roleColumns+` FROM company_roles WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []role.CompanyRole{}
	for rows.Next() {
		cr, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, cr)
	}
	return roles, rows.Err()
}

// ExistsByName implements role.RoleRepository.
func (r *roleRepositoryImpl) ExistsByName(ctx context.Context, companyID, name string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM company_roles
			WHERE company_id = $1 AND LOWER(name) = LOWER($2) AND ($3::uuid IS NULL OR id <> $3)
		)`, companyID, name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role name: %w", err)
	}
	return exists, nil
}

// Update implements role.RoleRepository.
func (r *roleRepositoryImpl) Update(ctx context.Context, cr role.CompanyRole) (role.CompanyRole, error) {
	q := GetQuerier(ctx, r.db)

	updated, err := scanRole(q.QueryRow(ctx,
		`UPDATE company_roles SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 RETURNING `+roleColumns,
		cr.ID, cr.Name, cr.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return role.CompanyRole{}, role.ErrRoleNotFound
		}
		if database.IsUniqueViolation(err) {
			return role.CompanyRole{}, role.ErrRoleNameExists
		}
		return role.CompanyRole{}, fmt.Errorf("failed to update role with id %s: %w", cr.ID, err)
	}
	return updated, nil
}

// Delete implements role.RoleRepository.
func (r *roleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM company_roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}
