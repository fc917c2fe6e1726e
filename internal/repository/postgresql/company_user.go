package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const companyUserSelect = `
	SELECT cu.id, cu.user_id, cu.company_id, cu.role_id, cu.first_name, cu.middle_name, cu.last_name,
		   cu.status, cu.is_active, cu.created_at, cu.updated_at, u.email, cr.name
	FROM company_users cu
	INNER JOIN users u ON u.id = cu.user_id
	LEFT JOIN company_roles cr ON cr.id = cu.role_id
`

type companyUserRepositoryImpl struct {
	db *database.DB
}

func NewCompanyUserRepository(db *database.DB) companyuser.CompanyUserRepository {
	return &companyUserRepositoryImpl{db: db}
}

func scanCompanyUser(row pgx.Row) (companyuser.CompanyUser, error) {
	var cu companyuser.CompanyUser
	err := row.Scan(
		&cu.ID, &cu.UserID, &cu.CompanyID, &cu.RoleID, &cu.FirstName, &cu.MiddleName, &cu.LastName,
		&cu.Status, &cu.IsActive, &cu.CreatedAt, &cu.UpdatedAt, &cu.Email, &cu.RoleName,
	)
	return cu, err
}

func (r *companyUserRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (companyuser.CompanyUser, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanCompanyUser(q.QueryRow(ctx, companyUserSelect+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return companyuser.CompanyUser{}, companyuser.ErrCompanyUserNotFound
		}
		return companyuser.CompanyUser{}, fmt.Errorf("failed to get company user: %w", err)
	}
	return found, nil
}

// Create implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) Create(ctx context.Context, cu companyuser.CompanyUser) (companyuser.CompanyUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO company_users (user_id, company_id, role_id, first_name, middle_name, last_name, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		cu.UserID, cu.CompanyID, cu.RoleID, cu.FirstName, cu.MiddleName, cu.LastName, cu.Status, cu.IsActive,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return companyuser.CompanyUser{}, companyuser.ErrMembershipExists
		}
		return companyuser.CompanyUser{}, fmt.Errorf("failed to create company user: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) GetByID(ctx context.Context, id string) (companyuser.CompanyUser, error) {
	return r.getOne(ctx, "cu.id = $1", id)
}

// GetByUserAndCompany implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) GetByUserAndCompany(ctx context.Context, userID, companyID string) (companyuser.CompanyUser, error) {
	return r.getOne(ctx, "cu.user_id = $1 AND cu.company_id = $2", userID, companyID)
}

// List implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) List(ctx context.Context, filter companyuser.CompanyUserFilter) ([]companyuser.CompanyUser, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("cu.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("cu.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.RoleID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("cu.role_id = $%d", argIdx))
		args = append(args, *filter.RoleID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("cu.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.IsActive != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("cu.is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM company_users cu WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count company users: %w", err)
	}

	query := companyUserSelect + " WHERE " + where +
		fmt.Sprintf(" ORDER BY cu.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	members, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *companyUserRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]companyuser.CompanyUser, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list company users: %w", err)
	}
	defer rows.Close()

	members := []companyuser.CompanyUser{}
	for rows.Next() {
		cu, err := scanCompanyUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company user: %w", err)
		}
		members = append(members, cu)
	}
	return members, rows.Err()
}

// ListActiveByRoleName implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) ListActiveByRoleName(ctx context.Context, companyID, roleName string) ([]companyuser.CompanyUser, error) {
	return r.query(ctx,
		companyUserSelect+` WHERE cu.company_id = $1 AND cu.is_active = TRUE AND LOWER(cr.name) = LOWER($2) ORDER BY cu.created_at`,
		companyID, roleName,
	)
}

// FilterMembers implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) FilterMembers(ctx context.Context, companyID string, ids []string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	if len(ids) == 0 {
		return []string{}, nil
	}

	rows, err := q.Query(ctx, `SELECT id FROM company_users WHERE company_id = $1 AND id = ANY($2::uuid[])`, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to filter company members: %w", err)
	}
	defer rows.Close()

	found := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company member id: %w", err)
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

// Update implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) Update(ctx context.Context, cu companyuser.CompanyUser) (companyuser.CompanyUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE company_users
		SET role_id = $2, first_name = $3, middle_name = $4, last_name = $5, status = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, cu.ID, cu.RoleID, cu.FirstName, cu.MiddleName, cu.LastName, cu.Status, cu.IsActive)
	if err != nil {
		return companyuser.CompanyUser{}, fmt.Errorf("failed to update company user with id %s: %w", cu.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return companyuser.CompanyUser{}, companyuser.ErrCompanyUserNotFound
	}
	return r.GetByID(ctx, cu.ID)
}

// UpdateStatus implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) UpdateStatus(ctx context.Context, id string, status companyuser.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE company_users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		if database.IsCheckViolation(err) {
			return companyuser.ErrInvalidStatus
		}
		return fmt.Errorf("failed to update company user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return companyuser.ErrCompanyUserNotFound
	}
	return nil
}

// UpdateRole implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) UpdateRole(ctx context.Context, id string, roleID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE company_users SET role_id = $2, updated_at = NOW() WHERE id = $1`, id, roleID)
	if err != nil {
		return fmt.Errorf("failed to update company user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return companyuser.ErrCompanyUserNotFound
	}
	return nil
}

// Delete implements companyuser.CompanyUserRepository.
func (r *companyUserRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM company_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company user with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return companyuser.ErrCompanyUserNotFound
	}
	return nil
}
