package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const shiftAttributeColumns = `sa.id, sa.shift_id, sa.shift_name, sa.start_time, sa.end_time, sa.break_duration,
	sa.grace_period_minutes, sa.description, sa.color, sa.is_active, sa.created_at, sa.updated_at`

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func scanShiftAttribute(row pgx.Row) (shift.ShiftAttribute, error) {
	var a shift.ShiftAttribute
	err := row.Scan(
		&a.ID, &a.ShiftID, &a.ShiftName, &a.StartTime, &a.EndTime, &a.BreakDuration,
		&a.GracePeriodMinutes, &a.Description, &a.Color, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	// Time-of-day values are stored anchored on 1970-01-01 UTC.
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	return a, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	var created shift.Shift
	err := q.QueryRow(ctx, `
		INSERT INTO shifts (company_id, shift_created_by)
		VALUES ($1, $2)
		RETURNING id, company_id, shift_created_by, created_at, updated_at
	`, s.CompanyID, s.ShiftCreatedBy).Scan(
		&created.ID, &created.CompanyID, &created.ShiftCreatedBy, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return shift.Shift{}, shift.ErrCreatorNotInCompany
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	var s shift.Shift
	err := q.QueryRow(ctx, `
		SELECT id, company_id, shift_created_by, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`, id).Scan(&s.ID, &s.CompanyID, &s.ShiftCreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by id %s: %w", id, err)
	}

	shifts := []shift.Shift{s}
	if err := r.loadAttributes(ctx, shifts); err != nil {
		return shift.Shift{}, err
	}
	return shifts[0], nil
}

// loadAttributes fills Attributes and their Assignments for every shift.
func (r *shiftRepositoryImpl) loadAttributes(ctx context.Context, shifts []shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	if len(shifts) == 0 {
		return nil
	}
	ids := make([]string, len(shifts))
	index := make(map[string]int, len(shifts))
	for i, s := range shifts {
		ids[i] = s.ID
		index[s.ID] = i
		shifts[i].Attributes = []shift.ShiftAttribute{}
	}

	rows, err := q.Query(ctx, `SELECT `+shiftAttributeColumns+`
		FROM shift_attributes sa
		WHERE sa.shift_id = ANY($1::uuid[])
		ORDER BY sa.created_at, sa.shift_name`, ids)
	if err != nil {
		return fmt.Errorf("failed to list shift attributes: %w", err)
	}
	var attrs []shift.ShiftAttribute
	for rows.Next() {
		a, err := scanShiftAttribute(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan shift attribute: %w", err)
		}
		attrs = append(attrs, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	assignments, err := r.listAssignments(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		a.Assignments = assignments[a.ID]
		i := index[a.ShiftID]
		shifts[i].Attributes = append(shifts[i].Attributes, a)
	}
	return nil
}

func (r *shiftRepositoryImpl) listAssignments(ctx context.Context, shiftIDs []string) (map[string][]shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT saa.id, saa.shift_attribute_id, saa.assigned_user_id, saa.assigned_at
		FROM shift_attribute_assignments saa
		INNER JOIN shift_attributes sa ON sa.id = saa.shift_attribute_id
		WHERE sa.shift_id = ANY($1::uuid[])
		ORDER BY saa.assigned_at
	`, shiftIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]shift.Assignment)
	for rows.Next() {
		var as shift.Assignment
		if err := rows.Scan(&as.ID, &as.ShiftAttributeID, &as.AssignedUserID, &as.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		result[as.ShiftAttributeID] = append(result[as.ShiftAttributeID], as)
	}
	return result, rows.Err()
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("s.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.CreatedBy != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("s.shift_created_by = $%d", argIdx))
		args = append(args, *filter.CreatedBy)
		argIdx++
	}

	// Attribute-level filters select the shifts that own a matching attribute.
	var attrClauses []string
	if filter.ShiftName != nil && *filter.ShiftName != "" {
		attrClauses = append(attrClauses, fmt.Sprintf("sa.shift_name ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.ShiftName+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		attrClauses = append(attrClauses, fmt.Sprintf("sa.is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.AssignedUserID != nil {
		attrClauses = append(attrClauses, fmt.Sprintf(
			"EXISTS(SELECT 1 FROM shift_attribute_assignments saa WHERE saa.shift_attribute_id = sa.id AND saa.assigned_user_id = $%d)", argIdx))
		args = append(args, *filter.AssignedUserID)
		argIdx++
	}
	if len(attrClauses) > 0 {
		whereClauses = append(whereClauses,
			"EXISTS(SELECT 1 FROM shift_attributes sa WHERE sa.shift_id = s.id AND "+strings.Join(attrClauses, " AND ")+")")
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM shifts s WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.company_id, s.shift_created_by, s.created_at, s.updated_at
		FROM shifts s
		WHERE %s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shifts: %w", err)
	}
	shifts := []shift.Shift{}
	for rows.Next() {
		var s shift.Shift
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.ShiftCreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadAttributes(ctx, shifts); err != nil {
		return nil, 0, err
	}
	return shifts, total, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE shifts SET company_id = $2, shift_created_by = $3, updated_at = NOW()
		WHERE id = $1
	`, s.ID, s.CompanyID, s.ShiftCreatedBy)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return shift.Shift{}, shift.ErrCreatorNotInCompany
		}
		return shift.Shift{}, fmt.Errorf("failed to update shift with id %s: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return r.GetByID(ctx, s.ID)
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// CreateAttribute implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) CreateAttribute(ctx context.Context, attr shift.ShiftAttribute) (shift.ShiftAttribute, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_attributes AS sa (shift_id, shift_name, start_time, end_time, break_duration,
			grace_period_minutes, description, color, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + shiftAttributeColumns

	created, err := scanShiftAttribute(q.QueryRow(ctx, query,
		attr.ShiftID, attr.ShiftName, attr.StartTime, attr.EndTime, attr.BreakDuration,
		attr.GracePeriodMinutes, attr.Description, attr.Color, attr.IsActive,
	))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return shift.ShiftAttribute{}, shift.ErrShiftNotFound
		}
		return shift.ShiftAttribute{}, fmt.Errorf("failed to create shift attribute: %w", err)
	}
	return created, nil
}

// GetAttribute implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetAttribute(ctx context.Context, id string) (shift.ShiftAttribute, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanShiftAttribute(q.QueryRow(ctx, `SELECT `+shiftAttributeColumns+` FROM shift_attributes sa WHERE sa.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftAttribute{}, shift.ErrShiftAttributeNotFound
		}
		return shift.ShiftAttribute{}, fmt.Errorf("failed to get shift attribute by id %s: %w", id, err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, shift_attribute_id, assigned_user_id, assigned_at
		FROM shift_attribute_assignments
		WHERE shift_attribute_id = $1
		ORDER BY assigned_at
	`, id)
	if err != nil {
		return shift.ShiftAttribute{}, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var as shift.Assignment
		if err := rows.Scan(&as.ID, &as.ShiftAttributeID, &as.AssignedUserID, &as.AssignedAt); err != nil {
			return shift.ShiftAttribute{}, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		found.Assignments = append(found.Assignments, as)
	}
	return found, rows.Err()
}

// GetAttributeCompanyID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetAttributeCompanyID(ctx context.Context, attributeID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var companyID string
	err := q.QueryRow(ctx, `
		SELECT s.company_id
		FROM shift_attributes sa
		INNER JOIN shifts s ON s.id = sa.shift_id
		WHERE sa.id = $1
	`, attributeID).Scan(&companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shift.ErrShiftAttributeNotFound
		}
		return "", fmt.Errorf("failed to get shift attribute company: %w", err)
	}
	return companyID, nil
}

// UpdateAttribute implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) UpdateAttribute(ctx context.Context, attr shift.ShiftAttribute) (shift.ShiftAttribute, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_attributes AS sa
		SET shift_name = $2, start_time = $3, end_time = $4, break_duration = $5, grace_period_minutes = $6,
			description = $7, color = $8, is_active = $9, updated_at = NOW()
		WHERE sa.id = $1
		RETURNING ` + shiftAttributeColumns

	updated, err := scanShiftAttribute(q.QueryRow(ctx, query,
		attr.ID, attr.ShiftName, attr.StartTime, attr.EndTime, attr.BreakDuration,
		attr.GracePeriodMinutes, attr.Description, attr.Color, attr.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftAttribute{}, shift.ErrShiftAttributeNotFound
		}
		return shift.ShiftAttribute{}, fmt.Errorf("failed to update shift attribute with id %s: %w", attr.ID, err)
	}
	return updated, nil
}

// DeleteAttribute implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) DeleteAttribute(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_attributes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift attribute with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftAttributeNotFound
	}
	return nil
}

// CreateAssignment implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) CreateAssignment(ctx context.Context, attributeID, companyUserID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		INSERT INTO shift_attribute_assignments (shift_attribute_id, assigned_user_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT uq_shift_assignment DO NOTHING
	`, attributeID, companyUserID)
	if err != nil {
		return false, fmt.Errorf("failed to assign shift: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteAssignments implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) DeleteAssignments(ctx context.Context, attributeID string, companyUserIDs []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	if len(companyUserIDs) == 0 {
		return 0, nil
	}
	tag, err := q.Exec(ctx, `
		DELETE FROM shift_attribute_assignments
		WHERE shift_attribute_id = $1 AND assigned_user_id = ANY($2::uuid[])
	`, attributeID, companyUserIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to remove shift assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FindActiveAssignment implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) FindActiveAssignment(ctx context.Context, companyUserID, companyID string) (shift.ActiveAssignment, error) {
	q := GetQuerier(ctx, r.db)

	var active shift.ActiveAssignment
	a := &active.Attribute
	err := q.QueryRow(ctx, `
		SELECT saa.id, saa.shift_attribute_id, saa.assigned_user_id, saa.assigned_at, s.company_id,
			`+shiftAttributeColumns+`
		FROM shift_attribute_assignments saa
		INNER JOIN shift_attributes sa ON sa.id = saa.shift_attribute_id
		INNER JOIN shifts s ON s.id = sa.shift_id
		WHERE saa.assigned_user_id = $1 AND s.company_id = $2 AND sa.is_active = TRUE
		ORDER BY saa.assigned_at DESC
		LIMIT 1
	`, companyUserID, companyID).Scan(
		&active.Assignment.ID, &active.Assignment.ShiftAttributeID, &active.Assignment.AssignedUserID,
		&active.Assignment.AssignedAt, &active.CompanyID,
		&a.ID, &a.ShiftID, &a.ShiftName, &a.StartTime, &a.EndTime, &a.BreakDuration,
		&a.GracePeriodMinutes, &a.Description, &a.Color, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ActiveAssignment{}, shift.ErrNoActiveShift
		}
		return shift.ActiveAssignment{}, fmt.Errorf("failed to find active shift assignment: %w", err)
	}
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	return active, nil
}
