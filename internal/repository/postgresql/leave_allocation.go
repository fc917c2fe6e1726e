package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type allocationRepositoryImpl struct {
	db *database.DB
}

func NewAllocationRepository(db *database.DB) leave.AllocationRepository {
	return &allocationRepositoryImpl{db: db}
}

// FindOrCreate implements leave.AllocationRepository.
func (r *allocationRepositoryImpl) FindOrCreate(ctx context.Context, companyID string) (leave.LeaveTypeAllocation, error) {
	q := GetQuerier(ctx, r.db)

	var a leave.LeaveTypeAllocation
	err := q.QueryRow(ctx, `
		INSERT INTO leave_type_allocations (company_id)
		VALUES ($1)
		ON CONFLICT (company_id) DO UPDATE SET updated_at = leave_type_allocations.updated_at
		RETURNING id, company_id, created_at, updated_at
	`, companyID).Scan(&a.ID, &a.CompanyID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return leave.LeaveTypeAllocation{}, fmt.Errorf("failed to find or create leave allocation: %w", err)
	}
	return a, nil
}

const leaveAttributeSelect = `
	SELECT la.id, la.allocation_id, lta.company_id, la.year, la.leave_name, la.role, la.allocated_days,
		   la.is_active, la.created_at, la.updated_at
	FROM leave_attributes la
	INNER JOIN leave_type_allocations lta ON lta.id = la.allocation_id
`

type attributeRepositoryImpl struct {
	db *database.DB
}

func NewAttributeRepository(db *database.DB) leave.AttributeRepository {
	return &attributeRepositoryImpl{db: db}
}

func scanLeaveAttribute(row pgx.Row) (leave.LeaveAttribute, error) {
	var a leave.LeaveAttribute
	err := row.Scan(
		&a.ID, &a.AllocationID, &a.CompanyID, &a.Year, &a.LeaveName, &a.Role, &a.AllocatedDays,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *attributeRepositoryImpl) getOne(ctx context.Context, query, id string) (leave.LeaveAttribute, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanLeaveAttribute(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveAttribute{}, leave.ErrLeaveAttributeNotFound
		}
		return leave.LeaveAttribute{}, fmt.Errorf("failed to get leave attribute by id %s: %w", id, err)
	}
	return found, nil
}

// Create implements leave.AttributeRepository.
func (r *attributeRepositoryImpl) Create(ctx context.Context, attr leave.LeaveAttribute) (leave.LeaveAttribute, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO leave_attributes (allocation_id, year, leave_name, role, allocated_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, attr.AllocationID, attr.Year, attr.LeaveName, attr.Role, attr.AllocatedDays, attr.IsActive).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return leave.LeaveAttribute{}, leave.ErrDuplicateLeaveAttribute
		}
		return leave.LeaveAttribute{}, fmt.Errorf("failed to create leave attribute: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements leave.AttributeRepository.
func (r *attributeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveAttribute, error) {
	return r.getOne(ctx, leaveAttributeSelect+" WHERE la.id = $1", id)
}

// GetByIDForUpdate implements leave.AttributeRepository.
func (r *attributeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveAttribute, error) {
	return r.getOne(ctx, leaveAttributeSelect+" WHERE la.id = $1 FOR UPDATE OF la", id)
}

// List implements leave.AttributeRepository.
func (r *attributeRepositoryImpl) List(ctx context.Context, filter leave.AttributeFilter) ([]leave.LeaveAttribute, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lta.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.Year != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("la.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(la.role) = LOWER($%d)", argIdx))
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.LeaveName != nil && *filter.LeaveName != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("la.leave_name ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.LeaveName+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("la.is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_attributes la
		INNER JOIN leave_type_allocations lta ON lta.id = la.allocation_id WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave attributes: %w", err)
	}

	query := leaveAttributeSelect + " WHERE " + where +
		fmt.Sprintf(" ORDER BY la.year DESC, la.leave_name, la.role LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave attributes: %w", err)
	}
	defer rows.Close()

	attrs := []leave.LeaveAttribute{}
	for rows.Next() {
		a, err := scanLeaveAttribute(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave attribute: %w", err)
		}
		attrs = append(attrs, a)
	}
	return attrs, total, rows.Err()
}

// Update implements leave.AttributeRepository.
func (r *attributeRepositoryImpl) Update(ctx context.Context, attr leave.LeaveAttribute) (leave.LeaveAttribute, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_attributes
		SET leave_name = $2, allocated_days = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`, attr.ID, attr.LeaveName, attr.AllocatedDays, attr.IsActive)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return leave.LeaveAttribute{}, leave.ErrDuplicateLeaveAttribute
		}
		return leave.LeaveAttribute{}, fmt.Errorf("failed to update leave attribute with id %s: %w", attr.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.LeaveAttribute{}, leave.ErrLeaveAttributeNotFound
	}
	return r.GetByID(ctx, attr.ID)
}

// Delete implements leave.AttributeRepository.
func (r *attributeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_attributes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave attribute with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveAttributeNotFound
	}
	return nil
}

const leaveRecordColumns = `ulr.id, ulr.company_user_id, ulr.user_id, ulr.leave_attribute_id, ulr.year,
	ulr.used_days, ulr.remaining_days, ulr.carried_over_days, ulr.created_at, ulr.updated_at`

type recordRepositoryImpl struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) leave.RecordRepository {
	return &recordRepositoryImpl{db: db}
}

func scanLeaveRecord(row pgx.Row) (leave.UsersLeaveRecord, error) {
	var rec leave.UsersLeaveRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyUserID, &rec.UserID, &rec.LeaveAttributeID, &rec.Year,
		&rec.UsedDays, &rec.RemainingDays, &rec.CarriedOverDays, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// scanLeaveRecordWithAttribute reads leaveRecordColumns followed by the leave attribute columns.
func scanLeaveRecordWithAttribute(row pgx.Row) (leave.UsersLeaveRecord, error) {
	var (
		rec leave.UsersLeaveRecord
		a   leave.LeaveAttribute
	)
	err := row.Scan(
		&rec.ID, &rec.CompanyUserID, &rec.UserID, &rec.LeaveAttributeID, &rec.Year,
		&rec.UsedDays, &rec.RemainingDays, &rec.CarriedOverDays, &rec.CreatedAt, &rec.UpdatedAt,
		&a.ID, &a.AllocationID, &a.CompanyID, &a.Year, &a.LeaveName, &a.Role, &a.AllocatedDays,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return leave.UsersLeaveRecord{}, err
	}
	rec.Attribute = &a
	return rec, nil
}

const leaveRecordWithAttributeSelect = `
	SELECT ` + leaveRecordColumns + `,
		   la.id, la.allocation_id, lta.company_id, la.year, la.leave_name, la.role, la.allocated_days,
		   la.is_active, la.created_at, la.updated_at
	FROM users_leave_records ulr
	INNER JOIN leave_attributes la ON la.id = ulr.leave_attribute_id
	INNER JOIN leave_type_allocations lta ON lta.id = la.allocation_id
`

func (r *recordRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (leave.UsersLeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanLeaveRecordWithAttribute(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.UsersLeaveRecord{}, leave.ErrLeaveRecordNotFound
		}
		return leave.UsersLeaveRecord{}, fmt.Errorf("failed to get leave record: %w", err)
	}
	return found, nil
}

func (r *recordRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]leave.UsersLeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave records: %w", err)
	}
	defer rows.Close()

	records := []leave.UsersLeaveRecord{}
	for rows.Next() {
		rec, err := scanLeaveRecordWithAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create implements leave.RecordRepository.
func (r *recordRepositoryImpl) Create(ctx context.Context, rec leave.UsersLeaveRecord) (leave.UsersLeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanLeaveRecord(q.QueryRow(ctx, `
		INSERT INTO users_leave_records AS ulr (company_user_id, user_id, leave_attribute_id, year,
			used_days, remaining_days, carried_over_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leaveRecordColumns,
		rec.CompanyUserID, rec.UserID, rec.LeaveAttributeID, rec.Year,
		rec.UsedDays, rec.RemainingDays, rec.CarriedOverDays,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return leave.UsersLeaveRecord{}, leave.ErrDuplicateLeaveAttribute
		}
		return leave.UsersLeaveRecord{}, fmt.Errorf("failed to create leave record: %w", err)
	}
	return created, nil
}

// GetByID implements leave.RecordRepository.
func (r *recordRepositoryImpl) GetByID(ctx context.Context, id string) (leave.UsersLeaveRecord, error) {
	return r.getOne(ctx, leaveRecordWithAttributeSelect+" WHERE ulr.id = $1", id)
}

// GetByIDForUpdate implements leave.RecordRepository.
func (r *recordRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.UsersLeaveRecord, error) {
	return r.getOne(ctx, leaveRecordWithAttributeSelect+" WHERE ulr.id = $1 FOR UPDATE OF ulr", id)
}

// FindForMember implements leave.RecordRepository.
func (r *recordRepositoryImpl) FindForMember(ctx context.Context, companyUserID, attributeID string, year int) (leave.UsersLeaveRecord, error) {
	return r.getOne(ctx, leaveRecordWithAttributeSelect+`
		WHERE ulr.company_user_id = $1 AND ulr.leave_attribute_id = $2 AND ulr.year = $3`,
		companyUserID, attributeID, year)
}

// ListByAttributeForUpdate implements leave.RecordRepository.
func (r *recordRepositoryImpl) ListByAttributeForUpdate(ctx context.Context, attributeID string) ([]leave.UsersLeaveRecord, error) {
	return r.query(ctx, leaveRecordWithAttributeSelect+`
		WHERE ulr.leave_attribute_id = $1
		ORDER BY ulr.id
		FOR UPDATE OF ulr`, attributeID)
}

// List implements leave.RecordRepository.
func (r *recordRepositoryImpl) List(ctx context.Context, filter leave.RecordFilter) ([]leave.UsersLeaveRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lta.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.CompanyUserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ulr.company_user_id = $%d", argIdx))
		args = append(args, *filter.CompanyUserID)
		argIdx++
	}
	if filter.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ulr.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.LeaveAttributeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ulr.leave_attribute_id = $%d", argIdx))
		args = append(args, *filter.LeaveAttributeID)
		argIdx++
	}
	if filter.Year != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ulr.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM users_leave_records ulr
		INNER JOIN leave_attributes la ON la.id = ulr.leave_attribute_id
		INNER JOIN leave_type_allocations lta ON lta.id = la.allocation_id WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave records: %w", err)
	}

	query := leaveRecordWithAttributeSelect + " WHERE " + where +
		fmt.Sprintf(" ORDER BY ulr.year DESC, la.leave_name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	records, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListForUser implements leave.RecordRepository.
func (r *recordRepositoryImpl) ListForUser(ctx context.Context, userID, companyID string, year int) ([]leave.UsersLeaveRecord, error) {
	return r.query(ctx, leaveRecordWithAttributeSelect+`
		WHERE ulr.user_id = $1 AND lta.company_id = $2 AND ulr.year = $3
		ORDER BY la.leave_name`, userID, companyID, year)
}

// UpdateBalance implements leave.RecordRepository.
func (r *recordRepositoryImpl) UpdateBalance(ctx context.Context, rec leave.UsersLeaveRecord) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users_leave_records
		SET used_days = $2, remaining_days = $3, carried_over_days = $4, updated_at = NOW()
		WHERE id = $1
	`, rec.ID, rec.UsedDays, rec.RemainingDays, rec.CarriedOverDays)
	if err != nil {
		if database.IsCheckViolation(err) {
			return fmt.Errorf("%w: %v", leave.ErrLedgerOutOfBalance, err)
		}
		return fmt.Errorf("failed to update leave record balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRecordNotFound
	}
	return nil
}

type carryForwardRepositoryImpl struct {
	db *database.DB
}

func NewCarryForwardRepository(db *database.DB) leave.CarryForwardRepository {
	return &carryForwardRepositoryImpl{db: db}
}

func scanCarryForward(row pgx.Row) (leave.CarryForwardDays, error) {
	var cf leave.CarryForwardDays
	err := row.Scan(&cf.ID, &cf.UsersLeaveRecordID, &cf.Days, &cf.Year, &cf.CreatedAt)
	return cf, err
}

// Create implements leave.CarryForwardRepository.
func (r *carryForwardRepositoryImpl) Create(ctx context.Context, cf leave.CarryForwardDays) (leave.CarryForwardDays, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanCarryForward(q.QueryRow(ctx, `
		INSERT INTO carry_forward_days (users_leave_record_id, days, year)
		VALUES ($1, $2, $3)
		RETURNING id, users_leave_record_id, days, year, created_at
	`, cf.UsersLeaveRecordID, cf.Days, cf.Year))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.CarryForwardDays{}, leave.ErrLeaveRecordNotFound
		}
		return leave.CarryForwardDays{}, fmt.Errorf("failed to create carry forward: %w", err)
	}
	return created, nil
}

// GetByID implements leave.CarryForwardRepository.
func (r *carryForwardRepositoryImpl) GetByID(ctx context.Context, id string) (leave.CarryForwardDays, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanCarryForward(q.QueryRow(ctx, `
		SELECT id, users_leave_record_id, days, year, created_at
		FROM carry_forward_days
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.CarryForwardDays{}, leave.ErrCarryForwardNotFound
		}
		return leave.CarryForwardDays{}, fmt.Errorf("failed to get carry forward by id %s: %w", id, err)
	}
	return found, nil
}

// ListByRecord implements leave.CarryForwardRepository.
func (r *carryForwardRepositoryImpl) ListByRecord(ctx context.Context, recordID string) ([]leave.CarryForwardDays, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, users_leave_record_id, days, year, created_at
		FROM carry_forward_days
		WHERE users_leave_record_id = $1
		ORDER BY created_at
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list carry forward days: %w", err)
	}
	defer rows.Close()

	list := []leave.CarryForwardDays{}
	for rows.Next() {
		cf, err := scanCarryForward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan carry forward: %w", err)
		}
		list = append(list, cf)
	}
	return list, rows.Err()
}

// Delete implements leave.CarryForwardRepository.
func (r *carryForwardRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM carry_forward_days WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete carry forward with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrCarryForwardNotFound
	}
	return nil
}
