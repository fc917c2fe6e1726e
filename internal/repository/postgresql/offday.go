package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/offday"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const companyOffColumns = `id, company_id, week_day, description, created_at, updated_at`

type companyOffRepositoryImpl struct {
	db *database.DB
}

func NewCompanyOffRepository(db *database.DB) offday.CompanyOffRepository {
	return &companyOffRepositoryImpl{db: db}
}

func scanCompanyOff(row pgx.Row) (offday.CompanyOff, error) {
	var c offday.CompanyOff
	err := row.Scan(&c.ID, &c.CompanyID, &c.WeekDay, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if c.WeekDay == nil {
		c.WeekDay = []int{}
	}
	return c, err
}

func (r *companyOffRepositoryImpl) getOne(ctx context.Context, query string, arg string) (offday.CompanyOff, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanCompanyOff(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offday.CompanyOff{}, offday.ErrCompanyOffNotFound
		}
		return offday.CompanyOff{}, fmt.Errorf("failed to get company off: %w", err)
	}
	return found, nil
}

// Create implements offday.CompanyOffRepository.
func (r *companyOffRepositoryImpl) Create(ctx context.Context, c offday.CompanyOff) (offday.CompanyOff, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanCompanyOff(q.QueryRow(ctx,
		`INSERT INTO company_offs (company_id, week_day, description) VALUES ($1, $2::smallint[], $3) RETURNING `+companyOffColumns,
		c.CompanyID, c.WeekDay, c.Description,
	))
	if err != nil {
		return offday.CompanyOff{}, fmt.Errorf("failed to create company off: %w", err)
	}
	return created, nil
}

// GetByID implements offday.CompanyOffRepository.
func (r *companyOffRepositoryImpl) GetByID(ctx context.Context, id string) (offday.CompanyOff, error) {
	return r.getOne(ctx, `SELECT `+companyOffColumns+` FROM company_offs WHERE id = $1`, id)
}

// GetByCompany implements offday.CompanyOffRepository.
func (r *companyOffRepositoryImpl) GetByCompany(ctx context.Context, companyID string) (offday.CompanyOff, error) {
	return r.getOne(ctx, `SELECT `+companyOffColumns+` FROM company_offs WHERE company_id = $1`, companyID)
}

// GetByCompanyForUpdate implements offday.CompanyOffRepository.
func (r *companyOffRepositoryImpl) GetByCompanyForUpdate(ctx context.Context, companyID string) (offday.CompanyOff, error) {
	return r.getOne(ctx, `SELECT `+companyOffColumns+` FROM company_offs WHERE company_id = $1 FOR UPDATE`, companyID)
}

// List implements offday.CompanyOffRepository.
func (r *companyOffRepositoryImpl) List(ctx context.Context, filter offday.CompanyOffFilter) ([]offday.CompanyOff, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "1=1"
	args := []interface{}{}
	argIdx := 1
	if filter.CompanyID != nil {
		where += fmt.Sprintf(" AND company_id = $%d", argIdx)
		args = append(args, *filter.CompanyID)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM company_offs WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count company offs: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM company_offs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		companyOffColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list company offs: %w", err)
	}
	defer rows.Close()

	offs := []offday.CompanyOff{}
	for rows.Next() {
		c, err := scanCompanyOff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company off: %w", err)
		}
		offs = append(offs, c)
	}
	return offs, total, rows.Err()
}

// Update implements offday.CompanyOffRepository.
func (r *companyOffRepositoryImpl) Update(ctx context.Context, c offday.CompanyOff) (offday.CompanyOff, error) {
	q := GetQuerier(ctx, r.db)

	updated, err := scanCompanyOff(q.QueryRow(ctx, `
		UPDATE company_offs SET week_day = $2::smallint[], description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+companyOffColumns,
		c.ID, c.WeekDay, c.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offday.CompanyOff{}, offday.ErrCompanyOffNotFound
		}
		return offday.CompanyOff{}, fmt.Errorf("failed to update company off with id %s: %w", c.ID, err)
	}
	return updated, nil
}

// Delete implements offday.CompanyOffRepository.
func (r *companyOffRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM company_offs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company off with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return offday.ErrCompanyOffNotFound
	}
	return nil
}

const offDaySelect = `
	SELECT od.id, od.company_id, od.company_off_id, od.created_by_id, od.name, od.holiday_type,
		   od.from_date, od.to_date, od.start_time, od.end_time, od.description, od.created_at, od.updated_at,
		   COALESCE((SELECT array_agg(uo.user_id::text ORDER BY uo.user_id) FROM users_offs uo WHERE uo.off_day_id = od.id), '{}')
	FROM off_days od
`

type offDayRepositoryImpl struct {
	db *database.DB
}

func NewOffDayRepository(db *database.DB) offday.OffDayRepository {
	return &offDayRepositoryImpl{db: db}
}

func scanOffDay(row pgx.Row) (offday.OffDay, error) {
	var o offday.OffDay
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.CompanyOffID, &o.CreatedByID, &o.Name, &o.HolidayType,
		&o.FromDate, &o.ToDate, &o.StartTime, &o.EndTime, &o.Description, &o.CreatedAt, &o.UpdatedAt,
		&o.UserIDs,
	)
	return o, err
}

func (r *offDayRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]offday.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list off days: %w", err)
	}
	defer rows.Close()

	days := []offday.OffDay{}
	for rows.Next() {
		o, err := scanOffDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan off day: %w", err)
		}
		days = append(days, o)
	}
	return days, rows.Err()
}

func rangeClause(r offday.OffDayRangeFilter, args []interface{}) (string, []interface{}) {
	clause := ""
	if r.From != nil {
		args = append(args, *r.From)
		clause += fmt.Sprintf(" AND od.to_date >= $%d::date", len(args))
	}
	if r.To != nil {
		args = append(args, *r.To)
		clause += fmt.Sprintf(" AND od.from_date <= $%d::date", len(args))
	}
	return clause, args
}

// Create implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) Create(ctx context.Context, o offday.OffDay) (offday.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO off_days (company_id, company_off_id, created_by_id, name, holiday_type,
			from_date, to_date, start_time, end_time, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, o.CompanyID, o.CompanyOffID, o.CreatedByID, o.Name, o.HolidayType,
		o.FromDate, o.ToDate, o.StartTime, o.EndTime, o.Description,
	).Scan(&id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return offday.OffDay{}, offday.ErrCreatorNotInCompany
		}
		return offday.OffDay{}, fmt.Errorf("failed to create off day: %w", err)
	}

	if err := r.ReplaceUsers(ctx, id, o.UserIDs); err != nil {
		return offday.OffDay{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) GetByID(ctx context.Context, id string) (offday.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanOffDay(q.QueryRow(ctx, offDaySelect+" WHERE od.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offday.OffDay{}, offday.ErrOffDayNotFound
		}
		return offday.OffDay{}, fmt.Errorf("failed to get off day by id %s: %w", id, err)
	}
	return found, nil
}

// ListByCompany implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) ListByCompany(ctx context.Context, companyID string, rf offday.OffDayRangeFilter) ([]offday.OffDay, error) {
	clause, args := rangeClause(rf, []interface{}{companyID})
	return r.query(ctx, offDaySelect+" WHERE od.company_id = $1"+clause+" ORDER BY od.from_date", args...)
}

// ListByUser implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) ListByUser(ctx context.Context, companyUserID string, rf offday.OffDayRangeFilter) ([]offday.OffDay, error) {
	clause, args := rangeClause(rf, []interface{}{companyUserID})
	return r.query(ctx, offDaySelect+`
		WHERE EXISTS(SELECT 1 FROM users_offs x WHERE x.off_day_id = od.id AND x.user_id = $1)`+clause+`
		ORDER BY od.from_date`, args...)
}

// Update implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) Update(ctx context.Context, o offday.OffDay) (offday.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE off_days
		SET name = $2, holiday_type = $3, from_date = $4, to_date = $5, start_time = $6, end_time = $7,
			description = $8, updated_at = NOW()
		WHERE id = $1
	`, o.ID, o.Name, o.HolidayType, o.FromDate, o.ToDate, o.StartTime, o.EndTime, o.Description)
	if err != nil {
		return offday.OffDay{}, fmt.Errorf("failed to update off day with id %s: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return offday.OffDay{}, offday.ErrOffDayNotFound
	}
	return r.GetByID(ctx, o.ID)
}

// ReplaceUsers implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) ReplaceUsers(ctx context.Context, offDayID string, companyUserIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM users_offs WHERE off_day_id = $1`, offDayID); err != nil {
		return fmt.Errorf("failed to clear off day users: %w", err)
	}
	if len(companyUserIDs) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
		INSERT INTO users_offs (off_day_id, user_id)
		SELECT $1, u FROM UNNEST($2::uuid[]) AS u
		ON CONFLICT DO NOTHING
	`, offDayID, companyUserIDs)
	if err != nil {
		return fmt.Errorf("failed to link off day users: %w", err)
	}
	return nil
}

// Delete implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM off_days WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete off day with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return offday.ErrOffDayNotFound
	}
	return nil
}

// HasCompanyWideOn implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) HasCompanyWideOn(ctx context.Context, companyID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM off_days od
			WHERE od.company_id = $1 AND $2::date BETWEEN od.from_date AND od.to_date
			  AND NOT EXISTS(SELECT 1 FROM users_offs uo WHERE uo.off_day_id = od.id)
		)`, companyID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company off day: %w", err)
	}
	return exists, nil
}

// HasUserOffOn implements offday.OffDayRepository.
func (r *offDayRepositoryImpl) HasUserOffOn(ctx context.Context, companyID, userID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM off_days od
			INNER JOIN users_offs uo ON uo.off_day_id = od.id
			INNER JOIN company_users cu ON cu.id = uo.user_id AND cu.user_id = $2
			WHERE od.company_id = $1 AND $3::date BETWEEN od.from_date AND od.to_date
		)`, companyID, userID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user off day: %w", err)
	}
	return exists, nil
}
