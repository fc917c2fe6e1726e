package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const attendanceSelect = `
	SELECT a.id, a.company_id, a.user_id, a.company_user_id, a.punch_date, a.final_status,
		   a.total_work_hours, a.total_overtime, a.created_at, a.updated_at,
		   NULLIF(CONCAT_WS(' ', cu.first_name, cu.middle_name, cu.last_name), '')
	FROM attendances a
	LEFT JOIN company_users cu ON cu.id = a.company_user_id
`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.UserID, &a.CompanyUserID, &a.PunchDate, &a.FinalStatus,
		&a.TotalWorkHours, &a.TotalOvertime, &a.CreatedAt, &a.UpdatedAt, &a.UserName,
	)
	return a, err
}

func (r *attendanceRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return found, nil
}

// UpsertForDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpsertForDay(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO attendances (company_id, user_id, company_user_id, punch_date, final_status)
		VALUES ($1, $2, $3, $4::date, $5)
		ON CONFLICT ON CONSTRAINT uq_attendances_day DO UPDATE
		SET company_user_id = COALESCE(attendances.company_user_id, EXCLUDED.company_user_id)
	`, a.CompanyID, a.UserID, a.CompanyUserID, a.PunchDate, a.FinalStatus)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return r.GetForDayForUpdate(ctx, a.CompanyID, a.UserID, a.PunchDate)
}

// GetForDayForUpdate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetForDayForUpdate(ctx context.Context, companyID, userID string, day time.Time) (attendance.Attendance, error) {
	return r.getOne(ctx, "a.company_id = $1 AND a.user_id = $2 AND a.punch_date = $3::date FOR UPDATE OF a",
		companyID, userID, day)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.CompanyUserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.company_user_id = $%d", argIdx))
		args = append(args, *filter.CompanyUserID)
		argIdx++
	}
	if filter.StartDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.punch_date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.punch_date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.FinalStatus != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.final_status = $%d", argIdx))
		args = append(args, *filter.FinalStatus)
		argIdx++
	}
	if filter.UserName != nil && *filter.UserName != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("CONCAT_WS(' ', cu.first_name, cu.middle_name, cu.last_name) ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.UserName+"%")
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendances a LEFT JOIN company_users cu ON cu.id = a.company_user_id WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := attendanceSelect + " WHERE " + where +
		fmt.Sprintf(" ORDER BY a.punch_date DESC, a.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *attendanceRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	list := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ListForUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForUser(ctx context.Context, companyID, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	return r.query(ctx, attendanceSelect+`
		WHERE a.company_id = $1 AND a.user_id = $2 AND a.punch_date BETWEEN $3::date AND $4::date
		ORDER BY a.punch_date`, companyID, userID, from, to)
}

// UpdateTotals implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateTotals(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendances
		SET final_status = $2, total_work_hours = $3, total_overtime = $4, updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.FinalStatus, a.TotalWorkHours, a.TotalOvertime)
	if err != nil {
		return fmt.Errorf("failed to update attendance totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

const punchColumns = `id, attendance_id, punch_in, punch_out, punch_in_location, punch_out_location, punch_type,
	status, work_hours, overtime, device_id, ip_address, remarks, created_at, updated_at`

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

func scanPunch(row pgx.Row) (attendance.UserPunch, error) {
	var (
		p             attendance.UserPunch
		inLoc, outLoc *string
	)
	err := row.Scan(
		&p.ID, &p.AttendanceID, &p.PunchIn, &p.PunchOut, &inLoc, &outLoc, &p.PunchType,
		&p.Status, &p.WorkHours, &p.Overtime, &p.DeviceID, &p.IPAddress, &p.Remarks, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return attendance.UserPunch{}, err
	}
	p.PunchIn = p.PunchIn.UTC()
	p.PunchOut = utcPtr(p.PunchOut)

	if p.PunchInLocation, err = attendance.DecodeLocation(inLoc); err != nil {
		return attendance.UserPunch{}, err
	}
	if p.PunchOutLocation, err = attendance.DecodeLocation(outLoc); err != nil {
		return attendance.UserPunch{}, err
	}
	return p, nil
}

// Create implements attendance.PunchRepository.
func (r *punchRepositoryImpl) Create(ctx context.Context, p attendance.UserPunch) (attendance.UserPunch, error) {
	q := GetQuerier(ctx, r.db)

	inLoc, err := attendance.EncodeLocation(p.PunchInLocation)
	if err != nil {
		return attendance.UserPunch{}, err
	}

	created, err := scanPunch(q.QueryRow(ctx, `
		INSERT INTO user_punches (attendance_id, punch_in, punch_in_location, punch_type, status, device_id, ip_address, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+punchColumns,
		p.AttendanceID, p.PunchIn, inLoc, p.PunchType, p.Status, p.DeviceID, p.IPAddress, p.Remarks,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.UserPunch{}, attendance.ErrOpenPunchExists
		}
		if errors.Is(err, attendance.ErrCorruptLocation) {
			return attendance.UserPunch{}, err
		}
		return attendance.UserPunch{}, fmt.Errorf("failed to create punch: %w", err)
	}
	return created, nil
}

// FindLatestOpen implements attendance.PunchRepository.
func (r *punchRepositoryImpl) FindLatestOpen(ctx context.Context, attendanceID string) (attendance.UserPunch, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanPunch(q.QueryRow(ctx, `
		SELECT `+punchColumns+`
		FROM user_punches
		WHERE attendance_id = $1 AND punch_out IS NULL
		ORDER BY punch_in DESC
		LIMIT 1
		FOR UPDATE
	`, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.UserPunch{}, attendance.ErrNoOpenPunch
		}
		if errors.Is(err, attendance.ErrCorruptLocation) {
			return attendance.UserPunch{}, err
		}
		return attendance.UserPunch{}, fmt.Errorf("failed to find open punch: %w", err)
	}
	return found, nil
}

// ListByAttendance implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.UserPunch, error) {
	grouped, err := r.ListByAttendanceIDs(ctx, []string{attendanceID})
	if err != nil {
		return nil, err
	}
	if punches, ok := grouped[attendanceID]; ok {
		return punches, nil
	}
	return []attendance.UserPunch{}, nil
}

// ListByAttendanceIDs implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.UserPunch, error) {
	q := GetQuerier(ctx, r.db)

	grouped := make(map[string][]attendance.UserPunch)
	if len(attendanceIDs) == 0 {
		return grouped, nil
	}

	rows, err := q.Query(ctx, `
		SELECT `+punchColumns+`
		FROM user_punches
		WHERE attendance_id = ANY($1::uuid[])
		ORDER BY punch_in
	`, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			if errors.Is(err, attendance.ErrCorruptLocation) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		grouped[p.AttendanceID] = append(grouped[p.AttendanceID], p)
	}
	return grouped, rows.Err()
}

// Close implements attendance.PunchRepository.
func (r *punchRepositoryImpl) Close(ctx context.Context, p attendance.UserPunch) error {
	q := GetQuerier(ctx, r.db)

	outLoc, err := attendance.EncodeLocation(p.PunchOutLocation)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE user_punches
		SET punch_out = $2, punch_out_location = $3, punch_type = $4, status = $5,
			work_hours = $6, overtime = $7, remarks = COALESCE($8, remarks), updated_at = NOW()
		WHERE id = $1 AND punch_out IS NULL
	`, p.ID, p.PunchOut, outLoc, attendance.PunchTypeOut, p.Status, p.WorkHours, p.Overtime, p.Remarks)
	if err != nil {
		return fmt.Errorf("failed to close punch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoOpenPunch
	}
	return nil
}

// DeleteByAttendance implements attendance.PunchRepository.
func (r *punchRepositoryImpl) DeleteByAttendance(ctx context.Context, attendanceID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM user_punches WHERE attendance_id = $1`, attendanceID); err != nil {
		return fmt.Errorf("failed to delete punches: %w", err)
	}
	return nil
}
