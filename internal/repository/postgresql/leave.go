package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const leaveSelect = `
	SELECT l.id, l.company_id, l.user_id, l.company_user_id, l.leave_type_id, l.users_leave_record_id,
		   l.start_date, l.end_date, l.leave_days, l.status, l.approver_id, l.reason, l.rejection_reason,
		   l.created_at, l.updated_at, la.leave_name
	FROM leaves l
	LEFT JOIN leave_attributes la ON la.id = l.leave_type_id
`

// Statuses that reserve dates. Kept in sync with leave.Status.Blocking.
const blockingStatuses = `('PENDING', 'IN_REVIEW', 'APPROVED')`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.UserID, &l.CompanyUserID, &l.LeaveTypeID, &l.UsersLeaveRecordID,
		&l.StartDate, &l.EndDate, &l.LeaveDays, &l.Status, &l.ApproverID, &l.Reason, &l.RejectionReason,
		&l.CreatedAt, &l.UpdatedAt, &l.LeaveName,
	)
	return l, err
}

func (r *leaveRepositoryImpl) getOne(ctx context.Context, query, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave by id %s: %w", id, err)
	}
	return found, nil
}

func (r *leaveRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	leaves := []leave.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO leaves (company_id, user_id, company_user_id, leave_type_id, users_leave_record_id,
			start_date, end_date, leave_days, status, approver_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, l.CompanyID, l.UserID, l.CompanyUserID, l.LeaveTypeID, l.UsersLeaveRecordID,
		l.StartDate, l.EndDate, l.LeaveDays, l.Status, l.ApproverID, l.Reason,
	).Scan(&id)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	return r.getOne(ctx, leaveSelect+" WHERE l.id = $1", id)
}

// GetByIDForUpdate implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.Leave, error) {
	return r.getOne(ctx, leaveSelect+" WHERE l.id = $1 FOR UPDATE OF l", id)
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.company_id = $%d", argIdx))
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leaves l WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leaves: %w", err)
	}

	query := leaveSelect + " WHERE " + where +
		fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	leaves, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

// ExistsOverlap implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ExistsOverlap(ctx context.Context, userID, companyID string, start, end time.Time, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leaves
			WHERE user_id = $1 AND company_id = $2
			  AND status IN `+blockingStatuses+`
			  AND start_date <= $4::date AND end_date >= $3::date
			  AND ($5::uuid IS NULL OR id <> $5)
		)`, userID, companyID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// HasApprovedOn implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) HasApprovedOn(ctx context.Context, companyID, userID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leaves
			WHERE company_id = $1 AND user_id = $2 AND status = 'APPROVED'
			  AND $3::date BETWEEN start_date AND end_date
		)`, companyID, userID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}

// ListForUser implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListForUser(ctx context.Context, userID string, companyID *string, year *int) ([]leave.Leave, error) {
	return r.query(ctx, leaveSelect+`
		WHERE l.user_id = $1
		  AND ($2::uuid IS NULL OR l.company_id = $2)
		  AND ($3::int IS NULL OR EXTRACT(YEAR FROM l.start_date)::int = $3)
		ORDER BY l.start_date DESC`, userID, companyID, year)
}

// ListApprovedInRange implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedInRange(ctx context.Context, userID, companyID string, from, to time.Time) ([]leave.Leave, error) {
	return r.query(ctx, leaveSelect+`
		WHERE l.user_id = $1 AND l.company_id = $2 AND l.status = 'APPROVED'
		  AND l.start_date <= $4::date AND l.end_date >= $3::date
		ORDER BY l.start_date`, userID, companyID, from, to)
}

// Update implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Update(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leaves
		SET start_date = $2, end_date = $3, leave_days = $4, status = $5, approver_id = $6,
			reason = $7, rejection_reason = $8, updated_at = NOW()
		WHERE id = $1
	`, l.ID, l.StartDate, l.EndDate, l.LeaveDays, l.Status, l.ApproverID, l.Reason, l.RejectionReason)
	if err != nil {
		return fmt.Errorf("failed to update leave with id %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// Delete implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leaves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// CountByStatus implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) CountByStatus(ctx context.Context, companyID string) (map[leave.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM leaves WHERE company_id = $1 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count leaves by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[leave.Status]int64)
	for rows.Next() {
		var (
			status leave.Status
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan leave count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CreateComment implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) CreateComment(ctx context.Context, c leave.Comment) (leave.Comment, error) {
	q := GetQuerier(ctx, r.db)

	var created leave.Comment
	err := q.QueryRow(ctx, `
		INSERT INTO leave_comments (leave_id, user_id, comment)
		VALUES ($1, $2, $3)
		RETURNING id, leave_id, user_id, comment, created_at
	`, c.LeaveID, c.UserID, c.Comment).Scan(
		&created.ID, &created.LeaveID, &created.UserID, &created.Comment, &created.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.Comment{}, leave.ErrLeaveNotFound
		}
		return leave.Comment{}, fmt.Errorf("failed to create leave comment: %w", err)
	}
	return created, nil
}

// ListComments implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListComments(ctx context.Context, leaveID string) ([]leave.Comment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, leave_id, user_id, comment, created_at
		FROM leave_comments
		WHERE leave_id = $1
		ORDER BY created_at
	`, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave comments: %w", err)
	}
	defer rows.Close()

	comments := []leave.Comment{}
	for rows.Next() {
		var c leave.Comment
		if err := rows.Scan(&c.ID, &c.LeaveID, &c.UserID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateAttachment implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) CreateAttachment(ctx context.Context, a leave.Attachment) (leave.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	var created leave.Attachment
	err := q.QueryRow(ctx, `
		INSERT INTO leave_attachments (leave_id, user_id, path, file_name, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, leave_id, user_id, path, file_name, file_size, mime_type, created_at
	`, a.LeaveID, a.UserID, a.Path, a.FileName, a.FileSize, a.MimeType).Scan(
		&created.ID, &created.LeaveID, &created.UserID, &created.Path, &created.FileName,
		&created.FileSize, &created.MimeType, &created.CreatedAt,
	)
	if err != nil {
		return leave.Attachment{}, fmt.Errorf("failed to create leave attachment: %w", err)
	}
	return created, nil
}

// ListAttachments implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListAttachments(ctx context.Context, leaveID string) ([]leave.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, leave_id, user_id, path, file_name, file_size, mime_type, created_at
		FROM leave_attachments
		WHERE leave_id = $1
		ORDER BY created_at
	`, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave attachments: %w", err)
	}
	defer rows.Close()

	attachments := []leave.Attachment{}
	for rows.Next() {
		var a leave.Attachment
		if err := rows.Scan(&a.ID, &a.LeaveID, &a.UserID, &a.Path, &a.FileName, &a.FileSize, &a.MimeType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
