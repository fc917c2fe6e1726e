package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// UpsertForDay inserts the day's row or returns the existing one, locked for update.
	UpsertForDay(ctx context.Context, a Attendance) (Attendance, error)
	// GetForDayForUpdate locks the day's row inside the caller's transaction.
	GetForDayForUpdate(ctx context.Context, companyID, userID string, day time.Time) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	ListForUser(ctx context.Context, companyID, userID string, from, to time.Time) ([]Attendance, error)
	UpdateTotals(ctx context.Context, a Attendance) error
	Delete(ctx context.Context, id string) error
}

type PunchRepository interface {
	Create(ctx context.Context, p UserPunch) (UserPunch, error)
	// FindLatestOpen returns the newest punch without a punch-out.
	FindLatestOpen(ctx context.Context, attendanceID string) (UserPunch, error)
	ListByAttendance(ctx context.Context, attendanceID string) ([]UserPunch, error)
	// ListByAttendanceIDs groups punches by attendance id.
	ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]UserPunch, error)
	Close(ctx context.Context, p UserPunch) error
	DeleteByAttendance(ctx context.Context, attendanceID string) error
}
