package shift

import "time"

type Shift struct {
	ID             string
	CompanyID      string
	ShiftCreatedBy string
	Attributes     []ShiftAttribute
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShiftAttribute is a named shift template. Only the time-of-day part of
// StartTime and EndTime is meaningful.
type ShiftAttribute struct {
	ID                 string
	ShiftID            string
	ShiftName          string
	StartTime          time.Time
	EndTime            time.Time
	BreakDuration      *int
	GracePeriodMinutes *int
	Description        *string
	Color              *string
	IsActive           bool
	Assignments        []Assignment
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Assignment links one company user to one shift attribute.
type Assignment struct {
	ID               string
	ShiftAttributeID string
	AssignedUserID   string
	AssignedAt       time.Time
}

// ActiveAssignment is the assignment currently governing a company user.
type ActiveAssignment struct {
	Assignment Assignment
	CompanyID  string
	Attribute  ShiftAttribute
}

func (a ShiftAttribute) GraceMinutes() int {
	if a.GracePeriodMinutes == nil {
		return 0
	}
	return *a.GracePeriodMinutes
}

func (a ShiftAttribute) BreakMinutes() int {
	if a.BreakDuration == nil {
		return 0
	}
	return *a.BreakDuration
}
