package attendance

import "time"

type Status string

const (
	StatusPresent    Status = "PRESENT"
	StatusAbsent     Status = "ABSENT"
	StatusOnLeave    Status = "ON_LEAVE"
	StatusHalfDay    Status = "HALF_DAY"
	StatusLate       Status = "LATE"
	StatusEarlyLeave Status = "EARLY_LEAVE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusOnLeave, StatusHalfDay, StatusLate, StatusEarlyLeave:
		return true
	}
	return false
}

type PunchType string

const (
	PunchTypeIn  PunchType = "IN"
	PunchTypeOut PunchType = "OUT"
)

// Attendance is the daily aggregate for one user in one company.
type Attendance struct {
	ID             string
	CompanyID      string
	UserID         string
	CompanyUserID  *string
	PunchDate      time.Time
	FinalStatus    Status
	TotalWorkHours float64
	TotalOvertime  float64
	Punches        []UserPunch
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	UserName *string
}

// UserPunch is one punch-in and its eventual punch-out.
type UserPunch struct {
	ID               string
	AttendanceID     string
	PunchIn          time.Time
	PunchOut         *time.Time
	PunchInLocation  *Location
	PunchOutLocation *Location
	PunchType        PunchType
	Status           Status
	WorkHours        *float64
	Overtime         *float64
	DeviceID         *string
	IPAddress        *string
	Remarks          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p UserPunch) IsOpen() bool {
	return p.PunchOut == nil
}

// DateOf truncates t to midnight of its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
