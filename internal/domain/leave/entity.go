package leave

import "time"

// LeaveTypeAllocation is the per-company container of leave policies.
type LeaveTypeAllocation struct {
	ID        string
	CompanyID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveAttribute grants AllocatedDays of one leave type to one role for one year.
type LeaveAttribute struct {
	ID            string
	AllocationID  string
	CompanyID     string
	Year          int
	LeaveName     string
	Role          string
	AllocatedDays float64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UsersLeaveRecord is one member's balance for one attribute and year.
type UsersLeaveRecord struct {
	ID               string
	CompanyUserID    string
	UserID           string
	LeaveAttributeID string
	Year             int
	UsedDays         float64
	RemainingDays    float64
	CarriedOverDays  float64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Attribute     *LeaveAttribute
	CarryForwards []CarryForwardDays
}

// CarryForwardDays is an append-only adjustment to a record's carried days.
type CarryForwardDays struct {
	ID                 string
	UsersLeaveRecordID string
	Days               float64
	Year               int
	CreatedAt          time.Time
}

type Leave struct {
	ID                 string
	CompanyID          string
	UserID             string
	CompanyUserID      string
	LeaveTypeID        string
	UsersLeaveRecordID string
	StartDate          time.Time
	EndDate            time.Time
	LeaveDays          float64
	Status             Status
	ApproverID         *string
	Reason             *string
	RejectionReason    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	LeaveName   *string
	Comments    []Comment
	Attachments []Attachment
}

type Comment struct {
	ID        string
	LeaveID   string
	UserID    string
	Comment   string
	CreatedAt time.Time
}

type Attachment struct {
	ID        string
	LeaveID   string
	UserID    string
	Path      string
	FileName  string
	FileSize  int64
	MimeType  string
	CreatedAt time.Time
}
