package companyuser

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// CompanyUser is a user's membership in one company.
type CompanyUser struct {
	ID         string
	UserID     string
	CompanyID  string
	RoleID     *string
	FirstName  string
	MiddleName *string
	LastName   *string
	Status     Status
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined columns, read-only
	Email    *string
	RoleName *string
}

// FullName joins the non-empty name parts.
func (c CompanyUser) FullName() string {
	parts := []string{c.FirstName}
	if c.MiddleName != nil && *c.MiddleName != "" {
		parts = append(parts, *c.MiddleName)
	}
	if c.LastName != nil && *c.LastName != "" {
		parts = append(parts, *c.LastName)
	}
	return strings.Join(parts, " ")
}

// Employed reports whether the membership may still book leave. Pending
// invitations count; deactivated or suspended memberships do not.
func (c CompanyUser) Employed() bool {
	if !c.IsActive {
		return false
	}
	return c.Status != StatusInactive && c.Status != StatusSuspended
}
