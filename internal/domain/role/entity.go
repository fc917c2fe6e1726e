package role

import "time"

// CompanyRole is a named role scoped to one company.
type CompanyRole struct {
	ID          string
	CompanyID   string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
