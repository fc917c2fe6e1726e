package fixtures

import "github.com/cmlabs-hris/hrops-backend-go/internal/domain/role"

func strPtr(s string) *string { return &s }

// ==========================================
// DEFAULT COMPANY ROLES
// ==========================================

// DefaultRoles returns the roles seeded for every new company.
func DefaultRoles(companyID string) []role.CompanyRole {
	return []role.CompanyRole{
		{
			CompanyID:   companyID,
			Name:        "Admin",
			Description: strPtr("Full access to company settings, members and approvals"),
		},
		{
			CompanyID:   companyID,
			Name:        "Manager",
			Description: strPtr("Manages shifts and reviews leave requests"),
		},
		{
			CompanyID:   companyID,
			Name:        "Employee",
			Description: strPtr("Regular member"),
		},
	}
}
