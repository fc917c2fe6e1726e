package shift

import "context"

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, filter ShiftFilter) ([]Shift, int64, error)
	Update(ctx context.Context, s Shift) (Shift, error)
	Delete(ctx context.Context, id string) error

	CreateAttribute(ctx context.Context, attr ShiftAttribute) (ShiftAttribute, error)
	GetAttribute(ctx context.Context, id string) (ShiftAttribute, error)
	// GetAttributeCompanyID returns the company owning the attribute's shift.
	GetAttributeCompanyID(ctx context.Context, attributeID string) (string, error)
	UpdateAttribute(ctx context.Context, attr ShiftAttribute) (ShiftAttribute, error)
	DeleteAttribute(ctx context.Context, id string) error

	// CreateAssignment returns false when the user is already assigned.
	CreateAssignment(ctx context.Context, attributeID, companyUserID string) (bool, error)
	DeleteAssignments(ctx context.Context, attributeID string, companyUserIDs []string) (int64, error)
	// FindActiveAssignment returns the most recent assignment to an active
	// attribute of a shift owned by companyID.
	FindActiveAssignment(ctx context.Context, companyUserID, companyID string) (ActiveAssignment, error)
}
