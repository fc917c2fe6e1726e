package leave

import (
	"context"
	"time"
)

type AllocationRepository interface {
	// FindOrCreate returns the company's allocation, creating it on first use.
	FindOrCreate(ctx context.Context, companyID string) (LeaveTypeAllocation, error)
}

type AttributeRepository interface {
	Create(ctx context.Context, attr LeaveAttribute) (LeaveAttribute, error)
	GetByID(ctx context.Context, id string) (LeaveAttribute, error)
	GetByIDForUpdate(ctx context.Context, id string) (LeaveAttribute, error)
	List(ctx context.Context, filter AttributeFilter) ([]LeaveAttribute, int64, error)
	Update(ctx context.Context, attr LeaveAttribute) (LeaveAttribute, error)
	Delete(ctx context.Context, id string) error
}

type RecordRepository interface {
	Create(ctx context.Context, rec UsersLeaveRecord) (UsersLeaveRecord, error)
	GetByID(ctx context.Context, id string) (UsersLeaveRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (UsersLeaveRecord, error)
	FindForMember(ctx context.Context, companyUserID, attributeID string, year int) (UsersLeaveRecord, error)
	ListByAttributeForUpdate(ctx context.Context, attributeID string) ([]UsersLeaveRecord, error)
	List(ctx context.Context, filter RecordFilter) ([]UsersLeaveRecord, int64, error)
	// ListForUser returns the user's records in companyID for year with their attribute.
	ListForUser(ctx context.Context, userID, companyID string, year int) ([]UsersLeaveRecord, error)
	UpdateBalance(ctx context.Context, rec UsersLeaveRecord) error
}

type CarryForwardRepository interface {
	Create(ctx context.Context, cf CarryForwardDays) (CarryForwardDays, error)
	GetByID(ctx context.Context, id string) (CarryForwardDays, error)
	ListByRecord(ctx context.Context, recordID string) ([]CarryForwardDays, error)
	Delete(ctx context.Context, id string) error
}

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	GetByIDForUpdate(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)
	// ExistsOverlap checks blocking leaves of the user overlapping [start, end].
	ExistsOverlap(ctx context.Context, userID, companyID string, start, end time.Time, excludeID *string) (bool, error)
	HasApprovedOn(ctx context.Context, companyID, userID string, day time.Time) (bool, error)
	ListForUser(ctx context.Context, userID string, companyID *string, year *int) ([]Leave, error)
	ListApprovedInRange(ctx context.Context, userID, companyID string, from, to time.Time) ([]Leave, error)
	Update(ctx context.Context, l Leave) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, companyID string) (map[Status]int64, error)

	CreateComment(ctx context.Context, c Comment) (Comment, error)
	ListComments(ctx context.Context, leaveID string) ([]Comment, error)
	CreateAttachment(ctx context.Context, a Attachment) (Attachment, error)
	ListAttachments(ctx context.Context, leaveID string) ([]Attachment, error)
}
