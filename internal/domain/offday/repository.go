package offday

import (
	"context"
	"time"
)

type CompanyOffRepository interface {
	Create(ctx context.Context, c CompanyOff) (CompanyOff, error)
	GetByID(ctx context.Context, id string) (CompanyOff, error)
	// GetByCompany locks nothing; use GetByCompanyForUpdate inside a transaction to merge.
	GetByCompany(ctx context.Context, companyID string) (CompanyOff, error)
	GetByCompanyForUpdate(ctx context.Context, companyID string) (CompanyOff, error)
	List(ctx context.Context, filter CompanyOffFilter) ([]CompanyOff, int64, error)
	Update(ctx context.Context, c CompanyOff) (CompanyOff, error)
	Delete(ctx context.Context, id string) error
}

type OffDayRepository interface {
	Create(ctx context.Context, o OffDay) (OffDay, error)
	GetByID(ctx context.Context, id string) (OffDay, error)
	ListByCompany(ctx context.Context, companyID string, r OffDayRangeFilter) ([]OffDay, error)
	// ListByUser returns off days linked to the company user.
	ListByUser(ctx context.Context, companyUserID string, r OffDayRangeFilter) ([]OffDay, error)
	Update(ctx context.Context, o OffDay) (OffDay, error)
	ReplaceUsers(ctx context.Context, offDayID string, companyUserIDs []string) error
	Delete(ctx context.Context, id string) error

	// HasCompanyWideOn reports whether an off day without linked users covers day.
	HasCompanyWideOn(ctx context.Context, companyID string, day time.Time) (bool, error)
	// HasUserOffOn reports whether an off day linked to the user's membership covers day.
	HasUserOffOn(ctx context.Context, companyID, userID string, day time.Time) (bool, error)
}
