package offday

import "context"

type OffDayService interface {
	UpsertCompanyOff(ctx context.Context, req UpsertCompanyOffRequest) (CompanyOffResponse, error)
	ListCompanyOffs(ctx context.Context, filter CompanyOffFilter) (ListCompanyOffResponse, error)
	GetCompanyOff(ctx context.Context, id string) (CompanyOffResponse, error)
	UpdateCompanyOff(ctx context.Context, req UpdateCompanyOffRequest) (CompanyOffResponse, error)
	DeleteCompanyOff(ctx context.Context, id string) error
	GetCompanyWeekOff(ctx context.Context, companyID string) (WeekOffResponse, error)

	CreateOffDay(ctx context.Context, req CreateOffDayRequest) (OffDayResponse, error)
	ListOffDaysByCompany(ctx context.Context, companyID string, r OffDayRangeFilter) ([]OffDayResponse, error)
	ListOffDaysByUser(ctx context.Context, companyUserID string, r OffDayRangeFilter) ([]OffDayResponse, error)
	UpcomingOffDaysForUser(ctx context.Context, companyUserID string, days int) ([]OffDayResponse, error)
	GetOffDay(ctx context.Context, id string) (OffDayResponse, error)
	UpdateOffDay(ctx context.Context, req UpdateOffDayRequest) (OffDayResponse, error)
	DeleteOffDay(ctx context.Context, id string) error
}
