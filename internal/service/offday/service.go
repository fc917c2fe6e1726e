package offday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/offday"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
)

const dateLayout = "2006-01-02"

type OffDayServiceImpl struct {
	db             *database.DB
	companyOffRepo offday.CompanyOffRepository
	offday.OffDayRepository
	companyUserRepo companyuser.CompanyUserRepository
	loc             *time.Location
}

func NewOffDayService(
	db *database.DB,
	companyOffRepo offday.CompanyOffRepository,
	offDayRepository offday.OffDayRepository,
	companyUserRepo companyuser.CompanyUserRepository,
	loc *time.Location,
) offday.OffDayService {
	if loc == nil {
		loc = time.UTC
	}
	return &OffDayServiceImpl{
		db:               db,
		companyOffRepo:   companyOffRepo,
		OffDayRepository: offDayRepository,
		companyUserRepo:  companyUserRepo,
		loc:              loc,
	}
}

// UpsertCompanyOff implements offday.OffDayService.
func (s *OffDayServiceImpl) UpsertCompanyOff(ctx context.Context, req offday.UpsertCompanyOffRequest) (offday.CompanyOffResponse, error) {
	var result offday.CompanyOff
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.companyOffRepo.GetByCompanyForUpdate(txCtx, req.CompanyID)
		if err != nil && !errors.Is(err, offday.ErrCompanyOffNotFound) {
			return err
		}

		if errors.Is(err, offday.ErrCompanyOffNotFound) {
			result, err = s.companyOffRepo.Create(txCtx, offday.CompanyOff{
				CompanyID:   req.CompanyID,
				WeekDay:     offday.MergeWeekDays(nil, req.WeekDay),
				Description: req.Description,
			})
			return err
		}

		existing.WeekDay = offday.MergeWeekDays(existing.WeekDay, req.WeekDay)
		if req.Description != nil {
			existing.Description = req.Description
		}
		result, err = s.companyOffRepo.Update(txCtx, existing)
		return err
	})
	if err != nil {
		logUnexpected("failed to upsert company off", err)
		return offday.CompanyOffResponse{}, err
	}
	return offday.NewCompanyOffResponse(result), nil
}

// ListCompanyOffs implements offday.OffDayService.
func (s *OffDayServiceImpl) ListCompanyOffs(ctx context.Context, filter offday.CompanyOffFilter) (offday.ListCompanyOffResponse, error) {
	offs, total, err := s.companyOffRepo.List(ctx, filter)
	if err != nil {
		return offday.ListCompanyOffResponse{}, err
	}

	resp := offday.ListCompanyOffResponse{
		Page:        pagination.NewPage(filter.Page, filter.Limit, total),
		CompanyOffs: make([]offday.CompanyOffResponse, 0, len(offs)),
	}
	for _, c := range offs {
		resp.CompanyOffs = append(resp.CompanyOffs, offday.NewCompanyOffResponse(c))
	}
	return resp, nil
}

// GetCompanyOff implements offday.OffDayService.
func (s *OffDayServiceImpl) GetCompanyOff(ctx context.Context, id string) (offday.CompanyOffResponse, error) {
	c, err := s.companyOffRepo.GetByID(ctx, id)
	if err != nil {
		return offday.CompanyOffResponse{}, err
	}
	return offday.NewCompanyOffResponse(c), nil
}

// UpdateCompanyOff implements offday.OffDayService.
func (s *OffDayServiceImpl) UpdateCompanyOff(ctx context.Context, req offday.UpdateCompanyOffRequest) (offday.CompanyOffResponse, error) {
	current, err := s.companyOffRepo.GetByID(ctx, req.ID)
	if err != nil {
		return offday.CompanyOffResponse{}, err
	}
	if req.WeekDay != nil {
		current.WeekDay = offday.MergeWeekDays(nil, req.WeekDay)
	}
	if req.Description != nil {
		current.Description = req.Description
	}

	updated, err := s.companyOffRepo.Update(ctx, current)
	if err != nil {
		return offday.CompanyOffResponse{}, err
	}
	return offday.NewCompanyOffResponse(updated), nil
}

// DeleteCompanyOff implements offday.OffDayService.
func (s *OffDayServiceImpl) DeleteCompanyOff(ctx context.Context, id string) error {
	return s.companyOffRepo.Delete(ctx, id)
}

// GetCompanyWeekOff implements offday.OffDayService.
func (s *OffDayServiceImpl) GetCompanyWeekOff(ctx context.Context, companyID string) (offday.WeekOffResponse, error) {
	resp := offday.WeekOffResponse{CompanyID: companyID, WeekDay: []int{}, WeekDayNames: []string{}}

	c, err := s.companyOffRepo.GetByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, offday.ErrCompanyOffNotFound) {
			return resp, nil
		}
		return offday.WeekOffResponse{}, err
	}
	resp.WeekDay = c.WeekDay
	resp.WeekDayNames = offday.WeekDayNames(c.WeekDay)
	return resp, nil
}

// checkMembers fails with a validation error naming every id that is not a
// membership of companyID.
func (s *OffDayServiceImpl) checkMembers(ctx context.Context, companyID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members, err := s.companyUserRepo.FilterMembers(ctx, companyID, ids)
	if err != nil {
		return err
	}
	found := make(map[string]bool, len(members))
	for _, id := range members {
		found[id] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return validator.ValidationErrors{{
			Field:   "user_ids",
			Message: fmt.Sprintf("not members of this company: %s", strings.Join(missing, ", ")),
		}}
	}
	return nil
}

// CreateOffDay implements offday.OffDayService.
func (s *OffDayServiceImpl) CreateOffDay(ctx context.Context, req offday.CreateOffDayRequest) (offday.OffDayResponse, error) {
	from, to := req.Dates()

	var created offday.OffDay
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		creator, err := s.companyUserRepo.GetByID(txCtx, req.CreatedByID)
		if err != nil {
			if errors.Is(err, companyuser.ErrCompanyUserNotFound) {
				return offday.ErrCreatorNotInCompany
			}
			return err
		}
		if creator.CompanyID != req.CompanyID {
			return offday.ErrCreatorNotInCompany
		}

		if err := s.checkMembers(txCtx, req.CompanyID, req.UserIDs); err != nil {
			return err
		}

		companyOff, err := s.companyOffRepo.GetByCompanyForUpdate(txCtx, req.CompanyID)
		if errors.Is(err, offday.ErrCompanyOffNotFound) {
			companyOff, err = s.companyOffRepo.Create(txCtx, offday.CompanyOff{
				CompanyID: req.CompanyID,
				WeekDay:   []int{},
			})
		}
		if err != nil {
			return err
		}

		created, err = s.OffDayRepository.Create(txCtx, offday.OffDay{
			CompanyID:    req.CompanyID,
			CompanyOffID: companyOff.ID,
			CreatedByID:  req.CreatedByID,
			Name:         req.Name,
			HolidayType:  req.HolidayType,
			FromDate:     from,
			ToDate:       to,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			Description:  req.Description,
			UserIDs:      req.UserIDs,
		})
		return err
	})
	if err != nil {
		logUnexpected("failed to create off day", err)
		return offday.OffDayResponse{}, err
	}

	slog.Info("off day created", "off_day_id", created.ID, "company_id", created.CompanyID)
	return offday.NewOffDayResponse(created), nil
}

func mapOffDays(days []offday.OffDay) []offday.OffDayResponse {
	resp := make([]offday.OffDayResponse, 0, len(days))
	for _, o := range days {
		resp = append(resp, offday.NewOffDayResponse(o))
	}
	return resp
}

// ListOffDaysByCompany implements offday.OffDayService.
func (s *OffDayServiceImpl) ListOffDaysByCompany(ctx context.Context, companyID string, r offday.OffDayRangeFilter) ([]offday.OffDayResponse, error) {
	days, err := s.OffDayRepository.ListByCompany(ctx, companyID, r)
	if err != nil {
		return nil, err
	}
	return mapOffDays(days), nil
}

// ListOffDaysByUser implements offday.OffDayService.
func (s *OffDayServiceImpl) ListOffDaysByUser(ctx context.Context, companyUserID string, r offday.OffDayRangeFilter) ([]offday.OffDayResponse, error) {
	days, err := s.OffDayRepository.ListByUser(ctx, companyUserID, r)
	if err != nil {
		return nil, err
	}
	return mapOffDays(days), nil
}

// UpcomingOffDaysForUser implements offday.OffDayService.
func (s *OffDayServiceImpl) UpcomingOffDaysForUser(ctx context.Context, companyUserID string, days int) ([]offday.OffDayResponse, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, days)
	return s.ListOffDaysByUser(ctx, companyUserID, offday.OffDayRangeFilter{From: &from, To: &to})
}

// GetOffDay implements offday.OffDayService.
func (s *OffDayServiceImpl) GetOffDay(ctx context.Context, id string) (offday.OffDayResponse, error) {
	o, err := s.OffDayRepository.GetByID(ctx, id)
	if err != nil {
		return offday.OffDayResponse{}, err
	}
	return offday.NewOffDayResponse(o), nil
}

// UpdateOffDay implements offday.OffDayService.
func (s *OffDayServiceImpl) UpdateOffDay(ctx context.Context, req offday.UpdateOffDayRequest) (offday.OffDayResponse, error) {
	var updated offday.OffDay
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		current, err := s.OffDayRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			current.Name = strings.TrimSpace(*req.Name)
		}
		if req.HolidayType != nil {
			current.HolidayType = *req.HolidayType
		}
		if req.FromDate != nil {
			current.FromDate, _ = time.Parse(dateLayout, *req.FromDate)
		}
		if req.ToDate != nil {
			current.ToDate, _ = time.Parse(dateLayout, *req.ToDate)
		}
		if current.FromDate.After(current.ToDate) {
			return validator.ValidationErrors{{Field: "to_date", Message: "to_date must not be before from_date"}}
		}
		if req.StartTime != nil {
			current.StartTime = req.StartTime
		}
		if req.EndTime != nil {
			current.EndTime = req.EndTime
		}
		if req.Description != nil {
			current.Description = req.Description
		}

		if req.UserIDs != nil {
			if err := s.checkMembers(txCtx, current.CompanyID, *req.UserIDs); err != nil {
				return err
			}
			if err := s.OffDayRepository.ReplaceUsers(txCtx, current.ID, *req.UserIDs); err != nil {
				return err
			}
		}

		updated, err = s.OffDayRepository.Update(txCtx, current)
		return err
	})
	if err != nil {
		logUnexpected("failed to update off day", err)
		return offday.OffDayResponse{}, err
	}
	return offday.NewOffDayResponse(updated), nil
}

// DeleteOffDay implements offday.OffDayService.
func (s *OffDayServiceImpl) DeleteOffDay(ctx context.Context, id string) error {
	return s.OffDayRepository.Delete(ctx, id)
}

func logUnexpected(msg string, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		slog.Error(msg, "error", err)
	}
}
