package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
)

type AllocationServiceImpl struct {
	db *database.DB
	leave.AttributeRepository
	allocationRepo   leave.AllocationRepository
	recordRepo       leave.RecordRepository
	carryForwardRepo leave.CarryForwardRepository
	companyRepo      company.CompanyRepository
	companyUserRepo  companyuser.CompanyUserRepository
	now              func() time.Time
}

func NewAllocationService(
	db *database.DB,
	allocationRepo leave.AllocationRepository,
	attributeRepo leave.AttributeRepository,
	recordRepo leave.RecordRepository,
	carryForwardRepo leave.CarryForwardRepository,
	companyRepo company.CompanyRepository,
	companyUserRepo companyuser.CompanyUserRepository,
) leave.AllocationService {
	return &AllocationServiceImpl{
		db:                  db,
		AttributeRepository: attributeRepo,
		allocationRepo:      allocationRepo,
		recordRepo:          recordRepo,
		carryForwardRepo:    carryForwardRepo,
		companyRepo:         companyRepo,
		companyUserRepo:     companyUserRepo,
		now:                 time.Now,
	}
}

// CreateAllocation implements leave.AllocationService.
func (s *AllocationServiceImpl) CreateAllocation(ctx context.Context, req leave.CreateAllocationRequest) (leave.CreateAllocationResponse, error) {
	if req.Year < s.now().Year() {
		return leave.CreateAllocationResponse{}, leave.ErrPastYear
	}
	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return leave.CreateAllocationResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var resp leave.CreateAllocationResponse
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		alloc, err := s.allocationRepo.FindOrCreate(txCtx, req.CompanyID)
		if err != nil {
			return err
		}
		resp.AllocationID = alloc.ID

		for _, roleName := range req.Roles {
			attr, err := s.AttributeRepository.Create(txCtx, leave.LeaveAttribute{
				AllocationID:  alloc.ID,
				CompanyID:     req.CompanyID,
				Year:          req.Year,
				LeaveName:     req.LeaveName,
				Role:          roleName,
				AllocatedDays: req.AllocatedDays,
				IsActive:      isActive,
			})
			if err != nil {
				return err
			}
			resp.Attributes = append(resp.Attributes, leave.NewAttributeResponse(attr))

			members, err := s.companyUserRepo.ListActiveByRoleName(txCtx, req.CompanyID, roleName)
			if err != nil {
				return fmt.Errorf("failed to list members with role %q: %w", roleName, err)
			}
			for _, m := range members {
				if _, err := s.recordRepo.Create(txCtx, leave.NewRecord(attr, m.ID, m.UserID)); err != nil {
					return err
				}
				resp.RecordsCreated++
			}
		}
		return nil
	})
	if err != nil {
		logUnexpected("failed to create leave allocation", err)
		return leave.CreateAllocationResponse{}, err
	}

	slog.Info("leave allocation created",
		"company_id", req.CompanyID,
		"leave_name", req.LeaveName,
		"year", req.Year,
		"records", resp.RecordsCreated,
	)
	return resp, nil
}

// ListAttributes implements leave.AllocationService.
func (s *AllocationServiceImpl) ListAttributes(ctx context.Context, filter leave.AttributeFilter) (leave.ListAttributeResponse, error) {
	attrs, total, err := s.AttributeRepository.List(ctx, filter)
	if err != nil {
		return leave.ListAttributeResponse{}, err
	}

	resp := leave.ListAttributeResponse{
		Page:       pagination.NewPage(filter.Page, filter.Limit, total),
		Attributes: make([]leave.AttributeResponse, 0, len(attrs)),
	}
	for _, a := range attrs {
		resp.Attributes = append(resp.Attributes, leave.NewAttributeResponse(a))
	}
	return resp, nil
}

// GetAttribute implements leave.AllocationService.
func (s *AllocationServiceImpl) GetAttribute(ctx context.Context, id string) (leave.AttributeResponse, error) {
	attr, err := s.AttributeRepository.GetByID(ctx, id)
	if err != nil {
		return leave.AttributeResponse{}, err
	}
	return leave.NewAttributeResponse(attr), nil
}

// UpdateAttribute implements leave.AllocationService. A change of AllocatedDays
// rebalances every record of the attribute in the same transaction.
func (s *AllocationServiceImpl) UpdateAttribute(ctx context.Context, req leave.UpdateAttributeRequest) (leave.AttributeResponse, error) {
	var updated leave.LeaveAttribute
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		attr, err := s.AttributeRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.LeaveName != nil {
			attr.LeaveName = *req.LeaveName
		}
		if req.IsActive != nil {
			attr.IsActive = *req.IsActive
		}
		if req.AllocatedDays != nil && *req.AllocatedDays != attr.AllocatedDays {
			attr.AllocatedDays = *req.AllocatedDays

			records, err := s.recordRepo.ListByAttributeForUpdate(txCtx, attr.ID)
			if err != nil {
				return err
			}
			for _, rec := range records {
				rec, err = rec.Rebalance(attr.AllocatedDays)
				if err != nil {
					return err
				}
				if err := s.recordRepo.UpdateBalance(txCtx, rec); err != nil {
					return err
				}
			}
		}

		updated, err = s.AttributeRepository.Update(txCtx, attr)
		return err
	})
	if err != nil {
		logUnexpected("failed to update leave attribute", err)
		return leave.AttributeResponse{}, err
	}

	return leave.NewAttributeResponse(updated), nil
}

// DeleteAttribute implements leave.AllocationService.
func (s *AllocationServiceImpl) DeleteAttribute(ctx context.Context, id string) error {
	if err := s.AttributeRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("leave attribute deleted", "attribute_id", id)
	return nil
}

// ListRecords implements leave.AllocationService.
func (s *AllocationServiceImpl) ListRecords(ctx context.Context, filter leave.RecordFilter) (leave.ListRecordResponse, error) {
	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return leave.ListRecordResponse{}, err
	}

	resp := leave.ListRecordResponse{
		Page:    pagination.NewPage(filter.Page, filter.Limit, total),
		Records: make([]leave.RecordResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, leave.NewRecordResponse(r))
	}
	return resp, nil
}

// GetRecord implements leave.AllocationService.
func (s *AllocationServiceImpl) GetRecord(ctx context.Context, id string) (leave.RecordResponse, error) {
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return leave.RecordResponse{}, err
	}
	rec.CarryForwards, err = s.carryForwardRepo.ListByRecord(ctx, rec.ID)
	if err != nil {
		return leave.RecordResponse{}, err
	}
	return leave.NewRecordResponse(rec), nil
}

// AddCarryForward implements leave.AllocationService.
func (s *AllocationServiceImpl) AddCarryForward(ctx context.Context, req leave.AddCarryForwardRequest) (leave.RecordResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		rec, err := s.recordRepo.GetByIDForUpdate(txCtx, req.UsersLeaveRecordID)
		if err != nil {
			return err
		}
		rec, err = rec.AddCarryForward(req.Days)
		if err != nil {
			return err
		}
		if _, err := s.carryForwardRepo.Create(txCtx, leave.CarryForwardDays{
			UsersLeaveRecordID: rec.ID,
			Days:               req.Days,
			Year:               req.Year,
		}); err != nil {
			return err
		}
		return s.recordRepo.UpdateBalance(txCtx, rec)
	})
	if err != nil {
		logUnexpected("failed to add carry forward", err)
		return leave.RecordResponse{}, err
	}

	slog.Info("carry forward added", "record_id", req.UsersLeaveRecordID, "days", req.Days)
	return s.GetRecord(ctx, req.UsersLeaveRecordID)
}

// ListCarryForward implements leave.AllocationService.
func (s *AllocationServiceImpl) ListCarryForward(ctx context.Context, recordID string) ([]leave.CarryForwardResponse, error) {
	if _, err := s.recordRepo.GetByID(ctx, recordID); err != nil {
		return nil, err
	}
	entries, err := s.carryForwardRepo.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	resp := make([]leave.CarryForwardResponse, 0, len(entries))
	for _, cf := range entries {
		resp = append(resp, leave.NewCarryForwardResponse(cf))
	}
	return resp, nil
}

// RemoveCarryForward implements leave.AllocationService.
func (s *AllocationServiceImpl) RemoveCarryForward(ctx context.Context, id string) (leave.RecordResponse, error) {
	var recordID string
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		cf, err := s.carryForwardRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		recordID = cf.UsersLeaveRecordID

		rec, err := s.recordRepo.GetByIDForUpdate(txCtx, cf.UsersLeaveRecordID)
		if err != nil {
			return err
		}
		rec, err = rec.RemoveCarryForward(cf.Days)
		if err != nil {
			return err
		}
		if err := s.carryForwardRepo.Delete(txCtx, cf.ID); err != nil {
			return err
		}
		return s.recordRepo.UpdateBalance(txCtx, rec)
	})
	if err != nil {
		logUnexpected("failed to remove carry forward", err)
		return leave.RecordResponse{}, err
	}

	slog.Info("carry forward removed", "carry_forward_id", id, "record_id", recordID)
	return s.GetRecord(ctx, recordID)
}

func logUnexpected(msg string, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		slog.Error(msg, "error", err)
	}
}
