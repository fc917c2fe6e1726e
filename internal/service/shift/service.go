package shift

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
)

type ShiftServiceImpl struct {
	db *database.DB
	shift.ShiftRepository
	companyUserRepo companyuser.CompanyUserRepository
}

func NewShiftService(db *database.DB, shiftRepository shift.ShiftRepository, companyUserRepo companyuser.CompanyUserRepository) shift.ShiftService {
	return &ShiftServiceImpl{
		db:              db,
		ShiftRepository: shiftRepository,
		companyUserRepo: companyUserRepo,
	}
}

// ensureMember fails with ErrCreatorNotInCompany unless companyUserID is a
// membership of companyID.
func (s *ShiftServiceImpl) ensureMember(ctx context.Context, companyUserID, companyID string) error {
	cu, err := s.companyUserRepo.GetByID(ctx, companyUserID)
	if err != nil {
		if errors.Is(err, companyuser.ErrCompanyUserNotFound) {
			return shift.ErrCreatorNotInCompany
		}
		return err
	}
	if cu.CompanyID != companyID {
		return shift.ErrCreatorNotInCompany
	}
	return nil
}

// CreateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	var shiftID string
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.ensureMember(txCtx, req.ShiftCreatedBy, req.CompanyID); err != nil {
			return err
		}

		created, err := s.ShiftRepository.Create(txCtx, shift.Shift{
			CompanyID:      req.CompanyID,
			ShiftCreatedBy: req.ShiftCreatedBy,
		})
		if err != nil {
			return err
		}
		shiftID = created.ID

		for _, attrReq := range req.Attributes {
			attr := attrReq.ToAttribute()
			attr.ShiftID = created.ID
			createdAttr, err := s.ShiftRepository.CreateAttribute(txCtx, attr)
			if err != nil {
				return err
			}

			if len(attrReq.AssignedUserIDs) == 0 {
				continue
			}
			members, err := s.companyUserRepo.FilterMembers(txCtx, req.CompanyID, attrReq.AssignedUserIDs)
			if err != nil {
				return err
			}
			for _, memberID := range members {
				if _, err := s.ShiftRepository.CreateAssignment(txCtx, createdAttr.ID, memberID); err != nil {
					return err
				}
			}
			if skipped := len(attrReq.AssignedUserIDs) - len(members); skipped > 0 {
				slog.Warn("skipped shift assignees outside company",
					"shift_attribute_id", createdAttr.ID, "skipped", skipped)
			}
		}
		return nil
	})
	if err != nil {
		logUnexpected("failed to create shift", err)
		return shift.ShiftResponse{}, err
	}
	return s.GetShift(ctx, shiftID)
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	shifts, total, err := s.ShiftRepository.List(ctx, filter)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}

	resp := shift.ListShiftResponse{
		Page:   pagination.NewPage(filter.Page, filter.Limit, total),
		Shifts: make([]shift.ShiftResponse, 0, len(shifts)),
	}
	for _, sh := range shifts {
		resp.Shifts = append(resp.Shifts, shift.NewShiftResponse(sh))
	}
	return resp, nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(sh), nil
}

// UpdateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		current, err := s.ShiftRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if req.CompanyID != nil {
			current.CompanyID = *req.CompanyID
		}
		if req.ShiftCreatedBy != nil {
			current.ShiftCreatedBy = *req.ShiftCreatedBy
		}
		if req.CompanyID != nil || req.ShiftCreatedBy != nil {
			if err := s.ensureMember(txCtx, current.ShiftCreatedBy, current.CompanyID); err != nil {
				return err
			}
		}
		_, err = s.ShiftRepository.Update(txCtx, current)
		return err
	})
	if err != nil {
		logUnexpected("failed to update shift", err)
		return shift.ShiftResponse{}, err
	}
	return s.GetShift(ctx, req.ID)
}

// DeleteShift implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	return s.ShiftRepository.Delete(ctx, id)
}

// AssignShift implements shift.ShiftService.
func (s *ShiftServiceImpl) AssignShift(ctx context.Context, req shift.AssignShiftRequest) (shift.AssignShiftResponse, error) {
	resp := shift.AssignShiftResponse{
		ShiftAttributeID: req.ShiftAttributeID,
		AssignedUserIDs:  []string{},
	}

	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		companyID, err := s.ShiftRepository.GetAttributeCompanyID(txCtx, req.ShiftAttributeID)
		if err != nil {
			return err
		}

		if len(req.RemoveUserIDs) > 0 {
			removed, err := s.ShiftRepository.DeleteAssignments(txCtx, req.ShiftAttributeID, req.RemoveUserIDs)
			if err != nil {
				return err
			}
			resp.Removed = removed
		}

		if len(req.AssignedUserIDs) == 0 {
			return nil
		}
		members, err := s.companyUserRepo.FilterMembers(txCtx, companyID, req.AssignedUserIDs)
		if err != nil {
			return err
		}
		resp.Skipped = len(req.AssignedUserIDs) - len(members)

		for _, memberID := range members {
			created, err := s.ShiftRepository.CreateAssignment(txCtx, req.ShiftAttributeID, memberID)
			if err != nil {
				return err
			}
			if !created {
				resp.Skipped++
				continue
			}
			resp.Created++
			resp.AssignedUserIDs = append(resp.AssignedUserIDs, memberID)
		}
		return nil
	})
	if err != nil {
		logUnexpected("failed to assign shift", err)
		return shift.AssignShiftResponse{}, err
	}
	return resp, nil
}

// UpdateAttribute implements shift.ShiftService.
func (s *ShiftServiceImpl) UpdateAttribute(ctx context.Context, req shift.UpdateShiftAttributeRequest) (shift.ShiftAttributeResponse, error) {
	current, err := s.ShiftRepository.GetAttribute(ctx, req.ID)
	if err != nil {
		return shift.ShiftAttributeResponse{}, err
	}

	if req.ShiftName != nil {
		current.ShiftName = *req.ShiftName
	}
	if req.StartTime != nil {
		if t, ok := validator.ParseTimeOfDay(*req.StartTime); ok {
			current.StartTime = t
		}
	}
	if req.EndTime != nil {
		if t, ok := validator.ParseTimeOfDay(*req.EndTime); ok {
			current.EndTime = t
		}
	}
	if req.BreakDuration != nil {
		current.BreakDuration = req.BreakDuration
	}
	if req.GracePeriodMinutes != nil {
		current.GracePeriodMinutes = req.GracePeriodMinutes
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Color != nil {
		current.Color = req.Color
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := s.ShiftRepository.UpdateAttribute(ctx, current)
	if err != nil {
		return shift.ShiftAttributeResponse{}, err
	}
	updated.Assignments = current.Assignments
	return shift.NewAttributeResponse(updated), nil
}

// DeleteAttribute implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteAttribute(ctx context.Context, id string) error {
	return s.ShiftRepository.DeleteAttribute(ctx, id)
}

func logUnexpected(msg string, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		slog.Error(msg, "error", err)
	}
}
