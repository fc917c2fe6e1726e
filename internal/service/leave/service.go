package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hrops-backend-go/internal/service/file"
)

const dateLayout = "2006-01-02"

type LeaveServiceImpl struct {
	db *database.DB
	leave.LeaveRepository
	attributeRepo    leave.AttributeRepository
	recordRepo       leave.RecordRepository
	carryForwardRepo leave.CarryForwardRepository
	companyUserRepo  companyuser.CompanyUserRepository
	fileService      file.FileService
	maxAttachment    int64
	now              func() time.Time
}

func NewLeaveService(
	db *database.DB,
	leaveRepo leave.LeaveRepository,
	attributeRepo leave.AttributeRepository,
	recordRepo leave.RecordRepository,
	carryForwardRepo leave.CarryForwardRepository,
	companyUserRepo companyuser.CompanyUserRepository,
	fileService file.FileService,
	maxAttachment int64,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:               db,
		LeaveRepository:  leaveRepo,
		attributeRepo:    attributeRepo,
		recordRepo:       recordRepo,
		carryForwardRepo: carryForwardRepo,
		companyUserRepo:  companyUserRepo,
		fileService:      fileService,
		maxAttachment:    maxAttachment,
		now:              time.Now,
	}
}

// CreateLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeave(ctx context.Context, req leave.CreateLeaveRequest, attachment *leave.AttachmentUpload) (leave.LeaveResponse, error) {
	start, end := req.Dates()
	if !end.After(start) {
		return leave.LeaveResponse{}, leave.ErrInvalidDateRange
	}
	leaveDays := leave.WorkingDays(start, end)
	if leaveDays <= 0 {
		return leave.LeaveResponse{}, leave.ErrInvalidLeaveDays
	}
	if attachment != nil {
		if err := leave.ValidateAttachment(*attachment, s.maxAttachment); err != nil {
			return leave.LeaveResponse{}, err
		}
	}

	member, err := s.companyUserRepo.GetByUserAndCompany(ctx, req.UserID, req.CompanyID)
	if err != nil {
		if errors.Is(err, companyuser.ErrCompanyUserNotFound) {
			return leave.LeaveResponse{}, leave.ErrMembershipNotFound
		}
		return leave.LeaveResponse{}, err
	}
	if !member.Employed() {
		return leave.LeaveResponse{}, leave.ErrMembershipNotFound
	}

	attr, err := s.attributeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if attr.CompanyID != req.CompanyID {
		return leave.LeaveResponse{}, leave.ErrLeaveAttributeNotFound
	}
	if !attr.IsActive {
		return leave.LeaveResponse{}, leave.ErrInactiveLeaveType
	}
	if member.RoleName == nil || *member.RoleName != attr.Role {
		return leave.LeaveResponse{}, leave.ErrRoleMismatch
	}

	// Uploaded before the transaction and removed again if it rolls back.
	var storedPath string
	if attachment != nil {
		storedPath, err = s.fileService.UploadLeaveAttachment(ctx, req.UserID, attachment.File, attachment.FileName, attachment.MimeType)
		if err != nil {
			return leave.LeaveResponse{}, err
		}
	}

	status := req.InitialStatus()
	var created leave.Leave
	err = postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		found, err := s.recordRepo.FindForMember(txCtx, member.ID, attr.ID, s.now().Year())
		if err != nil {
			return err
		}
		rec, err := s.recordRepo.GetByIDForUpdate(txCtx, found.ID)
		if err != nil {
			return err
		}
		if rec.RemainingDays < float64(leaveDays) {
			return fmt.Errorf("%w: requested %d, remaining %.2f", leave.ErrInsufficientBalance, leaveDays, rec.RemainingDays)
		}

		overlap, err := s.LeaveRepository.ExistsOverlap(txCtx, req.UserID, req.CompanyID, start, end, nil)
		if err != nil {
			return err
		}
		if overlap {
			return leave.ErrOverlappingLeave
		}

		created, err = s.LeaveRepository.Create(txCtx, leave.Leave{
			CompanyID:          req.CompanyID,
			UserID:             req.UserID,
			CompanyUserID:      member.ID,
			LeaveTypeID:        attr.ID,
			UsersLeaveRecordID: rec.ID,
			StartDate:          start,
			EndDate:            end,
			LeaveDays:          float64(leaveDays),
			Status:             status,
			Reason:             req.Reason,
		})
		if err != nil {
			return err
		}

		if status == leave.StatusApproved {
			rec, err = rec.Debit(created.LeaveDays)
			if err != nil {
				return err
			}
			if err := s.recordRepo.UpdateBalance(txCtx, rec); err != nil {
				return err
			}
		}

		if attachment != nil {
			if _, err := s.LeaveRepository.CreateAttachment(txCtx, leave.Attachment{
				LeaveID:  created.ID,
				UserID:   req.UserID,
				Path:     storedPath,
				FileName: attachment.FileName,
				FileSize: attachment.Size,
				MimeType: attachment.MimeType,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if storedPath != "" {
			if delErr := s.fileService.DeleteFile(ctx, storedPath); delErr != nil {
				slog.Warn("failed to remove orphaned attachment", "path", storedPath, "error", delErr)
			}
		}
		logUnexpected("failed to create leave", err)
		return leave.LeaveResponse{}, err
	}

	slog.Info("leave created",
		"leave_id", created.ID,
		"user_id", req.UserID,
		"company_id", req.CompanyID,
		"status", status,
		"leave_days", leaveDays,
	)
	return s.GetLeave(ctx, created.ID)
}

// ListLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaves(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	leaves, total, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	resp := leave.ListLeaveResponse{
		Page:   pagination.NewPage(filter.Page, filter.Limit, total),
		Leaves: make([]leave.LeaveResponse, 0, len(leaves)),
	}
	for _, l := range leaves {
		resp.Leaves = append(resp.Leaves, leave.NewLeaveResponse(l))
	}
	return resp, nil
}

// GetLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeave(ctx context.Context, id string) (leave.LeaveResponse, error) {
	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if l.Comments, err = s.LeaveRepository.ListComments(ctx, id); err != nil {
		return leave.LeaveResponse{}, err
	}
	if l.Attachments, err = s.LeaveRepository.ListAttachments(ctx, id); err != nil {
		return leave.LeaveResponse{}, err
	}

	resp := leave.NewLeaveResponse(l)
	for i := range resp.Attachments {
		url, err := s.fileService.GetFileURL(ctx, resp.Attachments[i].Path)
		if err != nil {
			slog.Warn("failed to resolve attachment url", "path", resp.Attachments[i].Path, "error", err)
			continue
		}
		resp.Attachments[i].URL = url
	}
	return resp, nil
}

// UpdateLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateLeave(ctx context.Context, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.Reason != nil {
			l.Reason = req.Reason
		}

		if req.StartDate != nil || req.EndDate != nil {
			if l.Status == leave.StatusApproved {
				return leave.ErrDatesLocked
			}
			if req.StartDate != nil {
				l.StartDate, _ = time.Parse(dateLayout, *req.StartDate)
			}
			if req.EndDate != nil {
				l.EndDate, _ = time.Parse(dateLayout, *req.EndDate)
			}
			if !l.EndDate.After(l.StartDate) {
				return leave.ErrInvalidDateRange
			}
			leaveDays := leave.WorkingDays(l.StartDate, l.EndDate)
			if leaveDays <= 0 {
				return leave.ErrInvalidLeaveDays
			}
			l.LeaveDays = float64(leaveDays)

			rec, err := s.recordRepo.GetByIDForUpdate(txCtx, l.UsersLeaveRecordID)
			if err != nil {
				return err
			}
			if rec.RemainingDays < l.LeaveDays {
				return fmt.Errorf("%w: requested %d, remaining %.2f", leave.ErrInsufficientBalance, leaveDays, rec.RemainingDays)
			}

			if l.Status.Blocking() {
				overlap, err := s.LeaveRepository.ExistsOverlap(txCtx, l.UserID, l.CompanyID, l.StartDate, l.EndDate, &l.ID)
				if err != nil {
					return err
				}
				if overlap {
					return leave.ErrOverlappingLeave
				}
			}
		}

		return s.LeaveRepository.Update(txCtx, l)
	})
	if err != nil {
		logUnexpected("failed to update leave", err)
		return leave.LeaveResponse{}, err
	}

	return s.GetLeave(ctx, req.ID)
}

// Approve implements leave.LeaveService. Approving an approved leave is a no-op.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if l.Status == leave.StatusApproved {
			return nil
		}
		if l.Status != leave.StatusPending && l.Status != leave.StatusInReview {
			return leave.ErrInvalidTransition
		}
		approverID := req.ApproverID
		return s.transition(txCtx, l, leave.StatusApproved, &approverID, nil)
	})
	if err != nil {
		logUnexpected("failed to approve leave", err)
		return leave.LeaveResponse{}, err
	}

	return s.GetLeave(ctx, req.ID)
}

// Reject implements leave.LeaveService. Rejecting an approved leave returns its
// days to the balance.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if l.Status == leave.StatusRejected {
			return nil
		}
		if !leave.CanTransition(l.Status, leave.StatusRejected) {
			return leave.ErrInvalidTransition
		}
		approverID := req.ApproverID
		return s.transition(txCtx, l, leave.StatusRejected, &approverID, req.Reason)
	})
	if err != nil {
		logUnexpected("failed to reject leave", err)
		return leave.LeaveResponse{}, err
	}

	return s.GetLeave(ctx, req.ID)
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		switch {
		case l.Status == leave.StatusCancelled:
			return nil
		case l.Status == leave.StatusApproved:
			return leave.ErrCannotCancelApproved
		case !leave.CanTransition(l.Status, leave.StatusCancelled):
			return leave.ErrInvalidTransition
		}
		return s.transition(txCtx, l, leave.StatusCancelled, nil, nil)
	})
	if err != nil {
		logUnexpected("failed to cancel leave", err)
		return leave.LeaveResponse{}, err
	}

	return s.GetLeave(ctx, id)
}

// ChangeStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) ChangeStatus(ctx context.Context, req leave.ChangeStatusRequest) (leave.LeaveResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if l.Status == req.Status {
			return nil
		}
		if !leave.CanTransition(l.Status, req.Status) {
			return leave.ErrInvalidTransition
		}
		return s.transition(txCtx, l, req.Status, req.ApproverID, req.Reason)
	})
	if err != nil {
		logUnexpected("failed to change leave status", err)
		return leave.LeaveResponse{}, err
	}

	return s.GetLeave(ctx, req.ID)
}

// transition moves a locked leave to status and applies its ledger effect.
// Entering APPROVED debits the recomputed working days, leaving it credits the
// stored days back. The record is locked after the leave.
func (s *LeaveServiceImpl) transition(ctx context.Context, l leave.Leave, to leave.Status, approverID, reason *string) error {
	from := l.Status

	if from == leave.StatusApproved || to == leave.StatusApproved {
		rec, err := s.recordRepo.GetByIDForUpdate(ctx, l.UsersLeaveRecordID)
		if err != nil {
			return err
		}
		if from == leave.StatusApproved {
			rec, err = rec.Credit(l.LeaveDays)
		} else {
			l.LeaveDays = float64(leave.WorkingDays(l.StartDate, l.EndDate))
			rec, err = rec.Debit(l.LeaveDays)
		}
		if err != nil {
			return err
		}
		if err := s.recordRepo.UpdateBalance(ctx, rec); err != nil {
			return err
		}
	}

	l.Status = to
	if approverID != nil {
		l.ApproverID = approverID
	}
	if to == leave.StatusRejected && reason != nil {
		l.RejectionReason = reason
	}
	if err := s.LeaveRepository.Update(ctx, l); err != nil {
		return err
	}

	slog.Info("leave status changed", "leave_id", l.ID, "from", from, "to", to)
	return nil
}

// RemoveLeave implements leave.LeaveService. Removing an approved leave
// credits its days back before the row goes away.
func (s *LeaveServiceImpl) RemoveLeave(ctx context.Context, id string) error {
	var attachments []leave.Attachment
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if l.Status == leave.StatusApproved {
			rec, err := s.recordRepo.GetByIDForUpdate(txCtx, l.UsersLeaveRecordID)
			if err != nil {
				return err
			}
			if rec, err = rec.Credit(l.LeaveDays); err != nil {
				return err
			}
			if err := s.recordRepo.UpdateBalance(txCtx, rec); err != nil {
				return err
			}
		}
		if attachments, err = s.LeaveRepository.ListAttachments(txCtx, id); err != nil {
			return err
		}
		return s.LeaveRepository.Delete(txCtx, id)
	})
	if err != nil {
		logUnexpected("failed to remove leave", err)
		return err
	}

	for _, a := range attachments {
		if err := s.fileService.DeleteFile(ctx, a.Path); err != nil {
			slog.Warn("failed to delete leave attachment", "path", a.Path, "error", err)
		}
	}
	slog.Info("leave removed", "leave_id", id)
	return nil
}

// AddComment implements leave.LeaveService.
func (s *LeaveServiceImpl) AddComment(ctx context.Context, req leave.AddCommentRequest) (leave.CommentResponse, error) {
	if _, err := s.LeaveRepository.GetByID(ctx, req.LeaveID); err != nil {
		return leave.CommentResponse{}, err
	}

	c, err := s.LeaveRepository.CreateComment(ctx, leave.Comment{
		LeaveID: req.LeaveID,
		UserID:  req.UserID,
		Comment: req.Comment,
	})
	if err != nil {
		return leave.CommentResponse{}, err
	}

	return leave.CommentResponse{
		ID:        c.ID,
		LeaveID:   c.LeaveID,
		UserID:    c.UserID,
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt,
	}, nil
}

// GetUserLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) GetUserLeaves(ctx context.Context, userID string, companyID *string, year *int) ([]leave.LeaveResponse, error) {
	leaves, err := s.LeaveRepository.ListForUser(ctx, userID, companyID, year)
	if err != nil {
		return nil, err
	}

	resp := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		resp = append(resp, leave.NewLeaveResponse(l))
	}
	return resp, nil
}

// CompanyStats implements leave.LeaveService.
func (s *LeaveServiceImpl) CompanyStats(ctx context.Context, companyID string) (leave.LeaveStatsResponse, error) {
	counts, err := s.LeaveRepository.CountByStatus(ctx, companyID)
	if err != nil {
		return leave.LeaveStatsResponse{}, err
	}

	stats := leave.LeaveStatsResponse{
		CompanyID: companyID,
		Pending:   counts[leave.StatusPending],
		InReview:  counts[leave.StatusInReview],
		Approved:  counts[leave.StatusApproved],
		Rejected:  counts[leave.StatusRejected],
		Cancelled: counts[leave.StatusCancelled],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// UserBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) UserBalance(ctx context.Context, userID, companyID string, year *int) (leave.UserBalanceResponse, error) {
	y := s.now().Year()
	if year != nil {
		y = *year
	}

	records, err := s.recordRepo.ListForUser(ctx, userID, companyID, y)
	if err != nil {
		return leave.UserBalanceResponse{}, err
	}

	resp := leave.UserBalanceResponse{
		UserID:         userID,
		CompanyID:      companyID,
		Year:           y,
		Records:        make([]leave.RecordResponse, 0, len(records)),
		ApprovedLeaves: []leave.LeaveResponse{},
	}
	for _, rec := range records {
		if rec.CarryForwards, err = s.carryForwardRepo.ListByRecord(ctx, rec.ID); err != nil {
			return leave.UserBalanceResponse{}, err
		}
		resp.Records = append(resp.Records, leave.NewRecordResponse(rec))
	}
	resp.Summary = summarize(records)

	from := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	approved, err := s.LeaveRepository.ListApprovedInRange(ctx, userID, companyID, from, to)
	if err != nil {
		return leave.UserBalanceResponse{}, err
	}
	for _, l := range approved {
		resp.ApprovedLeaves = append(resp.ApprovedLeaves, leave.NewLeaveResponse(l))
	}
	return resp, nil
}

// summarize totals records per leave name in first-seen order.
func summarize(records []leave.UsersLeaveRecord) []leave.BalanceSummary {
	summary := make([]leave.BalanceSummary, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		name := rec.LeaveAttributeID
		var allocated float64
		if rec.Attribute != nil {
			name = rec.Attribute.LeaveName
			allocated = rec.Attribute.AllocatedDays
		}
		i, ok := index[name]
		if !ok {
			i = len(summary)
			index[name] = i
			summary = append(summary, leave.BalanceSummary{LeaveName: name})
		}
		summary[i].Allocated += allocated
		summary[i].Used += rec.UsedDays
		summary[i].Remaining += rec.RemainingDays
		summary[i].CarriedOver += rec.CarriedOverDays
	}
	return summary
}
