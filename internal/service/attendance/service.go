package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	punchRepo attendance.PunchRepository
	gate      *EligibilityGate
	window    shift.WindowEvaluator
	loc       *time.Location
	now       func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepository attendance.AttendanceRepository,
	punchRepo attendance.PunchRepository,
	gate *EligibilityGate,
	window shift.WindowEvaluator,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepository,
		punchRepo:            punchRepo,
		gate:                 gate,
		window:               window,
		loc:                  loc,
		now:                  time.Now,
	}
}

func (s *AttendanceServiceImpl) at(t *time.Time) time.Time {
	if t != nil && !t.IsZero() {
		return *t
	}
	return s.now()
}

func requireIDs(companyID, userID string) error {
	var errs validator.ValidationErrors
	if companyID == "" {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id is required"})
	}
	if userID == "" {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PunchIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchResult, error) {
	if err := requireIDs(req.CompanyID, req.UserID); err != nil {
		return attendance.PunchResult{}, err
	}
	punchAt := s.at(req.Time)

	eligibility, err := s.gate.Check(ctx, req.CompanyID, req.UserID, punchAt)
	if err != nil {
		slog.Error("eligibility check failed", "company_id", req.CompanyID, "user_id", req.UserID, "error", err)
		return attendance.PunchResult{}, err
	}
	if !eligibility.CanPunch {
		return attendance.PunchResult{}, attendance.Deny(eligibility.Reason, eligibility.Message)
	}

	decision := s.window.IsInShift(ctx, req.CompanyUserID, req.CompanyID, punchAt)
	if !decision.Allowed {
		return attendance.PunchResult{}, attendance.Deny(attendance.EligibilityReason(decision.Reason), decision.Message)
	}

	status := attendance.StatusPresent
	if req.Status != nil {
		status = *req.Status
	} else if decision.Details != nil {
		status = attendance.PunchInStatus(punchAt, decision.Details.ShiftStart, decision.Details.GracePeriodMinutes)
	}

	companyUserID := req.CompanyUserID
	var attendanceID, punchID string
	err = postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		day, err := s.AttendanceRepository.UpsertForDay(txCtx, attendance.Attendance{
			CompanyID:     req.CompanyID,
			UserID:        req.UserID,
			CompanyUserID: &companyUserID,
			PunchDate:     attendance.DateOf(punchAt, s.loc),
			FinalStatus:   status,
		})
		if err != nil {
			return err
		}
		attendanceID = day.ID

		// The day row is locked, so this check and the insert below are serialized.
		_, err = s.punchRepo.FindLatestOpen(txCtx, day.ID)
		if err == nil {
			return attendance.ErrOpenPunchExists
		}
		if !errors.Is(err, attendance.ErrNoOpenPunch) {
			return err
		}

		punch, err := s.punchRepo.Create(txCtx, attendance.UserPunch{
			AttendanceID:    day.ID,
			PunchIn:         punchAt,
			PunchInLocation: req.Location,
			PunchType:       attendance.PunchTypeIn,
			Status:          status,
			DeviceID:        req.DeviceID,
			IPAddress:       req.IPAddress,
			Remarks:         req.Remarks,
		})
		if err != nil {
			return err
		}
		punchID = punch.ID

		return s.recalculate(txCtx, day)
	})
	if err != nil {
		logUnexpected("failed to punch in", err)
		return attendance.PunchResult{}, err
	}

	slog.Info("punch in recorded", "attendance_id", attendanceID, "punch_id", punchID, "status", status)
	return s.punchResult(ctx, attendanceID, punchID)
}

// PunchOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchOutRequest) (attendance.PunchResult, error) {
	if err := requireIDs(req.CompanyID, req.UserID); err != nil {
		return attendance.PunchResult{}, err
	}
	punchAt := s.at(req.Time)

	var attendanceID, punchID string
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		day, open, err := s.findOpenPunch(txCtx, req.CompanyID, req.UserID, punchAt)
		if err != nil {
			return err
		}
		attendanceID = day.ID
		punchID = open.ID

		worked := attendance.WorkedHours(open.PunchIn, punchAt)
		overtime := decimal.Zero
		if attr, ok := s.window.ActiveAttribute(txCtx, req.CompanyUserID, req.CompanyID); ok {
			overtime = attendance.Overtime(worked, attr.ScheduledHours(open.PunchIn, s.loc), attr.BreakMinutes())
		}
		workHours := attendance.RoundHours(worked)
		overtimeHours := attendance.RoundHours(overtime)

		open.PunchOut = &punchAt
		open.PunchOutLocation = req.Location
		open.WorkHours = &workHours
		open.Overtime = &overtimeHours
		open.Remarks = req.Remarks
		if req.Status != nil {
			open.Status = *req.Status
		}
		if err := s.punchRepo.Close(txCtx, open); err != nil {
			return err
		}

		return s.recalculate(txCtx, day)
	})
	if err != nil {
		logUnexpected("failed to punch out", err)
		return attendance.PunchResult{}, err
	}

	slog.Info("punch out recorded", "attendance_id", attendanceID, "punch_id", punchID)
	return s.punchResult(ctx, attendanceID, punchID)
}

// findOpenPunch locks the day holding the user's open punch. An open punch
// from the previous day is accepted so overnight shifts can be closed.
func (s *AttendanceServiceImpl) findOpenPunch(ctx context.Context, companyID, userID string, at time.Time) (attendance.Attendance, attendance.UserPunch, error) {
	today := attendance.DateOf(at, s.loc)

	day, err := s.AttendanceRepository.GetForDayForUpdate(ctx, companyID, userID, today)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, attendance.UserPunch{}, err
	}
	if err == nil {
		open, err := s.punchRepo.FindLatestOpen(ctx, day.ID)
		if err == nil {
			return day, open, nil
		}
		if !errors.Is(err, attendance.ErrNoOpenPunch) {
			return attendance.Attendance{}, attendance.UserPunch{}, err
		}
	}
	todayFound := err == nil

	yesterday, yErr := s.AttendanceRepository.GetForDayForUpdate(ctx, companyID, userID, today.AddDate(0, 0, -1))
	if yErr == nil {
		if open, err := s.punchRepo.FindLatestOpen(ctx, yesterday.ID); err == nil {
			return yesterday, open, nil
		} else if !errors.Is(err, attendance.ErrNoOpenPunch) {
			return attendance.Attendance{}, attendance.UserPunch{}, err
		}
	} else if !errors.Is(yErr, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, attendance.UserPunch{}, yErr
	}

	if !todayFound {
		return attendance.Attendance{}, attendance.UserPunch{}, attendance.ErrAttendanceNotFound
	}
	punches, err := s.punchRepo.ListByAttendance(ctx, day.ID)
	if err != nil {
		return attendance.Attendance{}, attendance.UserPunch{}, err
	}
	if len(punches) > 0 {
		return attendance.Attendance{}, attendance.UserPunch{}, attendance.ErrAlreadyPunchedOut
	}
	return attendance.Attendance{}, attendance.UserPunch{}, attendance.ErrNoOpenPunch
}

// recalculate rolls the day's punches up into its totals and final status.
func (s *AttendanceServiceImpl) recalculate(ctx context.Context, day attendance.Attendance) error {
	punches, err := s.punchRepo.ListByAttendance(ctx, day.ID)
	if err != nil {
		return err
	}
	day.TotalWorkHours, day.TotalOvertime = attendance.RollUp(punches)
	day.FinalStatus = attendance.FinalStatus(punches)
	return s.AttendanceRepository.UpdateTotals(ctx, day)
}

func (s *AttendanceServiceImpl) punchResult(ctx context.Context, attendanceID, punchID string) (attendance.PunchResult, error) {
	a, err := s.load(ctx, attendanceID)
	if err != nil {
		return attendance.PunchResult{}, err
	}
	result := attendance.PunchResult{Attendance: attendance.NewAttendanceResponse(a)}
	for _, p := range a.Punches {
		if p.ID == punchID {
			result.Punch = attendance.NewPunchResponse(p)
		}
	}
	return result, nil
}

func (s *AttendanceServiceImpl) load(ctx context.Context, id string) (attendance.Attendance, error) {
	a, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.Punches, err = s.punchRepo.ListByAttendance(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}
	return a, nil
}

func (s *AttendanceServiceImpl) withPunches(ctx context.Context, days []attendance.Attendance) ([]attendance.AttendanceResponse, error) {
	grouped, err := s.punchRepo.ListByAttendanceIDs(ctx, attendanceIDs(days))
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.AttendanceResponse, 0, len(days))
	for _, a := range days {
		a.Punches = grouped[a.ID]
		resp = append(resp, attendance.NewAttendanceResponse(a))
	}
	return resp, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	days, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	items, err := s.withPunches(ctx, days)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return attendance.ListAttendanceResponse{
		Page:        pagination.NewPage(filter.Page, filter.Limit, total),
		Attendances: items,
	}, nil
}

// FindUserAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) FindUserAttendance(ctx context.Context, filter attendance.UserAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	today := attendance.DateOf(s.now(), s.loc)
	from, to := today, today

	switch {
	case filter.Date != nil:
		from, _ = validator.IsValidDate(*filter.Date)
		to = from
	case filter.StartDate != nil || filter.EndDate != nil:
		if filter.StartDate != nil {
			from, _ = validator.IsValidDate(*filter.StartDate)
		}
		if filter.EndDate != nil {
			to, _ = validator.IsValidDate(*filter.EndDate)
		}
	}

	days, err := s.AttendanceRepository.ListForUser(ctx, filter.CompanyID, filter.UserID, from, to)
	if err != nil {
		return nil, err
	}
	return s.withPunches(ctx, days)
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(a), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		current, err := s.AttendanceRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if req.FinalStatus != nil {
			current.FinalStatus = *req.FinalStatus
		}
		if req.TotalWorkHours != nil {
			current.TotalWorkHours = attendance.RoundHours(decimal.NewFromFloat(*req.TotalWorkHours))
		}
		if req.TotalOvertime != nil {
			current.TotalOvertime = attendance.RoundHours(decimal.NewFromFloat(*req.TotalOvertime))
		}
		return s.AttendanceRepository.UpdateTotals(txCtx, current)
	})
	if err != nil {
		logUnexpected("failed to update attendance", err)
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance corrected", "attendance_id", req.ID)
	return s.GetAttendance(ctx, req.ID)
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	err := postgresql.InTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.punchRepo.DeleteByAttendance(txCtx, id); err != nil {
			return err
		}
		return s.AttendanceRepository.Delete(txCtx, id)
	})
	if err != nil {
		logUnexpected("failed to delete attendance", err)
		return err
	}
	slog.Info("attendance deleted", "attendance_id", id)
	return nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, userID, companyID, month string) (attendance.SummaryResponse, error) {
	var first time.Time
	if month == "" {
		now := s.now().In(s.loc)
		first = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		m, ok := validator.IsValidMonth(month)
		if !ok {
			return attendance.SummaryResponse{}, validator.ValidationErrors{{Field: "month", Message: "month must be YYYY-MM"}}
		}
		first = m
	}
	last := first.AddDate(0, 1, -1)

	days, err := s.AttendanceRepository.ListForUser(ctx, companyID, userID, first, last)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	grouped, err := s.punchRepo.ListByAttendanceIDs(ctx, attendanceIDs(days))
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	resp := attendance.SummaryResponse{
		UserID:        userID,
		CompanyID:     companyID,
		Period:        first.Format("2006-01"),
		TotalWorkDays: len(days),
		Days:          make([]attendance.SummaryDay, 0, len(days)),
	}
	work, overtime := decimal.Zero, decimal.Zero
	for _, a := range days {
		switch a.FinalStatus {
		case attendance.StatusPresent, attendance.StatusLate, attendance.StatusHalfDay:
			resp.PresentDays++
		case attendance.StatusAbsent:
			resp.AbsentDays++
		}
		work = work.Add(decimal.NewFromFloat(a.TotalWorkHours))
		overtime = overtime.Add(decimal.NewFromFloat(a.TotalOvertime))
		resp.Days = append(resp.Days, attendance.SummaryDay{
			Date:        a.PunchDate.Format("2006-01-02"),
			FinalStatus: a.FinalStatus,
			WorkHours:   a.TotalWorkHours,
			Overtime:    a.TotalOvertime,
			PunchCount:  len(grouped[a.ID]),
		})
	}
	resp.TotalWorkHours = attendance.RoundHours(work)
	resp.TotalOvertime = attendance.RoundHours(overtime)
	return resp, nil
}

func attendanceIDs(days []attendance.Attendance) []string {
	ids := make([]string, 0, len(days))
	for _, a := range days {
		ids = append(ids, a.ID)
	}
	return ids
}

// CheckStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckStatus(ctx context.Context, companyID, userID string, at time.Time) (attendance.EligibilityResult, error) {
	if at.IsZero() {
		at = s.now()
	}
	return s.gate.Check(ctx, companyID, userID, at)
}

// CheckShift implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckShift(ctx context.Context, companyUserID, companyID string) shift.WindowDecision {
	return s.window.IsInShift(ctx, companyUserID, companyID, s.now())
}

func logUnexpected(msg string, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		slog.Error(msg, "error", err)
	}
}
