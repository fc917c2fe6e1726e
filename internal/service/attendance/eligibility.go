package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/offday"
)

// CalendarSource answers the calendar questions asked before a punch-in.
type CalendarSource interface {
	HasApprovedLeave(ctx context.Context, companyID, userID string, day time.Time) (bool, error)
	HasCompanyOffDay(ctx context.Context, companyID string, day time.Time) (bool, error)
	HasUserOffDay(ctx context.Context, companyID, userID string, day time.Time) (bool, error)
	WeeklyOffDays(ctx context.Context, companyID string) ([]int, error)
}

type repositoryCalendar struct {
	leaveRepo      leave.LeaveRepository
	offDayRepo     offday.OffDayRepository
	companyOffRepo offday.CompanyOffRepository
}

// NewRepositoryCalendar reads the calendar from the leave and off-day tables.
func NewRepositoryCalendar(leaveRepo leave.LeaveRepository, offDayRepo offday.OffDayRepository, companyOffRepo offday.CompanyOffRepository) CalendarSource {
	return &repositoryCalendar{
		leaveRepo:      leaveRepo,
		offDayRepo:     offDayRepo,
		companyOffRepo: companyOffRepo,
	}
}

func (c *repositoryCalendar) HasApprovedLeave(ctx context.Context, companyID, userID string, day time.Time) (bool, error) {
	return c.leaveRepo.HasApprovedOn(ctx, companyID, userID, day)
}

func (c *repositoryCalendar) HasCompanyOffDay(ctx context.Context, companyID string, day time.Time) (bool, error) {
	return c.offDayRepo.HasCompanyWideOn(ctx, companyID, day)
}

func (c *repositoryCalendar) HasUserOffDay(ctx context.Context, companyID, userID string, day time.Time) (bool, error) {
	return c.offDayRepo.HasUserOffOn(ctx, companyID, userID, day)
}

func (c *repositoryCalendar) WeeklyOffDays(ctx context.Context, companyID string) ([]int, error) {
	off, err := c.companyOffRepo.GetByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, offday.ErrCompanyOffNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return off.WeekDay, nil
}

// EligibilityGate decides whether the calendar allows a user to work on a day.
type EligibilityGate struct {
	source CalendarSource
	loc    *time.Location
}

func NewEligibilityGate(source CalendarSource, loc *time.Location) *EligibilityGate {
	if loc == nil {
		loc = time.UTC
	}
	return &EligibilityGate{source: source, loc: loc}
}

// Check runs the calendar checks in order and stops at the first that matches:
// approved leave, company-wide off day, personal off day, weekly off day.
func (g *EligibilityGate) Check(ctx context.Context, companyID, userID string, now time.Time) (attendance.EligibilityResult, error) {
	day := attendance.DateOf(now, g.loc)

	onLeave, err := g.source.HasApprovedLeave(ctx, companyID, userID, day)
	if err != nil {
		return attendance.EligibilityResult{}, fmt.Errorf("failed to check approved leave: %w", err)
	}
	if onLeave {
		return denied(attendance.ReasonOnLeave, "user is on approved leave today"), nil
	}

	companyOff, err := g.source.HasCompanyOffDay(ctx, companyID, day)
	if err != nil {
		return attendance.EligibilityResult{}, fmt.Errorf("failed to check company off day: %w", err)
	}
	if companyOff {
		return denied(attendance.ReasonCompanyOffDay, "today is a company off day"), nil
	}

	userOff, err := g.source.HasUserOffDay(ctx, companyID, userID, day)
	if err != nil {
		return attendance.EligibilityResult{}, fmt.Errorf("failed to check user off day: %w", err)
	}
	if userOff {
		return denied(attendance.ReasonUserOffDay, "today is an off day for this user"), nil
	}

	weekDays, err := g.source.WeeklyOffDays(ctx, companyID)
	if err != nil {
		return attendance.EligibilityResult{}, fmt.Errorf("failed to check weekly off days: %w", err)
	}
	if offday.IsWeeklyOff(weekDays, day) {
		return denied(attendance.ReasonWeeklyCompanyOff,
			fmt.Sprintf("%s is a weekly company off day", day.Weekday())), nil
	}

	return attendance.EligibilityResult{
		CanPunch: true,
		Reason:   attendance.ReasonEligible,
		Message:  "user can punch in",
	}, nil
}

func denied(reason attendance.EligibilityReason, message string) attendance.EligibilityResult {
	return attendance.EligibilityResult{CanPunch: false, Reason: reason, Message: message}
}
