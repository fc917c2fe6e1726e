package shift

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type WindowReason string

const (
	ReasonInShiftWindow      WindowReason = "IN_SHIFT_WINDOW"
	ReasonOutsideShiftWindow WindowReason = "OUTSIDE_SHIFT_WINDOW"
	ReasonNoActiveShift      WindowReason = "NO_ACTIVE_SHIFT"
	ReasonShiftLookupFailed  WindowReason = "SHIFT_LOOKUP_FAILED"
)

// WindowDecision is the outcome of a shift window check.
type WindowDecision struct {
	Allowed bool           `json:"allowed"`
	Reason  WindowReason   `json:"reason"`
	Message string         `json:"message"`
	Details *WindowDetails `json:"shift_details,omitempty"`
}

type WindowDetails struct {
	ShiftAttributeID   string    `json:"shift_attribute_id"`
	ShiftName          string    `json:"shift_name"`
	ShiftStart         time.Time `json:"shift_start"`
	ShiftEnd           time.Time `json:"shift_end"`
	AdjustedStart      time.Time `json:"adjusted_start"`
	AdjustedEnd        time.Time `json:"adjusted_end"`
	GracePeriodMinutes int       `json:"grace_period_minutes"`
}

// Project places the attribute's time-of-day bounds on the calendar date of
// day in loc. When end is not after start the shift crosses midnight and the
// end moves to the following day.
func (a ShiftAttribute) Project(day time.Time, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := day.In(loc)
	y, m, d := local.Date()

	s := a.StartTime
	e := a.EndTime
	start = time.Date(y, m, d, s.Hour(), s.Minute(), s.Second(), 0, loc)
	end = time.Date(y, m, d, e.Hour(), e.Minute(), e.Second(), 0, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// ScheduledHours is the projected shift length in hours, before breaks.
func (a ShiftAttribute) ScheduledHours(day time.Time, loc *time.Location) decimal.Decimal {
	start, end := a.Project(day, loc)
	return decimal.NewFromFloat(end.Sub(start).Hours())
}

// EvaluateWindow decides whether now falls inside the attribute's window
// widened by its grace period on both sides.
func EvaluateWindow(a ShiftAttribute, now time.Time, loc *time.Location) WindowDecision {
	start, end := a.Project(now, loc)
	grace := time.Duration(a.GraceMinutes()) * time.Minute
	adjStart := start.Add(-grace)
	adjEnd := end.Add(grace)

	details := &WindowDetails{
		ShiftAttributeID:   a.ID,
		ShiftName:          a.ShiftName,
		ShiftStart:         start,
		ShiftEnd:           end,
		AdjustedStart:      adjStart,
		AdjustedEnd:        adjEnd,
		GracePeriodMinutes: a.GraceMinutes(),
	}

	if now.Before(adjStart) || now.After(adjEnd) {
		return WindowDecision{
			Allowed: false,
			Reason:  ReasonOutsideShiftWindow,
			Message: fmt.Sprintf("current time is outside shift %q (%s - %s)",
				a.ShiftName, adjStart.Format("15:04"), adjEnd.Format("15:04")),
			Details: details,
		}
	}

	return WindowDecision{
		Allowed: true,
		Reason:  ReasonInShiftWindow,
		Message: fmt.Sprintf("within shift %q", a.ShiftName),
		Details: details,
	}
}

// NoShift is the decision for a user without a usable assignment.
func NoShift(reason WindowReason, message string) WindowDecision {
	return WindowDecision{Allowed: false, Reason: reason, Message: message}
}
