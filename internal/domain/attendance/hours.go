package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// WorkedHours is the unrounded, non-negative span between in and out.
func WorkedHours(in, out time.Time) decimal.Decimal {
	worked := decimal.NewFromFloat(out.Sub(in).Hours())
	if worked.IsNegative() {
		return decimal.Zero
	}
	return worked
}

// Overtime is the worked time beyond the scheduled hours net of the break.
func Overtime(worked, scheduledHours decimal.Decimal, breakMinutes int) decimal.Decimal {
	net := scheduledHours.Sub(decimal.NewFromInt(int64(breakMinutes)).Div(minutesPerHour))
	ot := worked.Sub(net)
	if ot.IsNegative() {
		return decimal.Zero
	}
	return ot
}

// RoundHours rounds an hour quantity to two decimals for storage.
func RoundHours(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// RollUp sums stored hours over closed punches.
func RollUp(punches []UserPunch) (workHours, overtime float64) {
	work := decimal.Zero
	ot := decimal.Zero
	for _, p := range punches {
		if p.IsOpen() {
			continue
		}
		if p.WorkHours != nil {
			work = work.Add(decimal.NewFromFloat(*p.WorkHours))
		}
		if p.Overtime != nil {
			ot = ot.Add(decimal.NewFromFloat(*p.Overtime))
		}
	}
	return RoundHours(work), RoundHours(ot)
}

// FinalStatus derives the day status. Precedence is first match:
// no punches, then any HALF_DAY, then any LATE.
func FinalStatus(punches []UserPunch) Status {
	if len(punches) == 0 {
		return StatusAbsent
	}
	for _, p := range punches {
		if p.Status == StatusHalfDay {
			return StatusHalfDay
		}
	}
	for _, p := range punches {
		if p.Status == StatusLate {
			return StatusLate
		}
	}
	return StatusPresent
}

// PunchInStatus is LATE when punchIn falls after the shift start plus grace.
func PunchInStatus(punchIn, shiftStart time.Time, graceMinutes int) Status {
	if punchIn.After(shiftStart.Add(time.Duration(graceMinutes) * time.Minute)) {
		return StatusLate
	}
	return StatusPresent
}
