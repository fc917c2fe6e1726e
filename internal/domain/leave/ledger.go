package leave

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func days(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Debit moves n days from remaining to used.
func (r UsersLeaveRecord) Debit(n float64) (UsersLeaveRecord, error) {
	amount := dec(n)
	if !amount.IsPositive() {
		return r, ErrInvalidLeaveDays
	}
	remaining := dec(r.RemainingDays)
	if remaining.LessThan(amount) {
		return r, fmt.Errorf("%w: requested %s, remaining %s", ErrInsufficientBalance, amount, remaining)
	}
	r.UsedDays = days(dec(r.UsedDays).Add(amount))
	r.RemainingDays = days(remaining.Sub(amount))
	return r, nil
}

// Credit returns n previously debited days.
func (r UsersLeaveRecord) Credit(n float64) (UsersLeaveRecord, error) {
	amount := dec(n)
	if !amount.IsPositive() {
		return r, ErrInvalidLeaveDays
	}
	used := dec(r.UsedDays)
	if used.LessThan(amount) {
		return r, fmt.Errorf("%w: crediting %s with only %s used", ErrLedgerOutOfBalance, amount, used)
	}
	r.UsedDays = days(used.Sub(amount))
	r.RemainingDays = days(dec(r.RemainingDays).Add(amount))
	return r, nil
}

// AddCarryForward raises both carried and remaining days by n.
func (r UsersLeaveRecord) AddCarryForward(n float64) (UsersLeaveRecord, error) {
	amount := dec(n)
	if !amount.IsPositive() {
		return r, ErrInvalidCarryForwardDays
	}
	r.CarriedOverDays = days(dec(r.CarriedOverDays).Add(amount))
	r.RemainingDays = days(dec(r.RemainingDays).Add(amount))
	return r, nil
}

// RemoveCarryForward undoes AddCarryForward and refuses to go negative.
func (r UsersLeaveRecord) RemoveCarryForward(n float64) (UsersLeaveRecord, error) {
	amount := dec(n)
	if !amount.IsPositive() {
		return r, ErrInvalidCarryForwardDays
	}
	remaining := dec(r.RemainingDays).Sub(amount)
	carried := dec(r.CarriedOverDays).Sub(amount)
	if remaining.IsNegative() || carried.IsNegative() {
		return r, ErrCarryForwardInUse
	}
	r.CarriedOverDays = days(carried)
	r.RemainingDays = days(remaining)
	return r, nil
}

// Rebalance recomputes remaining from a new allocation.
func (r UsersLeaveRecord) Rebalance(allocated float64) (UsersLeaveRecord, error) {
	remaining := dec(allocated).Sub(dec(r.UsedDays)).Add(dec(r.CarriedOverDays))
	if remaining.IsNegative() {
		return r, ErrAllocationBelowUsage
	}
	r.RemainingDays = days(remaining)
	return r, nil
}

// Balanced reports whether remaining == allocated - used + carried.
func (r UsersLeaveRecord) Balanced(allocated float64) bool {
	want := dec(allocated).Sub(dec(r.UsedDays)).Add(dec(r.CarriedOverDays))
	return want.Round(2).Equal(dec(r.RemainingDays).Round(2))
}

// NewRecord opens a balance for a freshly allocated attribute.
func NewRecord(attr LeaveAttribute, companyUserID, userID string) UsersLeaveRecord {
	return UsersLeaveRecord{
		CompanyUserID:    companyUserID,
		UserID:           userID,
		LeaveAttributeID: attr.ID,
		Year:             attr.Year,
		RemainingDays:    days(dec(attr.AllocatedDays)),
	}
}
