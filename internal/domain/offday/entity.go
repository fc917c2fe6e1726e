package offday

import (
	"sort"
	"time"
)

// CompanyOff holds a company's recurring weekly off days (0 = Sunday).
type CompanyOff struct {
	ID          string
	CompanyID   string
	WeekDay     []int
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OffDay is a dated off range. Without linked users it applies company-wide.
type OffDay struct {
	ID           string
	CompanyID    string
	CompanyOffID string
	CreatedByID  string
	Name         string
	HolidayType  string
	FromDate     time.Time
	ToDate       time.Time
	StartTime    *string
	EndTime      *string
	Description  *string
	UserIDs      []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (o OffDay) CompanyWide() bool {
	return len(o.UserIDs) == 0
}

// Contains reports whether day's calendar date lies within the off range.
func (o OffDay) Contains(day time.Time) bool {
	d := dateOnly(day)
	return !d.Before(dateOnly(o.FromDate)) && !d.After(dateOnly(o.ToDate))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MergeWeekDays returns the sorted union of two weekday sets.
func MergeWeekDays(existing, add []int) []int {
	seen := make(map[int]struct{}, len(existing)+len(add))
	merged := make([]int, 0, len(existing)+len(add))
	for _, set := range [][]int{existing, add} {
		for _, d := range set {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			merged = append(merged, d)
		}
	}
	sort.Ints(merged)
	return merged
}

// IsWeeklyOff reports whether day's weekday is in weekDays.
func IsWeeklyOff(weekDays []int, day time.Time) bool {
	wd := int(day.Weekday())
	for _, d := range weekDays {
		if d == wd {
			return true
		}
	}
	return false
}

var weekDayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func WeekDayNames(days []int) []string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(weekDayNames) {
			names = append(names, weekDayNames[d])
		}
	}
	return names
}
