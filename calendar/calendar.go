// Package calendar provides holiday calendars and business-day adjustment.
//
// Calendars are explicit values passed by the caller; there is no process-wide
// registry keyed by name.
package calendar

import "time"

// Calendar reports whether a date is a good business day.
type Calendar interface {
	IsBusinessDay(t time.Time) bool
}

// Weekdays treats every Monday-Friday as a business day.
type Weekdays struct{}

func (Weekdays) IsBusinessDay(t time.Time) bool {
	return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
}

// AllDays treats every calendar day as a business day. Used where schedules
// must not be adjusted at all.
type AllDays struct{}

func (AllDays) IsBusinessDay(time.Time) bool { return true }

// HolidaySet is a weekday calendar minus an explicit holiday list.
type HolidaySet struct {
	holidays map[string]struct{}
}

// NewHolidaySet builds a HolidaySet from the given holiday dates.
func NewHolidaySet(holidays ...time.Time) *HolidaySet {
	m := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		m[h.Format("2006-01-02")] = struct{}{}
	}
	return &HolidaySet{holidays: m}
}

func (c *HolidaySet) IsBusinessDay(t time.Time) bool {
	if !(Weekdays{}).IsBusinessDay(t) {
		return false
	}
	_, holiday := c.holidays[t.Format("2006-01-02")]
	return !holiday
}

// IsHoliday reports whether t is not a business day on cal.
func IsHoliday(cal Calendar, t time.Time) bool {
	return !cal.IsBusinessDay(t)
}

// Adjust applies Modified Following: roll forward to a business day, but fall
// back before crossing a month end.
func Adjust(cal Calendar, t time.Time) time.Time {
	origMonth := t.Month()
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !cal.IsBusinessDay(t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal Calendar, t time.Time) time.Time {
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal Calendar, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if cal.IsBusinessDay(t) {
			n -= step
		}
	}
	return t
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal Calendar, t time.Time) time.Time {
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return AddBusinessDays(cal, nextMonth, -1)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal Calendar, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}
