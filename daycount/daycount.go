// Package daycount computes accrual year fractions between two dates.
//
// Conventions are values implementing Counter, passed explicitly by the
// caller rather than resolved from a registry.
package daycount

import "time"

// Counter turns a pair of dates into an accrual year fraction.
type Counter interface {
	YearFraction(start, end time.Time) float64
}

// Convention is a named day-count basis.
type Convention string

const (
	Act360    Convention = "ACT/360"
	Act365F   Convention = "ACT/365F"
	Thirty360 Convention = "30/360"
)

// YearFraction computes the fraction of a year between start and end.
// 30/360 follows the 30E/360 Eurobond basis with day-of-month capped at 30.
func (c Convention) YearFraction(start, end time.Time) float64 {
	switch c {
	case Act360:
		return days(start, end) / 360.0
	case Thirty360:
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	default:
		return days(start, end) / 365.0
	}
}

// Flat is a constant-fraction counter; it ignores the dates entirely.
// Useful for idealized schedules in tests (e.g. exact semiannual halves).
type Flat float64

func (f Flat) YearFraction(start, end time.Time) float64 { return float64(f) }

func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// AddMonths behaves like Excel's EDATE: adding months to a month-end date
// lands on the target month's end instead of normalizing into the next month.
func AddMonths(t time.Time, months int) time.Time {
	d := t.AddDate(0, months, 0)
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if d.Month() == firstOfTarget.Month() {
		return d
	}
	origMonth := d.Month()
	for d.Month() == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
