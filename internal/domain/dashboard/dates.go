package dashboard

import (
	"fmt"
	"time"
)

// RelativeDate is a closed set of date-range literals stored on widget
// queries and resolved at render time.
type RelativeDate string

const (
	RangeToday       RelativeDate = "today"
	RangeYesterday   RelativeDate = "yesterday"
	RangeLast7Days   RelativeDate = "last_7_days"
	RangeLast30Days  RelativeDate = "last_30_days"
	RangeLast90Days  RelativeDate = "last_90_days"
	RangeThisMonth   RelativeDate = "this_month"
	RangeLastMonth   RelativeDate = "last_month"
	RangeThisQuarter RelativeDate = "this_quarter"
	RangeThisYear    RelativeDate = "this_year"
)

// DateRange is a resolved half-open interval [From, To).
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate reports whether the literal is a member of the closed set.
func (r RelativeDate) Validate() error {
	switch r {
	case RangeToday, RangeYesterday, RangeLast7Days, RangeLast30Days,
		RangeLast90Days, RangeThisMonth, RangeLastMonth, RangeThisQuarter,
		RangeThisYear:
		return nil
	default:
		return fmt.Errorf("unknown relative date %q", string(r))
	}
}

// Resolve maps the literal to a concrete range relative to now.
func (r RelativeDate) Resolve(now time.Time) (DateRange, error) {
	day := startOfDay(now)

	switch r {
	case RangeToday:
		return DateRange{From: day, To: now}, nil
	case RangeYesterday:
		return DateRange{From: day.AddDate(0, 0, -1), To: day}, nil
	case RangeLast7Days:
		return DateRange{From: now.AddDate(0, 0, -7), To: now}, nil
	case RangeLast30Days:
		return DateRange{From: now.AddDate(0, 0, -30), To: now}, nil
	case RangeLast90Days:
		return DateRange{From: now.AddDate(0, 0, -90), To: now}, nil
	case RangeThisMonth:
		return DateRange{From: startOfMonth(now), To: now}, nil
	case RangeLastMonth:
		first := startOfMonth(now)
		return DateRange{From: first.AddDate(0, -1, 0), To: first}, nil
	case RangeThisQuarter:
		return DateRange{From: startOfQuarter(now), To: now}, nil
	case RangeThisYear:
		return DateRange{From: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), To: now}, nil
	default:
		return DateRange{}, fmt.Errorf("unknown relative date %q", string(r))
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfQuarter(t time.Time) time.Time {
	quarterMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, t.Location())
}
