package report

import (
	"time"

	"github.com/comanda-app/comanda/pkg/errorbank"
)

// Period is a reporting window anchored on the current date when no explicit
// bounds are supplied.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	}
	return "", errorbank.BadRequest("unknown report period", errorbank.WithDetail("period", s))
}

func (p Period) String() string { return string(p) }

// Bounds derives the default date range for the period relative to now:
// day is today only, week runs Monday through Sunday of the current week,
// month covers the current calendar month, year the current calendar year.
// Both bounds are returned at midnight; callers widen the end to the last
// instant of its day.
func (p Period) Bounds(now time.Time) (start, end time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodWeek:
		// Monday of the current week; Go weekdays start at Sunday.
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 6)
	case PeriodMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		// time.Date normalises month 13, so December rolls into January.
		end = time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location()).AddDate(0, 0, -1)
	case PeriodYear:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		end = time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, today.Location())
	default: // PeriodDay
		start = today
		end = today
	}
	return start, end
}

// dayStart and dayEnd widen a date to its first and last instant so stored
// timestamps anywhere within the day match inclusively.
func dayStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func dayEnd(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), d.Location())
}
