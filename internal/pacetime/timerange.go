package pacetime

import (
	"fmt"
	"time"
)

// TimeRange is a concrete [start, end] interval of date-times, with
// start <= end (spec §4.1).
type TimeRange struct {
	Start DateTime
	End   DateTime
}

// NewTimeRange validates and constructs a TimeRange.
func NewTimeRange(start, end DateTime) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// IsInRange reports whether dt falls within [Start, End] inclusive.
func (r TimeRange) IsInRange(dt DateTime) bool {
	return !dt.Before(r.Start) && !dt.After(r.End)
}

func dayBounds(date Date, loc *time.Location) TimeRange {
	start := time.Date(date.year, date.month, date.day, 0, 0, 0, 0, loc)
	end := time.Date(date.year, date.month, date.day, 23, 59, 59, 0, loc)
	return TimeRange{Start: FromTime(start), End: FromTime(end)}
}

func spanBounds(from, to Date, loc *time.Location) TimeRange {
	start := time.Date(from.year, from.month, from.day, 0, 0, 0, 0, loc)
	end := time.Date(to.year, to.month, to.day, 23, 59, 59, 0, loc)
	return TimeRange{Start: FromTime(start), End: FromTime(end)}
}

// TodayRange returns [00:00:00, 23:59:59] of the current local day.
func TodayRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	return dayBounds(DateFromTime(now), now.Location())
}

// YesterdayRange returns the day-bounds of the day before today.
func YesterdayRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	return dayBounds(DateFromTime(now).AddDays(-1), now.Location())
}

// weekStart returns the Monday of the week containing t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0 ... Sunday = 6
	return t.AddDate(0, 0, -offset)
}

// CurrentWeekRange returns [Monday 00:00:00, Sunday 23:59:59] of the
// current local week.
func CurrentWeekRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	monday := weekStart(now)
	sunday := monday.AddDate(0, 0, 6)
	return spanBounds(DateFromTime(monday), DateFromTime(sunday), now.Location())
}

// LastWeekRange returns the week-bounds of the week before the current one.
func LastWeekRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	monday := weekStart(now).AddDate(0, 0, -7)
	sunday := monday.AddDate(0, 0, 6)
	return spanBounds(DateFromTime(monday), DateFromTime(sunday), now.Location())
}

// CurrentMonthRange returns the bounds of the current local month.
func CurrentMonthRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return spanBounds(DateFromTime(first), DateFromTime(last), now.Location())
}

// LastMonthRange returns the bounds of the month before the current one.
func LastMonthRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	first := firstOfThisMonth.AddDate(0, -1, 0)
	last := firstOfThisMonth.AddDate(0, 0, -1)
	return spanBounds(DateFromTime(first), DateFromTime(last), now.Location())
}

// CurrentYearRange returns the bounds of the current local year.
func CurrentYearRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	last := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	return spanBounds(DateFromTime(first), DateFromTime(last), now.Location())
}

// LastYearRange returns the bounds of the year before the current one.
func LastYearRange(clock Clock) TimeRange {
	if clock == nil {
		clock = DefaultClock
	}
	now := clock.Now()
	first := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
	last := time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, now.Location())
	return spanBounds(DateFromTime(first), DateFromTime(last), now.Location())
}

// SpecificDateRange returns the day-bounds of a single calendar date.
func SpecificDateRange(date Date, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.Local
	}
	return dayBounds(date, loc)
}

// DateRangeBetween returns the bounds spanning [from 00:00:00, to
// 23:59:59], failing if to is before from.
func DateRangeBetween(from, to Date, loc *time.Location) (TimeRange, error) {
	if loc == nil {
		loc = time.Local
	}
	if to.Before(from) {
		return TimeRange{}, fmt.Errorf("%w: %s is before %s", ErrInvalidTimeRange, to, from)
	}
	return spanBounds(from, to, loc), nil
}
