package scheduler

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when a template's recurrence step falls
// outside the one-week window.
var ErrInvalidInterval = errors.New("interval days must be between 1 and 7")

// DateOnly strips the clock from t, keeping the calendar date at UTC midnight.
// All week math in this package operates on date-only values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekMonday returns the Monday of the week containing t.
func WeekMonday(t time.Time) time.Time {
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	return DateOnly(t).AddDate(0, 0, -offset)
}

// ResolveWeekOf picks the Monday a shuffle targets. An explicit request is
// snapped to its own Monday. Without one, the current week is used, except on
// Sundays, when the upcoming week is targeted instead so a Sunday-evening
// shuffle prepares the week ahead.
func ResolveWeekOf(now time.Time, requested *time.Time) time.Time {
	if requested != nil && !requested.IsZero() {
		return WeekMonday(*requested)
	}
	if now.Weekday() == time.Sunday {
		return WeekMonday(now).AddDate(0, 0, 7)
	}
	return WeekMonday(now)
}

// ExpandDates maps a week Monday and a recurrence step to the ordered dates
// the template occurs on. Stepping starts at the Monday and stays within the
// week: interval 1 yields all seven days, interval 7 exactly the Monday,
// interval 3 Monday/Thursday/Sunday.
func ExpandDates(weekMonday time.Time, intervalDays int) ([]time.Time, error) {
	if intervalDays < 1 || intervalDays > 7 {
		return nil, ErrInvalidInterval
	}

	monday := DateOnly(weekMonday)
	sunday := monday.AddDate(0, 0, 6)

	var dates []time.Time
	for d := monday; !d.After(sunday); d = d.AddDate(0, 0, intervalDays) {
		dates = append(dates, d)
	}
	return dates, nil
}
