package weather

import (
	"fmt"
	"strings"
	"time"
)

// NextWeekday returns the next date after today that falls on weekday.
// Selecting today's own weekday yields the date one week ahead.
func NextWeekday(today time.Time, weekday time.Weekday) time.Time {
	diff := int(weekday) - int(today.Weekday())
	if diff <= 0 {
		diff += 7
	}
	return today.AddDate(0, 0, diff)
}

// WeekLater returns the same weekday seven days after day.
func WeekLater(day time.Time) time.Time {
	return day.AddDate(0, 0, 7)
}

// ParseWeekday resolves an English weekday name such as "Monday" or "mon".
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.HasPrefix(strings.ToLower(d.String()), n) {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
