package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock converts "HH:MM" into fractional hours: "09:30" → 9.5.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (float64, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || len(hh) > 2 {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("time %q has invalid minutes", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q is out of range", s)
	}
	return float64(h) + float64(m)/60, nil
}

// FormatClock is the inverse of ParseClock, rounded to the minute.
func FormatClock(hours float64) string {
	total := int(hours*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	// Mongolian names used by the calendar page.
	"ням":    time.Sunday,
	"даваа":  time.Monday,
	"мягмар": time.Tuesday,
	"лхагва": time.Wednesday,
	"пүрэв":  time.Thursday,
	"баасан": time.Friday,
	"бямба":  time.Saturday,
}

// ParseWeekday accepts English or Mongolian day names, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown day %q", s)
	}
	return d, nil
}

// dayOrder puts Monday first.
func dayOrder(d time.Weekday) int {
	return (int(d) + 6) % 7
}
